package patch

import (
	"testing"

	"github.com/intuitionamiga/sf2voice/voice"
)

func TestLoadScriptGenerators(t *testing.T) {
	p, err := LoadScript("testdata/vibrato.lua")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if got := p.Generators.Get(voice.GenPan); got != -200 {
		t.Errorf("GenPan = %d, want -200", got)
	}
	if got := p.Generators.Get(voice.GenCoarseTune); got != -12 {
		t.Errorf("GenCoarseTune = %d, want -12", got)
	}
	if got := p.Generators.Get(voice.GenInitialAttenuation); got != 40 {
		t.Errorf("GenInitialAttenuation = %d, want 40", got)
	}
}

func TestLoadScriptModulators(t *testing.T) {
	p, err := LoadScript("testdata/vibrato.lua")
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(p.Modulators) != 1 {
		t.Fatalf("len(Modulators) = %d, want 1", len(p.Modulators))
	}
	m := p.Modulators[0]
	if !m.SourceOp.IsMIDICC || m.SourceOp.Index != 1 {
		t.Errorf("SourceOp = %+v, want CC1", m.SourceOp)
	}
	if !m.SourceOp.Polarity {
		t.Error("SourceOp.Polarity should be bipolar")
	}
	if m.Destination != voice.GenVibLfoToPitch {
		t.Errorf("Destination = %v, want GenVibLfoToPitch", m.Destination)
	}
	if m.Amount != 50 {
		t.Errorf("Amount = %d, want 50", m.Amount)
	}
}

func TestLoadScriptMissingFile(t *testing.T) {
	if _, err := LoadScript("testdata/does_not_exist.lua"); err == nil {
		t.Error("expected an error for a missing script")
	}
}
