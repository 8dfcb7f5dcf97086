// main_test.go - demo harness helper tests
//
// License: GPLv3 or later

package main

import (
	"strings"
	"testing"

	"github.com/intuitionamiga/sf2voice/patch"
	"github.com/intuitionamiga/sf2voice/voice"
)

func TestSynthSampleIsLoopedAndInRange(t *testing.T) {
	s := synthSample(44100, 60)
	if s.Mode != voice.LoopLooped {
		t.Errorf("Mode = %v, want LoopLooped", s.Mode)
	}
	if len(s.Buffer) == 0 {
		t.Fatal("synthSample produced an empty buffer")
	}
	for _, v := range s.Buffer {
		if v > 32000 || v < -32000 {
			t.Fatalf("sample value %d out of expected amplitude range", v)
		}
	}
}

func TestCountNonDefaultReflectsOverrides(t *testing.T) {
	g := voice.NewGeneratorSet()
	if n := countNonDefault(g); n != 0 {
		t.Errorf("countNonDefault(defaults) = %d, want 0", n)
	}
	g.Set(voice.GenPan, 250)
	if n := countNonDefault(g); n != 1 {
		t.Errorf("countNonDefault(one override) = %d, want 1", n)
	}
}

func TestDumpPatchIncludesModulatorCount(t *testing.T) {
	p := &patch.Patch{
		Generators: voice.NewGeneratorSet(),
		Modulators: []voice.ModulatorDescriptor{
			{SourceOp: voice.SourceOp{Index: 1, IsMIDICC: true}, Destination: voice.GenPan, Amount: 500},
		},
	}
	out := dumpPatch(p)
	if !strings.Contains(out, "modulators: 1 extra") {
		t.Errorf("dumpPatch output missing modulator count: %q", out)
	}
}

func TestRouteKeyQuitsOnQ(t *testing.T) {
	h := newKeyboardHost(newVoicePlayer(synthSample(44100, 60), &patch.Patch{Generators: voice.NewGeneratorSet()}, 44100))
	if !h.routeKey('q') {
		t.Error("routeKey('q') = false, want true")
	}
	if h.routeKey('z') {
		t.Error("routeKey('z') = true, want false")
	}
}

func TestRouteKeyTriggersNote(t *testing.T) {
	player := newVoicePlayer(synthSample(44100, 60), &patch.Patch{Generators: voice.NewGeneratorSet()}, 44100)
	h := newKeyboardHost(player)
	h.routeKey('z')

	sawSound := false
	for i := 0; i < 1000; i++ {
		l, r := player.RenderFrame()
		if l != 0 || r != 0 {
			sawSound = true
			break
		}
	}
	if !sawSound {
		t.Error("expected the triggered voice to render a non-silent frame within 1000 samples")
	}
}
