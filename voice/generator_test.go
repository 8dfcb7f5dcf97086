package voice

import "testing"

func TestNewGeneratorSetDefaults(t *testing.T) {
	g := NewGeneratorSet()
	if got := g.Get(GenInitialFilterFc); got != 13500 {
		t.Errorf("GenInitialFilterFc default = %d, want 13500", got)
	}
	if got := g.Get(GenScaleTuning); got != 100 {
		t.Errorf("GenScaleTuning default = %d, want 100", got)
	}
	if got := g.Get(GenOverridingRootKey); got != -1 {
		t.Errorf("GenOverridingRootKey default = %d, want -1", got)
	}
	if got := g.Get(GenPan); got != 0 {
		t.Errorf("GenPan default = %d, want 0", got)
	}
	if got := g.Get(GenAttackVolEnv); got != -12000 {
		t.Errorf("GenAttackVolEnv default = %d, want -12000", got)
	}
	if got := g.Get(GenDelayModLFO); got != -12000 {
		t.Errorf("GenDelayModLFO default = %d, want -12000", got)
	}
}

func TestGeneratorSetGetSetRoundTrip(t *testing.T) {
	g := NewGeneratorSet()
	g.Set(GenCoarseTune, -12)
	if got := g.Get(GenCoarseTune); got != -12 {
		t.Errorf("Get(GenCoarseTune) = %d, want -12", got)
	}
}

func TestGeneratorSetOutOfRangeIsSilent(t *testing.T) {
	g := NewGeneratorSet()
	g.Set(Generator(-1), 5)
	g.Set(Generator(NGenerators+100), 5)
	if got := g.Get(Generator(-1)); got != 0 {
		t.Errorf("Get out of range = %d, want 0", got)
	}
}

func TestGeneratorSetKeyRangePair(t *testing.T) {
	g := NewGeneratorSet()
	lo, hi := g.GetPair(GenKeyRange)
	if lo != 0 || hi != 0x7f {
		t.Errorf("GetPair(GenKeyRange) = (%d,%d), want (0,127)", lo, hi)
	}
}
