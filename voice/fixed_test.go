package voice

import "testing"

func TestFixedPointIntegerAndFractional(t *testing.T) {
	p := fixedFromFloat64(5.25)
	if got := p.integer(); got != 5 {
		t.Errorf("integer() = %d, want 5", got)
	}
	if got := p.fractional(); got < 0.24 || got > 0.26 {
		t.Errorf("fractional() = %f, want ~0.25", got)
	}
}

func TestFixedPointAddAssign(t *testing.T) {
	p := fixedFromFloat64(1.0)
	delta := fixedFromFloat64(0.5)
	p.addAssign(delta)
	if got := p.fractional(); got < 0.49 || got > 0.51 {
		t.Errorf("fractional() after add = %f, want ~0.5", got)
	}
	if got := p.integer(); got != 1 {
		t.Errorf("integer() after add = %d, want 1", got)
	}
}

func TestFixedPointSubAssignFrames(t *testing.T) {
	p := fixedFromFloat64(10.75)
	p.subAssignFrames(4)
	if got := p.integer(); got != 6 {
		t.Errorf("integer() after subAssignFrames(4) = %d, want 6", got)
	}
	if got := p.fractional(); got < 0.74 || got > 0.76 {
		t.Errorf("fractional() after subAssignFrames = %f, want ~0.75", got)
	}
}

func TestFixedPointRepeatedAddStaysAccurate(t *testing.T) {
	// Sub-sample-accurate phase tracking under sustained accumulation:
	// a million small adds must not drift the accumulated phase.
	p := fixedFromFloat64(0)
	delta := fixedFromFloat64(1.0 / 3.0)
	for i := 0; i < 999999; i++ {
		p.addAssign(delta)
	}
	got := float64(p.integer()) + p.fractional()
	want := 999999.0 / 3.0
	if diff := got - want; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("accumulated phase = %f, want ~%f", got, want)
	}
}
