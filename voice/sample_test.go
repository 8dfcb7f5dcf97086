package voice

import "testing"

func TestSampleValidBounds(t *testing.T) {
	s := &Sample{Start: 0, End: 200, Buffer: make([]int16, 200)}
	if !s.valid() {
		t.Error("expected valid sample bounds")
	}
}

func TestSampleValidIgnoresInvertedLoopPoints(t *testing.T) {
	// Loop-point sanity is a render-time, transient-silence concern, not a
	// construction-time one; valid() only checks the play region fits the
	// buffer.
	s := &Sample{Start: 0, StartLoop: 100, EndLoop: 10, End: 200, Buffer: make([]int16, 200)}
	if !s.valid() {
		t.Error("expected valid, inverted loop points don't affect the play region")
	}
}

func TestSampleInvalidBounds(t *testing.T) {
	cases := []Sample{
		{Start: 210, End: 200, Buffer: make([]int16, 200)}, // start > end
		{Start: 0, End: 300, Buffer: make([]int16, 200)},   // end beyond buffer
	}
	for i, c := range cases {
		s := c
		if s.valid() {
			t.Errorf("case %d: expected invalid bounds, got valid", i)
		}
	}
}
