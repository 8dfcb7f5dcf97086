package voice

import (
	"context"
	"testing"
)

func TestRenderPoolUpdateAllAdvancesEveryVoice(t *testing.T) {
	voices := []*Voice{newTestVoice(t, LoopUnLooped), newTestVoice(t, LoopUnLooped)}
	starts := make([]uint32, len(voices))
	for i, v := range voices {
		starts[i] = v.phase.integer()
	}

	pool := NewRenderPool(2)
	if err := pool.UpdateAll(context.Background(), voices); err != nil {
		t.Fatalf("UpdateAll returned an error: %v", err)
	}

	for i, v := range voices {
		if v.phase.integer() == starts[i] && v.deltaPhase.integer() != 0 {
			t.Errorf("voice %d phase did not advance", i)
		}
	}
}

func TestRenderPoolRenderMixSumsVoices(t *testing.T) {
	solo := newTestVoice(t, LoopUnLooped)
	a := newTestVoice(t, LoopUnLooped)
	b := newTestVoice(t, LoopUnLooped)

	pool := NewRenderPool(0)
	want := solo.Render()
	want.AddAssign(solo.Render())

	got, err := pool.RenderMix(context.Background(), []*Voice{a, b})
	if err != nil {
		t.Fatalf("RenderMix returned an error: %v", err)
	}
	if got != want {
		t.Errorf("RenderMix() = %+v, want two identical fresh voices summed = %+v", got, want)
	}
}

func TestRenderPoolRenderMixEmptyIsZero(t *testing.T) {
	pool := NewRenderPool(4)
	got, err := pool.RenderMix(context.Background(), nil)
	if err != nil {
		t.Fatalf("RenderMix(nil) returned an error: %v", err)
	}
	if got != (StereoValue{}) {
		t.Errorf("RenderMix(nil) = %+v, want zero", got)
	}
}
