package voice

import "testing"

func TestEnvelopeStartsAtZero(t *testing.T) {
	e := NewEnvelope(1000)
	if got := e.GetValue(); got != 0 {
		t.Errorf("initial GetValue() = %f, want 0", got)
	}
	if e.IsFinished() {
		t.Error("freshly constructed envelope should not be finished")
	}
}

func TestEnvelopeAttackReachesUnity(t *testing.T) {
	e := NewEnvelope(1000)
	e.SetParameter(EnvDelay, -12000) // ~1ms, effectively immediate
	e.SetParameter(EnvAttack, 0)     // 1 second at 1000Hz = 1000 samples
	e.SetParameter(EnvHold, -12000)
	e.SetParameter(EnvDecay, -12000)
	e.SetParameter(EnvSustain, 0) // 0cb = full level
	e.SetParameter(EnvRelease, -12000)

	for i := 0; i < 1100; i++ {
		e.Update()
	}
	if got := e.GetValue(); got < 0.99 {
		t.Errorf("attack did not reach ~1.0, got %f", got)
	}
}

func TestEnvelopeAttackIsLinear(t *testing.T) {
	e := NewEnvelope(1000)
	e.SetParameter(EnvDelay, -12000)
	e.SetParameter(EnvAttack, 0) // ~1000 samples
	e.SetParameter(EnvHold, -12000)
	e.SetParameter(EnvDecay, -12000)
	e.SetParameter(EnvSustain, 0)
	e.SetParameter(EnvRelease, -12000)

	e.Update() // consume the (near-zero) delay sample
	var half float64
	for i := 0; i < 500; i++ {
		e.Update()
		if i == 499 {
			half = e.GetValue()
		}
	}
	if half < 0.45 || half > 0.55 {
		t.Errorf("attack midpoint = %f, want ~0.5 (linear ramp)", half)
	}
}

func TestEnvelopeReleasePreservesLevelThenDecays(t *testing.T) {
	e := NewEnvelope(1000)
	e.SetParameter(EnvDelay, -12000)
	e.SetParameter(EnvAttack, -12000)
	e.SetParameter(EnvHold, 1200) // ~2 seconds, long enough to stay in Hold
	e.SetParameter(EnvDecay, -12000)
	e.SetParameter(EnvSustain, 0)
	e.SetParameter(EnvRelease, 0) // 1 second

	e.Update() // Delay section (~1 sample) ends
	e.Update() // Attack section (~1 sample) reaches 1.0 and enters Hold
	levelBeforeRelease := e.GetValue()
	if levelBeforeRelease < 0.99 {
		t.Fatalf("expected envelope in Hold at ~1.0, got %f", levelBeforeRelease)
	}

	e.Release()
	if got := e.GetValue(); got != levelBeforeRelease {
		t.Errorf("Release() changed level from %f to %f, want unchanged until Update", levelBeforeRelease, got)
	}

	for i := 0; i < 2000 && !e.IsFinished(); i++ {
		e.Update()
	}
	if !e.IsFinished() {
		t.Error("envelope did not finish within a generous bound after release")
	}
	if got := e.GetValue(); got != 0 {
		t.Errorf("finished envelope GetValue() = %f, want 0", got)
	}
}

func TestEnvelopeFinishForcesZero(t *testing.T) {
	e := NewEnvelope(1000)
	e.SetParameter(EnvAttack, -12000)
	e.Update()
	e.Finish()
	if !e.IsFinished() {
		t.Error("Finish() should mark the envelope finished")
	}
	if e.GetValue() != 0 {
		t.Errorf("GetValue() after Finish() = %f, want 0", e.GetValue())
	}
}

func TestEnvelopeReleaseOnFinishedIsNoop(t *testing.T) {
	e := NewEnvelope(1000)
	e.Finish()
	e.Release()
	if !e.IsFinished() {
		t.Error("Release() on a finished envelope should leave it finished")
	}
}
