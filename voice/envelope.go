// envelope.go - six-section DAHDSR envelope generator
//
// License: GPLv3 or later

package voice

import "math"

// EnvelopeSection identifies one of the six DAHDSR sections accepted by
// Envelope.SetParameter.
type EnvelopeSection int

const (
	EnvDelay EnvelopeSection = iota
	EnvAttack
	EnvHold
	EnvDecay
	EnvSustain
	EnvRelease
)

// envState is the envelope's internal state machine position, a superset
// of EnvelopeSection that also tracks the terminal Finished state.
type envState int

const (
	stateDelay envState = iota
	stateAttack
	stateHold
	stateDecay
	stateSustain
	stateRelease
	stateFinished
)

// releaseFloorRatio is the fraction of the release-start level below which
// the release section is considered complete, matching the -60dB-ish tail
// length common to DAHDSR implementations.
const releaseFloorRatio = 0.001

// Envelope implements a DAHDSR shape: Attack rises
// linearly in normalized time; Decay and Release fall exponentially toward
// their target level, except that Decay falls linearly when the sustain
// level is 0. Both the volume and modulation envelopes share this
// type; only their downstream mapping differs (Voice applies that).
type Envelope struct {
	sampleRate float64
	state      envState

	delaySamples   float64
	attackSamples  float64
	holdSamples    float64
	decaySamples   float64
	releaseSamples float64
	sustainLevel   float64 // linear [0,1], derived from centibels

	elapsed           float64
	level             float64
	releaseStartLevel float64
}

// NewEnvelope creates an envelope ticking at outputRate samples/second,
// starting in the Delay state at level 0.
func NewEnvelope(outputRate float64) *Envelope {
	return &Envelope{sampleRate: outputRate, state: stateDelay}
}

// SetParameter sets one section's duration (timecents, for every section
// but Sustain) or level (centibels, for Sustain). It affects the current
// and future occurrences of that section.
func (e *Envelope) SetParameter(section EnvelopeSection, value float64) {
	switch section {
	case EnvDelay:
		e.delaySamples = secondsToSamples(timecentToSecond(value), e.sampleRate)
	case EnvAttack:
		e.attackSamples = secondsToSamples(timecentToSecond(value), e.sampleRate)
	case EnvHold:
		e.holdSamples = secondsToSamples(timecentToSecond(value), e.sampleRate)
	case EnvDecay:
		e.decaySamples = secondsToSamples(timecentToSecond(value), e.sampleRate)
	case EnvSustain:
		e.sustainLevel = clampF64(centibelToRatio(value), 0, 1)
	case EnvRelease:
		e.releaseSamples = secondsToSamples(timecentToSecond(value), e.sampleRate)
	}
}

func secondsToSamples(seconds, rate float64) float64 {
	if seconds < 0 {
		return 0
	}
	return seconds * rate
}

// Update advances the envelope by one output sample period.
func (e *Envelope) Update() {
	switch e.state {
	case stateDelay:
		if e.delaySamples <= 0 {
			e.state = stateAttack
			e.elapsed = 0
			return
		}
		e.elapsed++
		if e.elapsed >= e.delaySamples {
			e.state = stateAttack
			e.elapsed = 0
		}

	case stateAttack:
		if e.attackSamples <= 0 {
			e.level = 1
			e.state = stateHold
			e.elapsed = 0
			return
		}
		e.elapsed++
		e.level = clampF64(e.elapsed/e.attackSamples, 0, 1)
		if e.elapsed >= e.attackSamples {
			e.level = 1
			e.state = stateHold
			e.elapsed = 0
		}

	case stateHold:
		e.level = 1
		if e.holdSamples <= 0 {
			e.state = stateDecay
			e.elapsed = 0
			return
		}
		e.elapsed++
		if e.elapsed >= e.holdSamples {
			e.state = stateDecay
			e.elapsed = 0
		}

	case stateDecay:
		if e.decaySamples <= 0 {
			e.level = e.sustainLevel
			e.state = stateSustain
			e.elapsed = 0
			return
		}
		if e.sustainLevel > 0 {
			coef := math.Pow(e.sustainLevel, 1/e.decaySamples)
			e.level *= coef
		} else {
			e.level -= 1 / e.decaySamples
		}
		e.elapsed++
		if e.elapsed >= e.decaySamples || e.level <= e.sustainLevel {
			e.level = e.sustainLevel
			e.state = stateSustain
			e.elapsed = 0
		}

	case stateSustain:
		e.level = e.sustainLevel

	case stateRelease:
		if e.releaseSamples <= 0 {
			e.level = 0
			e.state = stateFinished
			return
		}
		floor := e.releaseStartLevel * releaseFloorRatio
		if e.releaseStartLevel > 0 {
			coef := math.Pow(releaseFloorRatio, 1/e.releaseSamples)
			e.level *= coef
		}
		e.elapsed++
		if e.elapsed >= e.releaseSamples || e.level <= floor {
			e.level = 0
			e.state = stateFinished
		}

	case stateFinished:
		e.level = 0
	}
}

// Release forces a transition to the Release section from any earlier
// state, preserving the current level as the release-start level.
func (e *Envelope) Release() {
	if e.state == stateFinished {
		return
	}
	e.releaseStartLevel = e.level
	e.state = stateRelease
	e.elapsed = 0
}

// Finish forces the envelope to Finished; subsequent GetValue calls
// return 0.
func (e *Envelope) Finish() {
	e.state = stateFinished
	e.level = 0
}

// GetValue returns the current envelope level in [0, 1].
func (e *Envelope) GetValue() float64 {
	return e.level
}

// IsFinished reports whether the envelope has reached the terminal state.
func (e *Envelope) IsFinished() bool {
	return e.state == stateFinished
}
