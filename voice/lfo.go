// lfo.go - triangle low-frequency oscillator with delay
//
// License: GPLv3 or later

package voice

// LFO is a triangle-wave oscillator in [-1, 1] with a silent delay before
// it starts cycling, used for modLFO and vibLFO.
type LFO struct {
	sampleRate   float64
	delaySamples float64
	freqHz       float64

	delayElapsed float64
	phase        float64 // [0, 1)
	value        float64
}

// NewLFO creates an LFO ticking at outputRate samples/second, phase 0,
// no delay, 0Hz (silent until SetFrequency is called).
func NewLFO(outputRate float64) *LFO {
	return &LFO{sampleRate: outputRate}
}

// SetDelay sets the silent pre-roll, in timecents, before the wave begins.
func (l *LFO) SetDelay(timecents float64) {
	l.delaySamples = secondsToSamples(timecentToSecond(timecents), l.sampleRate)
}

// SetFrequency sets the oscillator frequency via an absolute-cent value.
func (l *LFO) SetFrequency(absoluteCents float64) {
	l.freqHz = absoluteCentToHz(absoluteCents)
}

// Update advances the LFO by one output sample period.
func (l *LFO) Update() {
	if l.delayElapsed < l.delaySamples {
		l.delayElapsed++
		l.value = 0
		return
	}

	if l.sampleRate > 0 {
		l.phase += l.freqHz / l.sampleRate
	}
	if l.phase >= 1 {
		l.phase -= float64(int64(l.phase))
	}
	l.value = triangleWave(l.phase)
}

// GetValue returns the current oscillator output.
func (l *LFO) GetValue() float64 {
	return l.value
}

// triangleWave maps a [0,1) phase to a [-1,1] triangle sample starting and
// crossing zero at phase 0.
func triangleWave(phase float64) float64 {
	switch {
	case phase < 0.25:
		return 4 * phase
	case phase < 0.75:
		return 2 - 4*phase
	default:
		return 4*phase - 4
	}
}
