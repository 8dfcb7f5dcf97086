// sample.go - voice-local sample playback metadata
//
// License: GPLv3 or later

package voice

// LoopMode selects how a Voice advances phase once it reaches the end of
// a sample's data.
type LoopMode int

const (
	// LoopUnused and LoopUnLooped both play the sample once and finish.
	LoopUnused LoopMode = iota
	LoopUnLooped
	// LoopLooped repeats [StartLoop, EndLoop) forever until released, at
	// which point playback is forced to finish rather than continuing
	// the loop.
	LoopLooped
	// LoopLoopedWithRemainder loops until released, then plays the
	// remainder of the sample through to End before finishing.
	LoopLoopedWithRemainder
)

// Sample is the immutable, shared sample data and the voice-local metadata
// describing how one voice plays it: the region bounds and the pitch
// correction needed to play it back at the requested key.
//
// Buffer is shared across every voice that plays this sample and must not
// be mutated by a Voice.
type Sample struct {
	Buffer []int16

	Start      uint32
	End        uint32
	StartLoop  uint32
	EndLoop    uint32
	Mode       LoopMode
	SampleRate float64

	// Pitch is the MIDI key, fractional, that plays this sample back at
	// its original recorded pitch: rootKey adjusted by the sample's pitch
	// correction.
	Pitch float64
}

// valid reports whether the sample's play region is well-formed: Start <=
// End, within the backing buffer. Loop-point bounds are deliberately not
// checked here — an out-of-range loop region is transient silence (absorbed
// by sampleAt/advanceLoopState), not a construction-time error.
func (s *Sample) valid() bool {
	return s.Start <= s.End && int(s.End) <= len(s.Buffer)
}
