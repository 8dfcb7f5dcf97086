// voice.go - the per-voice DSP and modulation kernel
//
// License: GPLv3 or later

package voice

import (
	"fmt"
	"math"
)

// GenPitch is a virtual destination, not a real SF2 generator, used by the
// default pitch-wheel modulator and by any zone modulator routed to it (in
// pitch cents). It lives one slot
// past the real generator range in Voice.modulations.
const GenPitch Generator = Generator(NGenerators)

// VoiceParams is everything NewVoice needs to start one voice: the note
// event, the shared sample to play, and the merged generator/modulator
// parameter sets an instrument/preset zone selection already produced.
// Zone selection, bank parsing and voice stealing all happen upstream of
// this package.
type VoiceParams struct {
	NoteID    uint64
	ActualKey int
	Velocity  int

	// RootKey and PitchCorrectionCents describe the sample's natural
	// pitch; Sample.Pitch is derived from them during construction.
	RootKey              int
	PitchCorrectionCents int
	Sample               *Sample

	Generators *GeneratorSet
	Modulators []ModulatorDescriptor

	OutputRate float64
}

// Voice is one playing note: a fixed-point phase into a shared sample
// buffer, a volume and modulation envelope, two LFOs, and the modulator
// routing that ties note/controller events to generator destinations. A
// Voice is constructed once per note-on and discarded on completion; it
// performs no allocation after construction.
type Voice struct {
	noteID    uint64
	actualKey int
	key       int
	velocity  int

	sample     *Sample
	generators *GeneratorSet
	modulators []*Modulator

	// modulations[d] is the summed contribution of every modulator
	// targeting generator destination d, refreshed by
	// updateModulatedParams whenever a source feeding it changes.
	modulations [NGenerators + 1]float64

	phase            FixedPoint
	deltaPhase       FixedPoint
	deltaPhaseFactor float64
	voicePitch       float64 // key units

	volume StereoValue

	volEnv *Envelope
	modEnv *Envelope
	modLFO *LFO
	vibLFO *LFO

	outputRate float64
	released   bool
}

// NewVoice builds a Voice ready to Update/Render, following the seven-step
// construction sequence below. It returns an error instead of a Voice when
// the sample region, after the generator address offsets are applied, does
// not satisfy Start <= End <= len(Buffer); modulator data is not validated.
// Callers must not use the nil Voice returned alongside a non-nil error.
func NewVoice(p VoiceParams) (*Voice, error) {
	v := &Voice{
		noteID:     p.NoteID,
		actualKey:  p.ActualKey,
		generators: p.Generators,
		outputRate: p.OutputRate,
		volEnv:     NewEnvelope(p.OutputRate),
		modEnv:     NewEnvelope(p.OutputRate),
		modLFO:     NewLFO(p.OutputRate),
		vibLFO:     NewLFO(p.OutputRate),
	}

	// Step 1: keynum/velocity generator overrides replace the note event's
	// own values when present (a value of -1 means "not overridden").
	v.key = p.ActualKey
	if kn := v.generators.Get(GenKeynum); kn >= 0 {
		v.key = int(kn)
	}
	v.velocity = p.Velocity
	if vel := v.generators.Get(GenVelocity); vel >= 0 {
		v.velocity = int(vel)
	}

	// Step 2: sample region bounds, adjusted by the coarse/fine address
	// offset generators.
	v.sample = adjustSampleRegion(p.Sample, v.generators)
	if !v.sample.valid() {
		return nil, fmt.Errorf("voice: sample region out of range after generator offsets: start=%d end=%d buffer=%d",
			v.sample.Start, v.sample.End, len(v.sample.Buffer))
	}
	invalidLoopPoints := (v.sample.Mode == LoopLooped || v.sample.Mode == LoopLoopedWithRemainder) &&
		!(v.sample.Start <= v.sample.StartLoop && v.sample.StartLoop < v.sample.EndLoop && v.sample.EndLoop <= v.sample.End)

	// Step 3: sample.pitch = rootKey - correction/100, rootKey overridable.
	rootKey := p.RootKey
	if ov := v.generators.Get(GenOverridingRootKey); ov >= 0 {
		rootKey = int(ov)
	}
	v.sample.Pitch = float64(rootKey) - float64(p.PitchCorrectionCents)/100

	// Step 4: the constant factor relating sample frames to output frames
	// at the sample's own recorded pitch.
	v.deltaPhaseFactor = v.sample.SampleRate / (p.OutputRate * keyToHz(v.sample.Pitch))

	// Step 5: default SF2 modulators plus any zone-supplied ones.
	v.modulators = buildModulators(p.Modulators)

	v.phase = fixedFromFloat64(float64(v.sample.Start))

	// Step 6: seed the SF general controllers a freshly-struck note
	// always carries.
	v.UpdateSFController(GCNoteOnVelocity, float64(v.velocity))
	v.UpdateSFController(GCNoteOnKeyNumber, float64(v.key))
	v.UpdateSFController(GCPitchWheelSensitivity, 2)

	// Step 7: recompute every destination's modulated parameter so the
	// voice starts in a fully derived state.
	for dest := Generator(0); dest <= GenPitch; dest++ {
		v.updateModulatedParams(dest)
	}
	v.recomputeDeltaPhase()

	// A looped sample whose loop points don't satisfy start <= startLoop <
	// endLoop <= end can't be played back sensibly; it renders as already
	// finished rather than being rejected outright.
	if invalidLoopPoints {
		v.volEnv.Finish()
		v.modEnv.Finish()
	}

	return v, nil
}

// adjustSampleRegion returns a voice-local copy of base with its region
// bounds shifted by the coarse/fine address offset generators
// (coarse*32768+fine).
func adjustSampleRegion(base *Sample, g *GeneratorSet) *Sample {
	s := *base
	s.Start = offsetAddr(base.Start, g.Get(GenStartAddrOffset), g.Get(GenStartAddrCoarseOffset))
	s.End = offsetAddr(base.End, g.Get(GenEndAddrOffset), g.Get(GenEndAddrCoarseOffset))
	s.StartLoop = offsetAddr(base.StartLoop, g.Get(GenStartLoopAddrOffset), g.Get(GenStartLoopAddrCoarseOffset))
	s.EndLoop = offsetAddr(base.EndLoop, g.Get(GenEndLoopAddrOffset), g.Get(GenEndLoopAddrCoarseOffset))

	switch g.Get(GenSampleModes) {
	case 1:
		s.Mode = LoopLooped
	case 3:
		s.Mode = LoopLoopedWithRemainder
	default:
		s.Mode = LoopUnLooped
	}
	return &s
}

func offsetAddr(base uint32, fine, coarse int16) uint32 {
	return uint32(int64(base) + int64(fine) + int64(coarse)*32768)
}

// Update advances the voice by one output sample: phase, loop-mode
// bookkeeping, both envelopes, both LFOs, and the resulting playback
// rate. It performs no allocation and never blocks.
func (v *Voice) Update() {
	if v.volEnv.IsFinished() {
		return
	}

	v.phase.addAssign(v.deltaPhase)
	v.advanceLoopState()

	v.vibLFO.Update()
	v.modLFO.Update()
	v.volEnv.Update()
	v.modEnv.Update()

	v.recomputeDeltaPhase()
}

// advanceLoopState implements the per-Mode loop/finish state machine:
// unlooped samples finish at End; looped samples wrap to StartLoop until
// released, after which LoopLooped finishes at the next EndLoop and
// LoopLoopedWithRemainder plays on and finishes at End.
func (v *Voice) advanceLoopState() {
	frame := v.phase.integer()

	switch v.sample.Mode {
	case LoopUnused, LoopUnLooped:
		if frame+1 >= v.sample.End {
			v.volEnv.Finish()
			v.modEnv.Finish()
		}

	case LoopLooped:
		if frame >= v.sample.EndLoop {
			if v.released {
				v.volEnv.Finish()
				v.modEnv.Finish()
				return
			}
			if v.sample.EndLoop > v.sample.StartLoop {
				v.phase.subAssignFrames(v.sample.EndLoop - v.sample.StartLoop)
			}
		}

	case LoopLoopedWithRemainder:
		if v.released {
			if frame+1 >= v.sample.End {
				v.volEnv.Finish()
				v.modEnv.Finish()
			}
			return
		}
		if frame >= v.sample.EndLoop && v.sample.EndLoop > v.sample.StartLoop {
			v.phase.subAssignFrames(v.sample.EndLoop - v.sample.StartLoop)
		}
	}
}

// recomputeDeltaPhase folds the modulation envelope, vibrato LFO and mod
// LFO pitch contributions into the per-sample phase increment.
func (v *Voice) recomputeDeltaPhase() {
	modEnvToPitch := v.combined(GenModEnvToPitch)
	vibLfoToPitch := v.combined(GenVibLfoToPitch)
	modLfoToPitch := v.combined(GenModLfoToPitch)

	centsOffset := modEnvToPitch*v.modEnv.GetValue() +
		vibLfoToPitch*v.vibLFO.GetValue() +
		modLfoToPitch*v.modLFO.GetValue()

	effectiveKey := v.voicePitch + centsOffset/100
	v.deltaPhase = fixedFromFloat64(v.deltaPhaseFactor * keyToHz(effectiveKey))
}

// Render produces the voice's next stereo frame by linearly interpolating
// the sample buffer at the current phase. It returns silence once the
// volume envelope has finished; it never allocates or panics.
func (v *Voice) Render() StereoValue {
	if v.volEnv.IsFinished() {
		return StereoValue{}
	}

	idx := v.phase.integer()
	s0 := float64(v.sampleAt(idx))
	s1 := float64(v.sampleAt(idx + 1))
	sampleValue := s0 + v.phase.fractional()*(s1-s0)

	volFactor := centibelToRatio(v.combined(GenModLfoToVolume) * v.modLFO.GetValue())
	amp := v.volEnv.GetValue() * volFactor * (sampleValue / 32767)

	return v.volume.Scale(amp)
}

// sampleAt returns the sample buffer value at frame idx, wrapping into the
// loop region where applicable and returning silence for any out-of-range
// index instead of panicking.
func (v *Voice) sampleAt(idx uint32) int16 {
	looping := v.sample.Mode == LoopLooped ||
		(v.sample.Mode == LoopLoopedWithRemainder && !v.released)
	if looping && idx >= v.sample.EndLoop && v.sample.EndLoop > v.sample.StartLoop {
		idx = v.sample.StartLoop + (idx-v.sample.EndLoop)%(v.sample.EndLoop-v.sample.StartLoop)
	}
	if int(idx) >= len(v.sample.Buffer) {
		return 0
	}
	return v.sample.Buffer[idx]
}

// UpdateSFController delivers a new raw value (in the controller's
// natural range) for one of the SF general controllers to every modulator
// that reads it, then recomputes the destination of every modulator whose
// source or amount source matched.
func (v *Voice) UpdateSFController(controller GeneralController, raw float64) {
	var touched [NGenerators + 1]bool
	for _, m := range v.modulators {
		if m.UpdateSFController(controller, raw) {
			touched[m.GetDestination()] = true
		}
	}
	v.applyTouched(&touched)
}

// UpdateMIDIController delivers a new raw 7-bit value for a MIDI CC to
// every modulator that reads it, then recomputes the destination of every
// modulator whose source or amount source matched.
func (v *Voice) UpdateMIDIController(cc uint8, raw float64) {
	var touched [NGenerators + 1]bool
	for _, m := range v.modulators {
		if m.UpdateMIDIController(cc, raw) {
			touched[m.GetDestination()] = true
		}
	}
	v.applyTouched(&touched)
}

func (v *Voice) applyTouched(touched *[NGenerators + 1]bool) {
	for dest, hit := range touched {
		if hit {
			v.updateModulatedParams(Generator(dest))
		}
	}
}

// OverrideGenerator writes a generator's value directly (e.g. a
// same-sounding-class exclusive-class override). It does not itself
// trigger recomputation; callers follow it with updateModulatedParams via
// a controller update, or rely on the next construction.
func (v *Voice) OverrideGenerator(gen Generator, value int16) {
	v.generators.Set(gen, value)
}

// combined returns a destination's base generator value plus the summed
// modulation currently routed to it.
func (v *Voice) combined(dest Generator) float64 {
	return float64(v.generators.Get(dest)) + v.modulations[dest]
}

// updateModulatedParams resums the modulators targeting dest and applies
// whatever side effect that destination requires: recomputing volume,
// voice pitch, an envelope section or an LFO's delay/frequency.
func (v *Voice) updateModulatedParams(dest Generator) {
	sum := 0.0
	for _, m := range v.modulators {
		if m.GetDestination() == dest {
			sum += m.GetValue()
		}
	}
	v.modulations[dest] = sum

	switch dest {
	case GenPan, GenInitialAttenuation:
		v.recomputeVolume()

	case GenDelayVolEnv:
		v.volEnv.SetParameter(EnvDelay, v.combined(GenDelayVolEnv))
	case GenAttackVolEnv:
		v.volEnv.SetParameter(EnvAttack, v.combined(GenAttackVolEnv))
	case GenHoldVolEnv, GenKeynumToVolEnvHold:
		v.recomputeVolEnvHold()
	case GenDecayVolEnv, GenKeynumToVolEnvDecay:
		v.recomputeVolEnvDecay()
	case GenSustainVolEnv:
		v.volEnv.SetParameter(EnvSustain, v.combined(GenSustainVolEnv))
	case GenReleaseVolEnv:
		v.volEnv.SetParameter(EnvRelease, v.combined(GenReleaseVolEnv))

	case GenDelayModEnv:
		v.modEnv.SetParameter(EnvDelay, v.combined(GenDelayModEnv))
	case GenAttackModEnv:
		v.modEnv.SetParameter(EnvAttack, v.combined(GenAttackModEnv))
	case GenHoldModEnv, GenKeynumToModEnvHold:
		v.recomputeModEnvHold()
	case GenDecayModEnv, GenKeynumToModEnvDecay:
		v.recomputeModEnvDecay()
	case GenSustainModEnv:
		v.modEnv.SetParameter(EnvSustain, v.combined(GenSustainModEnv))
	case GenReleaseModEnv:
		v.modEnv.SetParameter(EnvRelease, v.combined(GenReleaseModEnv))

	case GenDelayModLFO:
		v.modLFO.SetDelay(v.combined(GenDelayModLFO))
	case GenFreqModLFO:
		v.modLFO.SetFrequency(v.combined(GenFreqModLFO))
	case GenDelayVibLFO:
		v.vibLFO.SetDelay(v.combined(GenDelayVibLFO))
	case GenFreqVibLFO:
		v.vibLFO.SetFrequency(v.combined(GenFreqVibLFO))

	case GenCoarseTune, GenFineTune, GenScaleTuning, GenPitch:
		v.recomputeVoicePitch()
	}
}

// recomputeVolEnvHold and its Decay/Mod-env siblings implement the
// keynum-scaled hold/decay generators. Both the base generator and its
// keynum-scaling generator are read post-modulation rather than one or
// the other being simplified to its raw generator value.
func (v *Voice) recomputeVolEnvHold() {
	hold := v.combined(GenHoldVolEnv)
	scale := v.combined(GenKeynumToVolEnvHold)
	v.volEnv.SetParameter(EnvHold, hold+scale*(60-float64(v.key)))
}

func (v *Voice) recomputeVolEnvDecay() {
	decay := v.combined(GenDecayVolEnv)
	scale := v.combined(GenKeynumToVolEnvDecay)
	v.volEnv.SetParameter(EnvDecay, decay+scale*(60-float64(v.key)))
}

func (v *Voice) recomputeModEnvHold() {
	hold := v.combined(GenHoldModEnv)
	scale := v.combined(GenKeynumToModEnvHold)
	v.modEnv.SetParameter(EnvHold, hold+scale*(60-float64(v.key)))
}

func (v *Voice) recomputeModEnvDecay() {
	decay := v.combined(GenDecayModEnv)
	scale := v.combined(GenKeynumToModEnvDecay)
	v.modEnv.SetParameter(EnvDecay, decay+scale*(60-float64(v.key)))
}

// recomputeVolume folds pan and initial attenuation into the cached
// stereo volume multiplier.
func (v *Voice) recomputeVolume() {
	atten := 0.4*float64(v.generators.Get(GenInitialAttenuation)) + v.modulations[GenInitialAttenuation]
	pan := v.combined(GenPan)
	v.volume = pannedVolume(pan).Scale(centibelToRatio(atten))
}

// pannedVolume implements an equal-power pan law: hard
// left/right past +-500, a sine taper in between.
func pannedVolume(pan float64) StereoValue {
	switch {
	case pan <= -500:
		return StereoValue{Left: 1, Right: 0}
	case pan >= 500:
		return StereoValue{Left: 0, Right: 1}
	default:
		return StereoValue{
			Left:  math.Sin(math.Pi * (-pan + 500) / 2000),
			Right: math.Sin(math.Pi * (pan + 500) / 2000),
		}
	}
}

// recomputeVoicePitch folds coarse/fine tune, key scaling and the default
// pitch-wheel modulator's virtual GenPitch contribution into the voice's
// effective key. Key scaling pivots on the sample's own pitch, so
// scaleTuning=0 plays every key at the sample's recorded pitch.
func (v *Voice) recomputeVoicePitch() {
	scaleTuning := v.combined(GenScaleTuning)
	scaledKey := v.sample.Pitch + (float64(v.key)-v.sample.Pitch)*(scaleTuning/100)

	coarse := v.combined(GenCoarseTune)
	fine := v.combined(GenFineTune)
	pitchMod := v.modulations[GenPitch]

	v.voicePitch = scaledKey + (coarse*100+fine+pitchMod)/100
}

// Release transitions the voice toward silence: both envelopes begin
// their release section, and looped sample modes stop looping.
func (v *Voice) Release() {
	v.released = true
	v.volEnv.Release()
	v.modEnv.Release()
}

// IsSounding reports whether the voice still contributes audible output.
func (v *Voice) IsSounding() bool {
	return !v.volEnv.IsFinished()
}

// GetNoteID returns the caller-assigned identifier this voice was
// constructed with.
func (v *Voice) GetNoteID() uint64 {
	return v.noteID
}

// GetActualKey returns the MIDI key that triggered this voice, independent
// of any GenKeynum override applied to pitch/modulation math.
func (v *Voice) GetActualKey() int {
	return v.actualKey
}

// GetExclusiveClass returns the voice's exclusive class, or 0 if none.
func (v *Voice) GetExclusiveClass() int16 {
	return v.generators.Get(GenExclusiveClass)
}

// buildModulators returns the ten default SF2.04 modulators
// followed by any zone-supplied descriptors.
func buildModulators(extra []ModulatorDescriptor) []*Modulator {
	descs := defaultModulatorDescriptors()
	descs = append(descs, extra...)

	mods := make([]*Modulator, len(descs))
	for i, d := range descs {
		mods[i] = NewModulator(d)
	}
	return mods
}

func defaultModulatorDescriptors() []ModulatorDescriptor {
	noController := SourceOp{Index: int(GCNoController)}
	return []ModulatorDescriptor{
		{
			SourceOp:       SourceOp{Index: int(GCNoteOnVelocity), Direction: true, Curve: CurveConcave},
			AmountSourceOp: noController,
			Destination:    GenInitialAttenuation,
			Amount:         960,
		},
		{
			SourceOp:       SourceOp{Index: int(GCNoteOnVelocity), Direction: true, Curve: CurveConcave},
			AmountSourceOp: noController,
			Destination:    GenInitialFilterFc,
			Amount:         -2400,
		},
		{
			SourceOp:       SourceOp{Index: int(GCChannelPressure), Polarity: true},
			AmountSourceOp: noController,
			Destination:    GenVibLfoToPitch,
			Amount:         50,
		},
		{
			SourceOp:       SourceOp{Index: 1, IsMIDICC: true, Polarity: true},
			AmountSourceOp: noController,
			Destination:    GenVibLfoToPitch,
			Amount:         50,
		},
		{
			SourceOp:       SourceOp{Index: 7, IsMIDICC: true, Direction: true, Curve: CurveConcave},
			AmountSourceOp: noController,
			Destination:    GenInitialAttenuation,
			Amount:         960,
		},
		{
			SourceOp:       SourceOp{Index: 10, IsMIDICC: true, Polarity: true},
			AmountSourceOp: noController,
			Destination:    GenPan,
			Amount:         1000,
		},
		{
			SourceOp:       SourceOp{Index: 11, IsMIDICC: true, Direction: true, Curve: CurveConcave},
			AmountSourceOp: noController,
			Destination:    GenInitialAttenuation,
			Amount:         960,
		},
		{
			SourceOp:       SourceOp{Index: 91, IsMIDICC: true},
			AmountSourceOp: noController,
			Destination:    GenReverbEffectsSend,
			Amount:         200,
		},
		{
			SourceOp:       SourceOp{Index: 93, IsMIDICC: true},
			AmountSourceOp: noController,
			Destination:    GenChorusEffectsSend,
			Amount:         200,
		},
		{
			SourceOp:       SourceOp{Index: int(GCPitchWheel), Polarity: true},
			AmountSourceOp: SourceOp{Index: int(GCPitchWheelSensitivity)},
			Destination:    GenPitch,
			Amount:         12700,
		},
	}
}
