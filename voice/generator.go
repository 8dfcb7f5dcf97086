// generator.go - SF2 generator enum and generator value storage
//
// License: GPLv3 or later

package voice

// Generator identifies one of the SF2 generator destinations. The numeric
// values match the SF2.04 generator index so GeneratorSet can be addressed
// directly by a bank parser without a translation table.
type Generator int

const (
	GenStartAddrOffset Generator = iota
	GenEndAddrOffset
	GenStartLoopAddrOffset
	GenEndLoopAddrOffset
	GenStartAddrCoarseOffset
	GenModLfoToPitch
	GenVibLfoToPitch
	GenModEnvToPitch
	GenInitialFilterFc
	GenInitialFilterQ
	GenModLfoToFilterFc
	GenModEnvToFilterFc
	GenEndAddrCoarseOffset
	GenModLfoToVolume
	GenUnused1
	GenChorusEffectsSend
	GenReverbEffectsSend
	GenPan
	GenUnused2
	GenUnused3
	GenUnused4
	GenDelayModLFO
	GenFreqModLFO
	GenDelayVibLFO
	GenFreqVibLFO
	GenDelayModEnv
	GenAttackModEnv
	GenHoldModEnv
	GenDecayModEnv
	GenSustainModEnv
	GenReleaseModEnv
	GenKeynumToModEnvHold
	GenKeynumToModEnvDecay
	GenDelayVolEnv
	GenAttackVolEnv
	GenHoldVolEnv
	GenDecayVolEnv
	GenSustainVolEnv
	GenReleaseVolEnv
	GenKeynumToVolEnvHold
	GenKeynumToVolEnvDecay
	GenInstrument
	GenReserved1
	GenKeyRange
	GenVelRange
	GenStartLoopAddrCoarseOffset
	GenKeynum
	GenVelocity
	GenInitialAttenuation
	GenReserved2
	GenEndLoopAddrCoarseOffset
	GenCoarseTune
	GenFineTune
	GenSampleID
	GenSampleModes
	GenReserved3
	GenScaleTuning
	GenExclusiveClass
	GenOverridingRootKey
	GenUnused5
	GenEndOper

	NGenerators = int(GenEndOper)
)

// generatorDefaults holds the SF2.04-mandated default value for every
// generator that has one; generators not listed here default to 0.
var generatorDefaults = map[Generator]int16{
	GenInitialFilterFc:   13500,
	GenPan:               0,
	GenKeyRange:          0x7f00, // lo=0, hi=127 packed MSB/LSB
	GenVelRange:          0x7f00,
	GenSampleModes:       0,
	GenScaleTuning:       100,
	GenOverridingRootKey: -1,
	GenKeynum:            -1,
	GenVelocity:          -1,
	GenExclusiveClass:    0,

	// DAHDSR section lengths default to -12000 timecents (~1ms), not 0
	// (which timecentToSecond maps to a full second): a generator simply
	// absent from a zone must read back as "effectively instant", the way
	// real SF2.04 banks rely on it, not as a one-second ramp.
	GenDelayVolEnv:   -12000,
	GenAttackVolEnv:  -12000,
	GenHoldVolEnv:    -12000,
	GenDecayVolEnv:   -12000,
	GenReleaseVolEnv: -12000,
	GenDelayModEnv:   -12000,
	GenAttackModEnv:  -12000,
	GenHoldModEnv:    -12000,
	GenDecayModEnv:   -12000,
	GenReleaseModEnv: -12000,
	GenDelayModLFO:   -12000,
	GenDelayVibLFO:   -12000,
}

// GeneratorSet holds one value per generator destination: a dense array
// addressed by Generator rather than a map. Overrides (from a voice or
// instrument zone) are applied on top of SF2.04 defaults at construction.
type GeneratorSet struct {
	values [NGenerators]int16
}

// NewGeneratorSet returns a GeneratorSet populated with SF2.04 defaults.
func NewGeneratorSet() *GeneratorSet {
	g := &GeneratorSet{}
	for gen, v := range generatorDefaults {
		g.values[gen] = v
	}
	return g
}

// Get returns the current value of a generator.
func (g *GeneratorSet) Get(gen Generator) int16 {
	if gen < 0 || int(gen) >= NGenerators {
		return 0
	}
	return g.values[gen]
}

// Set overrides a generator's value.
func (g *GeneratorSet) Set(gen Generator, value int16) {
	if gen < 0 || int(gen) >= NGenerators {
		return
	}
	g.values[gen] = value
}

// GetPair returns (lsb, msb) as unsigned bytes, the packed representation
// used by GenKeyRange/GenVelRange.
func (g *GeneratorSet) GetPair(gen Generator) (lo, hi uint8) {
	v := uint16(g.Get(gen))
	return uint8(v & 0xff), uint8(v >> 8)
}
