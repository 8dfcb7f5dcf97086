// script.go - Lua patch loader
//
// License: GPLv3 or later

package patch

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/sf2voice/voice"
)

// Patch is a fully-parsed script result: generator overrides plus any
// extra modulators the zone wants layered on top of the ten SF2 defaults.
type Patch struct {
	Generators *voice.GeneratorSet
	Modulators []voice.ModulatorDescriptor
}

// LoadScript runs a Lua script and reads its global `Patch` table:
//
//	Patch = {
//	  generators = { pan = -200, coarseTune = -12, initialAttenuation = 40 },
//	  modulators = {
//	    { source = "cc1", polarity = "bipolar", destination = "vibLfoToPitch", amount = 50 },
//	  },
//	}
//
// Any field the script omits keeps its SF2.04 default.
func LoadScript(path string) (*Patch, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("patch: running %s: %w", path, err)
	}

	tbl, ok := L.GetGlobal("Patch").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("patch: %s does not define a Patch table", path)
	}

	p := &Patch{Generators: voice.NewGeneratorSet()}

	if gens, ok := tbl.RawGetString("generators").(*lua.LTable); ok {
		if err := applyGenerators(p.Generators, gens); err != nil {
			return nil, fmt.Errorf("patch: %s: %w", path, err)
		}
	}

	if mods, ok := tbl.RawGetString("modulators").(*lua.LTable); ok {
		descs, err := readModulators(mods)
		if err != nil {
			return nil, fmt.Errorf("patch: %s: %w", path, err)
		}
		p.Modulators = descs
	}

	return p, nil
}

func applyGenerators(g *voice.GeneratorSet, tbl *lua.LTable) error {
	var outerErr error
	tbl.ForEach(func(key, value lua.LValue) {
		if outerErr != nil {
			return
		}
		name := lua.LVAsString(key)
		gen, ok := generatorNames[name]
		if !ok {
			outerErr = fmt.Errorf("unknown generator %q", name)
			return
		}
		num, ok := value.(lua.LNumber)
		if !ok {
			outerErr = fmt.Errorf("generator %q: expected a number", name)
			return
		}
		g.Set(gen, int16(num))
	})
	return outerErr
}

func readModulators(tbl *lua.LTable) ([]voice.ModulatorDescriptor, error) {
	var descs []voice.ModulatorDescriptor
	var outerErr error

	tbl.ForEach(func(_, value lua.LValue) {
		if outerErr != nil {
			return
		}
		row, ok := value.(*lua.LTable)
		if !ok {
			outerErr = fmt.Errorf("modulators: expected a list of tables")
			return
		}
		desc, err := readModulator(row)
		if err != nil {
			outerErr = err
			return
		}
		descs = append(descs, desc)
	})
	return descs, outerErr
}

func readModulator(row *lua.LTable) (voice.ModulatorDescriptor, error) {
	srcName, _ := row.RawGetString("source").(lua.LString)
	src, err := parseSourceOp(string(srcName), row)
	if err != nil {
		return voice.ModulatorDescriptor{}, err
	}

	amountSrc := voice.SourceOp{Index: int(voice.GCNoController)}
	if asName, ok := row.RawGetString("amountSource").(lua.LString); ok && asName != "" {
		amountSrc, err = parseControllerName(string(asName))
		if err != nil {
			return voice.ModulatorDescriptor{}, err
		}
	}

	destName := string(lua.LVAsString(row.RawGetString("destination")))
	dest, ok := generatorNames[destName]
	if !ok {
		return voice.ModulatorDescriptor{}, fmt.Errorf("unknown modulator destination %q", destName)
	}

	amount, _ := row.RawGetString("amount").(lua.LNumber)

	transform := voice.TransformLinear
	if t, ok := row.RawGetString("transform").(lua.LString); ok && string(t) == "abs" {
		transform = voice.TransformAbsoluteValue
	}

	return voice.ModulatorDescriptor{
		SourceOp:       src,
		AmountSourceOp: amountSrc,
		Destination:    dest,
		Amount:         int16(amount),
		TransformOp:    transform,
	}, nil
}

func parseSourceOp(name string, row *lua.LTable) (voice.SourceOp, error) {
	op, err := parseControllerName(name)
	if err != nil {
		return voice.SourceOp{}, err
	}

	if dir, ok := row.RawGetString("direction").(lua.LBool); ok {
		op.Direction = bool(dir)
	}
	if pol, ok := row.RawGetString("polarity").(lua.LString); ok && string(pol) == "bipolar" {
		op.Polarity = true
	}
	if curve, ok := row.RawGetString("curve").(lua.LString); ok {
		c, ok := curveNames[string(curve)]
		if !ok {
			return voice.SourceOp{}, fmt.Errorf("unknown curve %q", curve)
		}
		op.Curve = c
	}
	return op, nil
}

var curveNames = map[string]voice.Curve{
	"linear":  voice.CurveLinear,
	"concave": voice.CurveConcave,
	"convex":  voice.CurveConvex,
	"switch":  voice.CurveSwitch,
}

var generalControllerNames = map[string]voice.GeneralController{
	"none":                  voice.GCNoController,
	"noteOnVelocity":        voice.GCNoteOnVelocity,
	"noteOnKeyNumber":       voice.GCNoteOnKeyNumber,
	"polyPressure":          voice.GCPolyPressure,
	"channelPressure":       voice.GCChannelPressure,
	"pitchWheel":            voice.GCPitchWheel,
	"pitchWheelSensitivity": voice.GCPitchWheelSensitivity,
	"link":                  voice.GCLink,
}

var generatorNames = map[string]voice.Generator{
	"startAddrOffset":           voice.GenStartAddrOffset,
	"endAddrOffset":             voice.GenEndAddrOffset,
	"startLoopAddrOffset":       voice.GenStartLoopAddrOffset,
	"endLoopAddrOffset":         voice.GenEndLoopAddrOffset,
	"startAddrCoarseOffset":     voice.GenStartAddrCoarseOffset,
	"modLfoToPitch":             voice.GenModLfoToPitch,
	"vibLfoToPitch":             voice.GenVibLfoToPitch,
	"modEnvToPitch":             voice.GenModEnvToPitch,
	"initialFilterFc":           voice.GenInitialFilterFc,
	"initialFilterQ":            voice.GenInitialFilterQ,
	"modLfoToFilterFc":          voice.GenModLfoToFilterFc,
	"modEnvToFilterFc":          voice.GenModEnvToFilterFc,
	"endAddrCoarseOffset":       voice.GenEndAddrCoarseOffset,
	"modLfoToVolume":            voice.GenModLfoToVolume,
	"chorusEffectsSend":         voice.GenChorusEffectsSend,
	"reverbEffectsSend":         voice.GenReverbEffectsSend,
	"pan":                       voice.GenPan,
	"delayModLFO":               voice.GenDelayModLFO,
	"freqModLFO":                voice.GenFreqModLFO,
	"delayVibLFO":               voice.GenDelayVibLFO,
	"freqVibLFO":                voice.GenFreqVibLFO,
	"delayModEnv":               voice.GenDelayModEnv,
	"attackModEnv":              voice.GenAttackModEnv,
	"holdModEnv":                voice.GenHoldModEnv,
	"decayModEnv":               voice.GenDecayModEnv,
	"sustainModEnv":             voice.GenSustainModEnv,
	"releaseModEnv":             voice.GenReleaseModEnv,
	"keynumToModEnvHold":        voice.GenKeynumToModEnvHold,
	"keynumToModEnvDecay":       voice.GenKeynumToModEnvDecay,
	"delayVolEnv":               voice.GenDelayVolEnv,
	"attackVolEnv":              voice.GenAttackVolEnv,
	"holdVolEnv":                voice.GenHoldVolEnv,
	"decayVolEnv":               voice.GenDecayVolEnv,
	"sustainVolEnv":             voice.GenSustainVolEnv,
	"releaseVolEnv":             voice.GenReleaseVolEnv,
	"keynumToVolEnvHold":        voice.GenKeynumToVolEnvHold,
	"keynumToVolEnvDecay":       voice.GenKeynumToVolEnvDecay,
	"instrument":                voice.GenInstrument,
	"keyRange":                  voice.GenKeyRange,
	"velRange":                  voice.GenVelRange,
	"startLoopAddrCoarseOffset": voice.GenStartLoopAddrCoarseOffset,
	"keynum":                    voice.GenKeynum,
	"velocity":                  voice.GenVelocity,
	"initialAttenuation":        voice.GenInitialAttenuation,
	"endLoopAddrCoarseOffset":   voice.GenEndLoopAddrCoarseOffset,
	"coarseTune":                voice.GenCoarseTune,
	"fineTune":                  voice.GenFineTune,
	"sampleID":                  voice.GenSampleID,
	"sampleModes":               voice.GenSampleModes,
	"scaleTuning":               voice.GenScaleTuning,
	"exclusiveClass":            voice.GenExclusiveClass,
	"overridingRootKey":         voice.GenOverridingRootKey,
	"pitch":                     voice.GenPitch,
}

// parseControllerName parses either a general-controller name ("noteOnVelocity")
// or a MIDI CC reference ("cc0".."cc127").
func parseControllerName(name string) (voice.SourceOp, error) {
	if gc, ok := generalControllerNames[name]; ok {
		return voice.SourceOp{Index: int(gc)}, nil
	}
	var cc int
	if n, err := fmt.Sscanf(name, "cc%d", &cc); n == 1 && err == nil && cc >= 0 && cc <= 127 {
		return voice.SourceOp{Index: cc, IsMIDICC: true}, nil
	}
	return voice.SourceOp{}, fmt.Errorf("unknown controller %q", name)
}
