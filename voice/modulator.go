// modulator.go - SF2 modulator routing: sources, curves, runtime state
//
// License: GPLv3 or later

package voice

import "math"

// GeneralController identifies one of the SF2 "SF general controller"
// source values. Values match the SF2.04 enumeration.
type GeneralController int

const (
	GCNoController          GeneralController = 0
	GCNoteOnVelocity        GeneralController = 2
	GCNoteOnKeyNumber       GeneralController = 3
	GCPolyPressure          GeneralController = 10
	GCChannelPressure       GeneralController = 13
	GCPitchWheel            GeneralController = 14
	GCPitchWheelSensitivity GeneralController = 16
	GCLink                  GeneralController = 127
)

// Curve is a modulator source normalization curve shape.
type Curve int

const (
	CurveLinear Curve = iota
	CurveConcave
	CurveConvex
	CurveSwitch
)

// TransformOp is applied to a modulator's primary source value before it is
// multiplied by the amount source and scaled by Amount.
type TransformOp int

const (
	TransformLinear TransformOp = iota
	TransformAbsoluteValue
)

func (t TransformOp) apply(x float64) float64 {
	if t == TransformAbsoluteValue {
		return math.Abs(x)
	}
	return x
}

// SourceOp describes one of a modulator's two source operators: which
// controller feeds it, and how the raw controller value is normalized.
type SourceOp struct {
	Index     int  // GeneralController value, or a 7-bit MIDI CC number
	IsMIDICC  bool // false: Index is a GeneralController; true: Index is a CC number
	Direction bool // true inverts the normalized value before the curve
	Polarity  bool // false: unipolar [0,1]; true: bipolar [-1,1]
	Curve     Curve
}

// isNoController reports whether op names the "no controller" source,
// which always outputs a constant 1.0.
func (op SourceOp) isNoController() bool {
	return !op.IsMIDICC && op.Index == int(GCNoController)
}

// isSourceSFController reports whether op draws from a general controller
// rather than a MIDI CC.
func isSourceSFController(op SourceOp) bool { return !op.IsMIDICC }

// isSourceMIDIController reports whether op draws from a 7-bit MIDI CC.
func isSourceMIDIController(op SourceOp) bool { return op.IsMIDICC }

// ModulatorDescriptor is the five-field SF2 modulator record: two source
// operators, a destination generator, a scaling amount, and a transform
// applied to the primary source value.
type ModulatorDescriptor struct {
	SourceOp       SourceOp
	AmountSourceOp SourceOp
	Destination    Generator
	Amount         int16
	TransformOp    TransformOp
}

// Modulator is the runtime counterpart of a ModulatorDescriptor: cached
// normalized source values and the resulting contribution to its
// destination generator.
type Modulator struct {
	desc         ModulatorDescriptor
	source       float64
	amountSource float64
	value        float64
}

// NewModulator builds a Modulator from its descriptor. Both source caches
// start at the "no controller" constant (1.0) if their operator names no
// controller, else 0, matching a freshly-constructed voice with no
// controller events delivered yet.
func NewModulator(desc ModulatorDescriptor) *Modulator {
	m := &Modulator{desc: desc}
	if desc.SourceOp.isNoController() {
		m.source = 1
	}
	if desc.AmountSourceOp.isNoController() {
		m.amountSource = 1
	}
	m.recompute()
	return m
}

// GetDestination returns the generator this modulator contributes to.
func (m *Modulator) GetDestination() Generator { return m.desc.Destination }

// GetValue returns the modulator's current contribution.
func (m *Modulator) GetValue() float64 { return m.value }

// UpdateSFController feeds a new raw general-controller value (in that
// controller's natural range, e.g. 0-127 velocity) to this modulator.
// It reports whether the controller matched either source operator, in
// which case the value has been recomputed.
func (m *Modulator) UpdateSFController(controller GeneralController, raw float64) bool {
	matched := false
	if isSourceSFController(m.desc.SourceOp) && GeneralController(m.desc.SourceOp.Index) == controller {
		m.source = normalize(m.desc.SourceOp, raw/generalControllerRange(controller))
		matched = true
	}
	if isSourceSFController(m.desc.AmountSourceOp) && GeneralController(m.desc.AmountSourceOp.Index) == controller {
		m.amountSource = normalize(m.desc.AmountSourceOp, raw/generalControllerRange(controller))
		matched = true
	}
	if matched {
		m.recompute()
	}
	return matched
}

// UpdateMIDIController feeds a new raw 7-bit MIDI CC value to this
// modulator. It reports whether the CC matched either source operator, in
// which case the value has been recomputed.
func (m *Modulator) UpdateMIDIController(cc uint8, raw float64) bool {
	matched := false
	if isSourceMIDIController(m.desc.SourceOp) && m.desc.SourceOp.Index == int(cc) {
		m.source = normalize(m.desc.SourceOp, raw/127)
		matched = true
	}
	if isSourceMIDIController(m.desc.AmountSourceOp) && m.desc.AmountSourceOp.Index == int(cc) {
		m.amountSource = normalize(m.desc.AmountSourceOp, raw/127)
		matched = true
	}
	if matched {
		m.recompute()
	}
	return matched
}

func (m *Modulator) recompute() {
	m.value = float64(m.desc.Amount) * m.desc.TransformOp.apply(m.source) * m.amountSource
}

// generalControllerRange returns the natural maximum of a general
// controller's raw value, used to normalize it into [0,1] before curve
// shaping.
func generalControllerRange(gc GeneralController) float64 {
	switch gc {
	case GCPitchWheel:
		return 16383
	default:
		return 127
	}
}

// normalize maps x (already scaled into [0,1] by the caller) through op's
// direction, curve and polarity to produce the final source value in
// [-1,1] or [0,1].
func normalize(op SourceOp, x float64) float64 {
	x = clampF64(x, 0, 1)
	if op.Direction {
		x = 1 - x
	}

	if op.Curve == CurveSwitch {
		if op.Polarity {
			if x < 0.5 {
				return -1
			}
			return 1
		}
		if x < 0.5 {
			return 0
		}
		return 1
	}

	y := shapeCurve(op.Curve, x)
	if op.Polarity {
		return 2*y - 1
	}
	return y
}

func shapeCurve(c Curve, x float64) float64 {
	switch c {
	case CurveConcave:
		return concaveRatio(x)
	case CurveConvex:
		return 1 - concaveRatio(1-x)
	default:
		return x
	}
}

// concaveRatio implements the SF2 concave source curve, clipped to [0,1]
// per the SF2.04 modulator controller model.
func concaveRatio(x float64) float64 {
	if x >= 1 {
		return 1
	}
	if x <= 0 {
		return 0
	}
	return clampF64(-(20.0/96.0)*math.Log10(1-x*x), 0, 1)
}
