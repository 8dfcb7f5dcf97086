// tables.go - conversion lookup tables for the voice synthesis kernel
//
// License: GPLv3 or later

package voice

import "math"

// keyToHzTableSize holds one octave of cent-resolution doubling factors;
// keyToHz reuses it across octaves by scaling with 2^octave.
const keyToHzTableSize = 1200

// keyToHzTable[c] == 2^(c/1200) for c in [0, 1200).
var keyToHzTable [keyToHzTableSize]float64

func init() {
	for c := 0; c < keyToHzTableSize; c++ {
		keyToHzTable[c] = math.Pow(2, float64(c)/1200)
	}
}

// centibelToRatio converts a centibel attenuation to a linear amplitude
// ratio. Intentional deviation: the divisor here is -200, not the SF2
// spec's -100. Banks in the wild are routinely authored/tested against
// this looser curve, and preserving it is required for bit-for-bit
// compatibility with those banks; do not "fix" this to -100.
func centibelToRatio(cb float64) float64 {
	if cb <= 0 {
		return 1.0
	}
	if cb >= 1441 {
		return 0.0
	}
	return math.Pow(10, math.Floor(cb)/-200)
}

// keyToHz converts a (possibly fractional) MIDI key number to a frequency
// in Hz. key=0 is C-1 (≈8.176Hz); key=69 is A4 (440Hz). Any negative key
// returns 1.0.
func keyToHz(key float64) float64 {
	if key < 0 {
		return 1.0
	}

	// Re-anchor so that shifted=0 lands on r=6.875 (the note six octaves
	// below A4), stepping in octaves from key 3.
	shifted := (key + 3) * 100
	octave := math.Floor(shifted / 1200)
	within := shifted - octave*1200

	lo := int(within)
	frac := within - float64(lo)

	hi := lo + 1
	hiVal := keyToHzTable[0] * 2 // wrap into next octave
	if hi < keyToHzTableSize {
		hiVal = keyToHzTable[hi]
	}

	ratio := keyToHzTable[lo] + frac*(hiVal-keyToHzTable[lo])
	return 6.875 * ratio * math.Pow(2, octave)
}

// timecentToSecond converts a timecent duration to seconds.
func timecentToSecond(tc float64) float64 {
	return math.Pow(2, tc/1200)
}

// absoluteCentToHz converts an absolute-cent frequency encoding to Hz,
// where 6900 cents is about 440Hz (8.176 * 2^(6900/1200) ≈ 440.01).
func absoluteCentToHz(ac float64) float64 {
	return 8.176 * math.Pow(2, ac/1200)
}

// joinBytes combines a 7-bit MSB and LSB into a 14-bit MIDI value.
func joinBytes(msb, lsb uint8) uint16 {
	return uint16(msb&0x7f)<<7 | uint16(lsb&0x7f)
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
