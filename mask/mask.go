// Package mask provides bit-level operations on 16-bit words: extracting
// inclusive bit ranges, testing single bits, and sign-extending a narrow
// two's-complement value out to a full word.
//
// All bit positions are 0-indexed from the least significant bit, matching
// the numbering used throughout the LC-3 instruction encoding (e.g. "bit
// 11", "bits 8..0").
package mask

// A bitPos is a word bit position in [0,15]. It is still just a uint, but
// documents intent at call sites.
type bitPos = uint

func checkRange(hi, lo bitPos) {
	if hi < lo {
		panic("mask: invalid range, hi must be >= lo")
	}
	if hi > 15 {
		panic("mask: invalid range, hi must be <= 15")
	}
}

// Field extracts the inclusive bit range [hi:lo] of w, right-justified in
// the result. hi and lo are 0-indexed from the least significant bit.
func Field(w uint16, hi, lo bitPos) uint16 {
	checkRange(hi, lo)
	width := hi - lo + 1
	return (w >> lo) & ((1 << width) - 1)
}

// Bit reports whether bit pos of w is set.
func Bit(w uint16, pos bitPos) bool {
	checkRange(pos, pos)
	return w&(1<<pos) != 0
}

// SignExtend widens value, whose meaningful bits occupy the low bitCount
// positions, to a full 16-bit two's-complement word by replicating its sign
// bit (bit bitCount-1) into the remaining high bits.
func SignExtend(value uint16, bitCount uint) uint16 {
	if bitCount == 0 || bitCount > 16 {
		panic("mask: invalid bitCount for SignExtend")
	}
	if bitCount == 16 {
		return value
	}
	if Bit(value, bitCount-1) {
		return value | (0xffff << bitCount)
	}
	return value
}
