package wide

// U8x16 represents 16 uint8 lanes, one 128-bit vector register.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
type U8x16 [16]uint8

// SplatU8x16 creates U8x16 with all lanes set to n.
func SplatU8x16(n uint8) U8x16 {
	var result U8x16
	for i := range result {
		result[i] = n
	}
	return result
}

// LoadU8x16 loads 16 lanes from src.
// src must have at least 16 bytes.
func LoadU8x16(src []byte) U8x16 {
	var result U8x16
	copy(result[:], src[:16])
	return result
}

// Store writes the 16 lanes to dst.
// dst must have at least 16 bytes.
func (v U8x16) Store(dst []byte) {
	copy(dst[:16], v[:])
}

// CmpEq returns 0xFF in lanes where v[i] == other[i] and 0x00 elsewhere.
func (v U8x16) CmpEq(other U8x16) U8x16 {
	var result U8x16
	for i := range v {
		if v[i] == other[i] {
			result[i] = 0xFF
		}
	}
	return result
}

// And performs lane-wise v & other.
func (v U8x16) And(other U8x16) U8x16 {
	var result U8x16
	for i := range v {
		result[i] = v[i] & other[i]
	}
	return result
}

// AndNot performs lane-wise v &^ other (clears the bits of v set in other).
func (v U8x16) AndNot(other U8x16) U8x16 {
	var result U8x16
	for i := range v {
		result[i] = v[i] &^ other[i]
	}
	return result
}

// Or performs lane-wise v | other.
func (v U8x16) Or(other U8x16) U8x16 {
	var result U8x16
	for i := range v {
		result[i] = v[i] | other[i]
	}
	return result
}

// Any reports whether any lane is non-zero.
func (v U8x16) Any() bool {
	var acc uint8
	for i := range v {
		acc |= v[i]
	}
	return acc != 0
}
