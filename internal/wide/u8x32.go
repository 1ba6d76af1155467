package wide

// U8x32 represents 32 uint8 lanes, one 256-bit vector register.
// Designed for Go compiler auto-vectorization with fixed-size arrays.
type U8x32 [32]uint8

// SplatU8x32 creates U8x32 with all lanes set to n.
func SplatU8x32(n uint8) U8x32 {
	var result U8x32
	for i := range result {
		result[i] = n
	}
	return result
}

// LoadU8x32 loads 32 lanes from src.
// src must have at least 32 bytes.
func LoadU8x32(src []byte) U8x32 {
	var result U8x32
	copy(result[:], src[:32])
	return result
}

// Store writes the 32 lanes to dst.
// dst must have at least 32 bytes.
func (v U8x32) Store(dst []byte) {
	copy(dst[:32], v[:])
}

// CmpEq returns 0xFF in lanes where v[i] == other[i] and 0x00 elsewhere.
func (v U8x32) CmpEq(other U8x32) U8x32 {
	var result U8x32
	for i := range v {
		if v[i] == other[i] {
			result[i] = 0xFF
		}
	}
	return result
}

// And performs lane-wise v & other.
func (v U8x32) And(other U8x32) U8x32 {
	var result U8x32
	for i := range v {
		result[i] = v[i] & other[i]
	}
	return result
}

// AndNot performs lane-wise v &^ other (clears the bits of v set in other).
func (v U8x32) AndNot(other U8x32) U8x32 {
	var result U8x32
	for i := range v {
		result[i] = v[i] &^ other[i]
	}
	return result
}

// Or performs lane-wise v | other.
func (v U8x32) Or(other U8x32) U8x32 {
	var result U8x32
	for i := range v {
		result[i] = v[i] | other[i]
	}
	return result
}

// Any reports whether any lane is non-zero.
func (v U8x32) Any() bool {
	var acc uint8
	for i := range v {
		acc |= v[i]
	}
	return acc != 0
}
