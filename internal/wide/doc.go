// Package wide provides SIMD-friendly byte lane types for batch cell updates.
//
// The lane types (U8x16, U8x32) are fixed-size byte arrays with small
// element-wise methods. Simple loops over fixed-size arrays let the Go
// compiler keep a whole lane group in registers and, on supported
// architectures, emit vector instructions for them (SSE, AVX, NEON).
//
// # Lane Types
//
// U8x16: 16 cells per operation, the width of a 128-bit vector register.
// U8x32: 32 cells per operation, the width of a 256-bit vector register.
//
// Comparison results follow the vector-ISA convention: 0xFF in lanes where
// the predicate holds and 0x00 elsewhere, so they can be used directly as
// masks with And, AndNot and Or.
//
// # Row Step
//
// A row of grains falls into the row below in one left-to-right pass. The
// pass is split into mask building (OccupiedU8x16, BlockedU8x16), the
// down-right carry (RightMovesU8x16) and the write-back (SettleU8x16).
// Mask rows carry Guard lanes on each side so a lane group can read its
// left neighbours without bounds checks:
//
//	for x := 0; x < stride; x += 16 {
//		for wide.RightMovesU8x16(s[x:], b[x:], r[x:]) {
//		}
//		moved = wide.SettleU8x16(cur[x:], below[x:], in[x:], s[x:], b[x:], r[x:]) || moved
//	}
//
// # Design Philosophy
//
//   - Use simple loops over fixed-size arrays for auto-vectorization
//   - Avoid unsafe and assembly - rely on compiler optimization
//   - Keep functions small and inlineable
//   - Provide benchmarks to verify SIMD performance gains
package wide
