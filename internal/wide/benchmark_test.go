package wide

import "testing"

// Benchmark lane operations to verify SIMD auto-vectorization

func BenchmarkU8x16_CmpEq(b *testing.B) {
	a := SplatU8x16(1)
	c := SplatU8x16(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.CmpEq(c)
	}
}

func BenchmarkU8x32_CmpEq(b *testing.B) {
	a := SplatU8x32(1)
	c := SplatU8x32(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = a.CmpEq(c)
	}
}

// BenchmarkStepRow compares lane widths over a full 448-cell row pair.
func BenchmarkStepRow(b *testing.B) {
	const width = 448
	for _, ops := range allRowOps {
		b.Run(ops.name, func(b *testing.B) {
			cur, below := make([]byte, width), make([]byte, width)
			for i := 0; i < b.N; i++ {
				for x := range cur {
					cur[x] = byte(x % 3 % 2)
					below[x] = byte(x % 5 % 2)
				}
				_ = stepRow(ops, cur, below, width)
			}
		})
	}
}
