package sandsim

import (
	"math/rand/v2"
	"strings"
	"testing"
)

// gridFromRows builds a one-layer grid from rows of '#' (sand) and '.' (empty).
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := NewGrid(len(rows[0]), len(rows), 1)
	if err != nil {
		t.Fatalf("NewGrid() error = %v", err)
	}
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				g.Set(0, x, y, Sand)
			}
		}
	}
	g.ClearDirty(0)
	return g
}

// rowsOf renders a layer back into the gridFromRows notation.
func rowsOf(g *Grid, layer int) []string {
	rows := make([]string, g.Height())
	var sb strings.Builder
	for y := range rows {
		sb.Reset()
		for x := 0; x < g.Width(); x++ {
			if g.Get(layer, x, y) == Sand {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

// randomGrid fills every layer with the given density from a fixed seed.
func randomGrid(t testing.TB, w, h, layers int, density float64, seed uint64) *Grid {
	t.Helper()
	g, err := NewGrid(w, h, layers)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d, %d) error = %v", w, h, layers, err)
	}
	Randomize(g, AllLayers, density, rand.New(rand.NewPCG(seed, 1)))
	return g
}

// testKernels returns every CPU kernel for b, closed at test cleanup.
func testKernels(t *testing.T, b Boundary) []Kernel {
	t.Helper()
	cfg := KernelConfig{Boundary: b, Workers: 2}
	ks := []Kernel{NewScalarKernel(cfg)}
	for _, width := range []int{16, 32} {
		k, err := NewBatchKernel(width, cfg)
		if err != nil {
			t.Fatalf("NewBatchKernel(%d) error = %v", width, err)
		}
		ks = append(ks, k)
	}
	t.Cleanup(func() {
		for _, k := range ks {
			_ = k.Close()
		}
	})
	return ks
}
