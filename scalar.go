package sandsim

import "context"

// scalarKernel is the per-cell reference kernel.
type scalarKernel struct {
	cpuKernel
}

// NewScalarKernel returns the "scalar" kernel: one cell per step with
// explicit boundary checks.
func NewScalarKernel(cfg KernelConfig) Kernel {
	return &scalarKernel{cpuKernel: newCPUKernel(cfg)}
}

func (k *scalarKernel) Name() string   { return KernelScalar }
func (k *scalarKernel) LaneWidth() int { return 1 }

func (k *scalarKernel) Tick(ctx context.Context, g *Grid) (bool, error) {
	return k.forLayers(ctx, g, func(layer int) bool {
		return tickScalar(g, layer, k.cfg.Boundary)
	})
}

// tickScalar advances one layer and marks the rows it changes.
//
// Rows run bottom-up. Within a row, cells run left to right and each grain
// tries down, then down-left, then down-right before the next cell is
// looked at, so a grain may land in a cell its right neighbour would have
// fallen into.
func tickScalar(g *Grid, layer int, b Boundary) bool {
	w, h := g.width, g.height
	dirty := g.dirty[layer]
	changed := false

	for y := h - 2; y >= 0; y-- {
		cur := g.Row(layer, y)
		below := g.Row(layer, y+1)
		moved := false

		for x := 0; x < w; x++ {
			if cur[x] != byte(Sand) {
				continue
			}
			tx, ok := x, below[x] == byte(Empty)
			if !ok {
				tx, ok = b.column(x-1, w)
				ok = ok && below[tx] == byte(Empty)
			}
			if !ok {
				tx, ok = b.column(x+1, w)
				ok = ok && below[tx] == byte(Empty)
			}
			if ok {
				below[tx] = byte(Sand)
				cur[x] = byte(Empty)
				moved = true
			}
		}

		if moved {
			dirty.Mark(y)
			dirty.Mark(y + 1)
			changed = true
		}
	}
	return changed
}
