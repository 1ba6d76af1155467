package sandsim

import (
	"context"
	"fmt"

	"github.com/gogpu/sandsim/internal/wide"
)

// laneOps is the row step for one lane width.
type laneOps struct {
	occupied func(dst, cells, in []byte)
	blocked  func(dst, cells, in []byte)
	right    func(s, b, r []byte) bool
	settle   func(cur, below, in, s, b, r []byte) bool
}

// batchKernel updates rows in lane groups of 16 or 32 cells.
//
// Each row pair is turned into guarded byte masks: grains on the row,
// blocked cells below and the down-right moves. Down-right moves depend on
// the move of the grain to their left, so the mask is resolved one lane
// group at a time, left to right, before the group is written back. With
// wrap the two moves across the seam are applied as single-cell fix-ups:
// column 0 going down-left before the pass and column w-1 going
// down-right after it.
type batchKernel struct {
	cpuKernel
	width int
	name  string
	ops   laneOps

	// Per-geometry state, rebuilt when the grid shape changes.
	geomW, geomStride int
	inside            []byte     // 0xFF for columns < width
	scratch           []rowMasks // one per layer
}

// rowMasks holds the guarded mask rows for one layer.
type rowMasks struct {
	s, b, r []byte
}

// NewBatchKernel returns a lane-group kernel. width is 16 ("wide128") or
// 32 ("wide256").
func NewBatchKernel(width int, cfg KernelConfig) (Kernel, error) {
	k := &batchKernel{cpuKernel: newCPUKernel(cfg), width: width}
	switch width {
	case 16:
		k.name = KernelWide128
		k.ops = laneOps{wide.OccupiedU8x16, wide.BlockedU8x16, wide.RightMovesU8x16, wide.SettleU8x16}
	case 32:
		k.name = KernelWide256
		k.ops = laneOps{wide.OccupiedU8x32, wide.BlockedU8x32, wide.RightMovesU8x32, wide.SettleU8x32}
	default:
		k.pool.Close()
		return nil, fmt.Errorf("%w: %d (want 16 or 32)", ErrInvalidLaneWidth, width)
	}
	return k, nil
}

func (k *batchKernel) Name() string   { return k.name }
func (k *batchKernel) LaneWidth() int { return k.width }

func (k *batchKernel) Tick(ctx context.Context, g *Grid) (bool, error) {
	if k.closed.Load() {
		return false, ErrKernelClosed
	}
	k.prepare(g)
	return k.forLayers(ctx, g, func(layer int) bool {
		return k.tickLayer(g, layer, k.scratch[layer])
	})
}

// prepare builds the inside mask and per-layer mask rows for g's geometry.
func (k *batchKernel) prepare(g *Grid) {
	w, stride := g.width, g.stride
	if k.geomW != w || k.geomStride != stride {
		k.geomW, k.geomStride = w, stride
		k.inside = make([]byte, stride)
		for x := 0; x < w; x++ {
			k.inside[x] = 0xFF
		}
		k.scratch = nil
	}
	for len(k.scratch) < g.Layers() {
		m := rowMasks{
			s: make([]byte, stride+2*wide.Guard),
			b: make([]byte, stride+2*wide.Guard),
			r: make([]byte, stride+2*wide.Guard),
		}
		// The guards of b read as blocked so nothing moves past the edges.
		for i := 0; i < wide.Guard; i++ {
			m.b[i] = 0xFF
			m.b[stride+wide.Guard+i] = 0xFF
		}
		k.scratch = append(k.scratch, m)
	}
}

// tickLayer advances one layer using m as its mask rows.
func (k *batchKernel) tickLayer(g *Grid, layer int, m rowMasks) bool {
	w, stride, lanes := g.width, g.stride, k.width
	seam := k.cfg.Boundary == BoundaryWrap && w >= 2
	dirty := g.dirty[layer]
	changed := false

	for y := g.height - 2; y >= 0; y-- {
		cur := g.Row(layer, y)
		below := g.Row(layer, y+1)
		moved := false

		if seam && below[0] != byte(Empty) {
			moved = fallOne(cur, below, 0, w-1)
		}

		for x := 0; x < stride; x += lanes {
			k.ops.occupied(m.s[wide.Guard+x:], cur[x:], k.inside[x:])
			k.ops.blocked(m.b[wide.Guard+x:], below[x:], k.inside[x:])
		}
		clear(m.r)

		for x := 0; x < stride; x += lanes {
			for k.ops.right(m.s[x:], m.b[x:], m.r[x:]) {
			}
			if k.ops.settle(cur[x:], below[x:], k.inside[x:], m.s[x:], m.b[x:], m.r[x:]) {
				moved = true
			}
		}

		if seam && fallOne(cur, below, w-1, 0) {
			moved = true
		}

		if moved {
			dirty.Mark(y)
			dirty.Mark(y + 1)
			changed = true
		}
	}
	return changed
}

// fallOne moves the grain at cur[x] to below[tx] when possible.
func fallOne(cur, below []byte, x, tx int) bool {
	if cur[x] != byte(Sand) || below[tx] != byte(Empty) {
		return false
	}
	below[tx] = byte(Sand)
	cur[x] = byte(Empty)
	return true
}
