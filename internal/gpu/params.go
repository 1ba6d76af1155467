//go:build !nogpu

package gpu

import (
	"encoding/binary"

	"github.com/gogpu/sandsim"
)

// Pass stages, matching Params.stage in sand.wgsl.
const (
	stageBuild  uint32 = 0
	stageScan   uint32 = 1
	stageSettle uint32 = 2
)

// Scratch regions: the row snapshot and the two scan buffers.
const (
	regionSnap  uint32 = 0
	regionScanA uint32 = 1
	regionScanB uint32 = 2
	regionCount        = 3
)

// workgroupSize is the x extent of @workgroup_size in sand.wgsl.
const workgroupSize = 64

// paramsSize is the size of the Params uniform in bytes.
const paramsSize = 48

// passParams mirrors the Params uniform of sand.wgsl.
type passParams struct {
	Width  uint32
	Height uint32
	Stride uint32
	Layers uint32
	Row    uint32
	Stage  uint32
	Wrap   uint32
	Offset uint32
	Src    uint32
	Dst    uint32
}

// bytes encodes p in the std140 layout of the uniform (twelve u32 words,
// the last two padding).
func (p passParams) bytes() []byte {
	b := make([]byte, paramsSize)
	words := [10]uint32{p.Width, p.Height, p.Stride, p.Layers, p.Row, p.Stage, p.Wrap, p.Offset, p.Src, p.Dst}
	for i, v := range words {
		binary.LittleEndian.PutUint32(b[i*4:], v)
	}
	return b
}

// scanSteps returns how many scan passes a row of width cells needs: one
// per offset 1, 2, 4, ... below width.
func scanSteps(width int) int {
	n := 0
	for d := 1; d < width; d *= 2 {
		n++
	}
	return n
}

// passPlan returns the passes of one tick in submission order: rows H-2
// up to 0, and build, scan and settle within each row.
func passPlan(g *sandsim.Grid, b sandsim.Boundary) []passParams {
	if g.Height() < 2 {
		return nil
	}
	base := passParams{
		Width:  uint32(g.Width()),  //nolint:gosec // grid dimensions fit uint32
		Height: uint32(g.Height()), //nolint:gosec // grid dimensions fit uint32
		Stride: uint32(g.Stride()), //nolint:gosec // grid dimensions fit uint32
		Layers: uint32(g.Layers()), //nolint:gosec // grid dimensions fit uint32
	}
	if b == sandsim.BoundaryWrap {
		base.Wrap = 1
	}

	plan := make([]passParams, 0, (g.Height()-1)*(2+scanSteps(g.Width())))
	for y := g.Height() - 2; y >= 0; y-- {
		p := base
		p.Row = uint32(y) //nolint:gosec // y >= 0

		p.Stage, p.Dst = stageBuild, regionScanA
		plan = append(plan, p)

		src, dst := regionScanA, regionScanB
		for d := 1; d < g.Width(); d *= 2 {
			p.Stage, p.Offset, p.Src, p.Dst = stageScan, uint32(d), src, dst //nolint:gosec // d < width
			plan = append(plan, p)
			src, dst = dst, src
		}

		p.Stage, p.Offset, p.Src, p.Dst = stageSettle, 0, src, 0
		plan = append(plan, p)
	}
	return plan
}

// cellBufferSize returns the size in bytes of the u32 cell buffer for g.
func cellBufferSize(g *sandsim.Grid) uint64 {
	return uint64(g.Layers()*g.Stride()*g.Height()) * 4 //nolint:gosec // positive
}

// scratchBufferSize returns the size in bytes of the scratch buffer for g.
func scratchBufferSize(g *sandsim.Grid) uint64 {
	return uint64(regionCount*g.Layers()*g.Stride()) * 4 //nolint:gosec // positive
}

// packCells widens every layer of g into dst as little-endian u32 cells.
func packCells(dst []byte, g *sandsim.Grid) {
	n := g.Stride() * g.Height()
	for l := 0; l < g.Layers(); l++ {
		out := dst[l*n*4:]
		for i, c := range g.Layer(l) {
			binary.LittleEndian.PutUint32(out[i*4:], uint32(c))
		}
	}
}

// unpackCells copies the u32 cells in src back into g, marks the rows that
// differ and reports whether any cell changed.
func unpackCells(src []byte, g *sandsim.Grid) bool {
	n := g.Stride() * g.Height()
	changed := false
	for l := 0; l < g.Layers(); l++ {
		cells := g.Layer(l)
		in := src[l*n*4:]
		lastRow := -1
		for i := range cells {
			v := byte(binary.LittleEndian.Uint32(in[i*4:]) & 1)
			if cells[i] == v {
				continue
			}
			cells[i] = v
			changed = true
			if y := i / g.Stride(); y != lastRow {
				g.MarkRowDirty(l, y)
				lastRow = y
			}
		}
	}
	return changed
}
