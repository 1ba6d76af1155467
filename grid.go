package sandsim

import (
	"bytes"
	"fmt"

	"github.com/gogpu/sandsim/internal/parallel"
)

// RowAlign is the row stride alignment in cells. It is a multiple of every
// lane width in use (16, 32 and the 64-wide GPU workgroup), so a lane group
// starting at any column below the stride never crosses into the next row.
const RowAlign = 64

// Grid is a stack of equally sized cell layers.
//
// Each layer is one contiguous row-major byte slice. Rows are Stride cells
// apart; columns [Width, Stride) are padding that stays Empty.
// Grid is not safe for concurrent use; kernels may touch distinct layers
// concurrently.
type Grid struct {
	width  int
	height int
	stride int
	cells  [][]byte
	dirty  []*parallel.DirtyRows
}

// NewGrid allocates an empty grid with the given geometry.
func NewGrid(width, height, layers int) (*Grid, error) {
	if width <= 0 || height <= 0 || layers <= 0 {
		return nil, fmt.Errorf("%w: %dx%d with %d layers", ErrInvalidSize, width, height, layers)
	}

	stride := (width + RowAlign - 1) / RowAlign * RowAlign
	g := &Grid{
		width:  width,
		height: height,
		stride: stride,
		cells:  make([][]byte, layers),
		dirty:  make([]*parallel.DirtyRows, layers),
	}
	for i := range layers {
		g.cells[i] = make([]byte, stride*height)
		g.dirty[i] = parallel.NewDirtyRows(height)
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Stride returns the distance in cells between the starts of two rows.
func (g *Grid) Stride() int { return g.stride }

// Layers returns the number of layers.
func (g *Grid) Layers() int { return len(g.cells) }

func (g *Grid) inBounds(layer, x, y int) bool {
	return layer >= 0 && layer < len(g.cells) && x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Get returns the cell at (x, y) of layer. Out-of-range reads return Empty.
func (g *Grid) Get(layer, x, y int) Cell {
	if !g.inBounds(layer, x, y) {
		return Empty
	}
	return Cell(g.cells[layer][y*g.stride+x])
}

// Set stores c at (x, y) of layer and marks the row dirty. Any non-Empty
// value is stored as Sand. Out-of-range writes are ignored.
func (g *Grid) Set(layer, x, y int, c Cell) {
	if !g.inBounds(layer, x, y) {
		return
	}
	if c != Empty {
		c = Sand
	}
	g.cells[layer][y*g.stride+x] = byte(c)
	g.dirty[layer].Mark(y)
}

// Layer returns the raw cells of layer, Stride*Height bytes, or nil when
// layer is out of range. Writers must keep padding columns Empty and mark
// the rows they change.
func (g *Grid) Layer(layer int) []byte {
	if layer < 0 || layer >= len(g.cells) {
		return nil
	}
	return g.cells[layer]
}

// Row returns the Stride-wide row y of layer, or nil when out of range.
func (g *Grid) Row(layer, y int) []byte {
	if layer < 0 || layer >= len(g.cells) || y < 0 || y >= g.height {
		return nil
	}
	return g.cells[layer][y*g.stride : (y+1)*g.stride]
}

// Count returns the number of Sand cells in layer.
func (g *Grid) Count(layer int) int {
	n := 0
	for _, c := range g.Layer(layer) {
		n += int(c)
	}
	return n
}

// Total returns the number of Sand cells in all layers.
func (g *Grid) Total() int {
	n := 0
	for i := range g.cells {
		n += g.Count(i)
	}
	return n
}

// Clone returns a deep copy of the cells. Dirty state is not copied.
func (g *Grid) Clone() *Grid {
	c, _ := NewGrid(g.width, g.height, len(g.cells))
	for i := range g.cells {
		copy(c.cells[i], g.cells[i])
	}
	return c
}

// Equal reports whether o has the same geometry and cells.
func (g *Grid) Equal(o *Grid) bool {
	if o == nil || g.width != o.width || g.height != o.height || len(g.cells) != len(o.cells) {
		return false
	}
	for i := range g.cells {
		if !bytes.Equal(g.cells[i], o.cells[i]) {
			return false
		}
	}
	return true
}

// MarkRowDirty flags row y of layer as changed.
func (g *Grid) MarkRowDirty(layer, y int) {
	if layer < 0 || layer >= len(g.dirty) {
		return
	}
	g.dirty[layer].Mark(y)
}

// DirtyRows returns the changed rows of layer in ascending order without
// clearing them.
func (g *Grid) DirtyRows(layer int) []int {
	if layer < 0 || layer >= len(g.dirty) {
		return nil
	}
	var rows []int
	g.dirty[layer].ForEach(func(y int) { rows = append(rows, y) })
	return rows
}

// TakeDirtyRows returns the changed rows of layer and clears them.
func (g *Grid) TakeDirtyRows(layer int) []int {
	if layer < 0 || layer >= len(g.dirty) {
		return nil
	}
	return g.dirty[layer].GetAndClear()
}

// ClearDirty marks every row of layer as unchanged.
func (g *Grid) ClearDirty(layer int) {
	if layer < 0 || layer >= len(g.dirty) {
		return
	}
	g.dirty[layer].Clear()
}

func (g *Grid) markAllDirty(layer int) {
	g.dirty[layer].MarkAll()
}

// layerRange resolves a layer argument that may be AllLayers.
func (g *Grid) layerRange(layer int) (lo, hi int, ok bool) {
	if layer == AllLayers {
		return 0, len(g.cells), true
	}
	if layer < 0 || layer >= len(g.cells) {
		return 0, 0, false
	}
	return layer, layer + 1, true
}
