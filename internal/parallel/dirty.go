package parallel

import (
	"math/bits"
	"sync/atomic"
)

// DirtyRows tracks which grid rows changed since the last render pass using
// an atomic bitmap.
//
// The bitmap uses one bit per row, packed into uint64 words (64 rows per word).
// All methods are safe for concurrent use without external synchronization,
// so kernels advancing different layers can mark rows while a renderer drains
// another layer.
type DirtyRows struct {
	// words is the atomic bitmap where each bit represents a row's dirty state.
	// Word index = row / 64, bit position = row % 64.
	words []atomic.Uint64

	// rows is the number of tracked rows.
	rows int
}

// NewDirtyRows creates a new tracker for the given number of rows.
// All rows start as clean.
// Returns nil if rows is zero or negative.
func NewDirtyRows(rows int) *DirtyRows {
	if rows <= 0 {
		return nil
	}

	return &DirtyRows{
		words: make([]atomic.Uint64, (rows+63)/64),
		rows:  rows,
	}
}

// Mark marks a single row as dirty.
// This is a lock-free O(1) operation using atomic OR.
// Does nothing if y is out of range.
func (d *DirtyRows) Mark(y int) {
	if y < 0 || y >= d.rows {
		return
	}
	d.words[y/64].Or(1 << (y & 63))
}

// MarkRange marks rows [y0, y1] inclusive as dirty.
// The range is clamped to the tracked rows.
func (d *DirtyRows) MarkRange(y0, y1 int) {
	if y0 < 0 {
		y0 = 0
	}
	if y1 >= d.rows {
		y1 = d.rows - 1
	}
	for y := y0; y <= y1; y++ {
		d.Mark(y)
	}
}

// MarkAll marks every row as dirty.
func (d *DirtyRows) MarkAll() {
	fullWords := d.rows / 64
	remainder := d.rows % 64

	for i := 0; i < fullWords; i++ {
		d.words[i].Store(^uint64(0))
	}

	// Set remaining bits in the last partial word
	if remainder > 0 {
		d.words[fullWords].Store((uint64(1) << remainder) - 1)
	}
}

// Clear marks all rows as clean.
func (d *DirtyRows) Clear() {
	for i := range d.words {
		d.words[i].Store(0)
	}
}

// IsDirty reports whether row y is marked as dirty.
// Returns false for out-of-range rows.
func (d *DirtyRows) IsDirty(y int) bool {
	if y < 0 || y >= d.rows {
		return false
	}
	return d.words[y/64].Load()&(1<<(y&63)) != 0
}

// IsEmpty returns true if no rows are marked as dirty.
func (d *DirtyRows) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of dirty rows.
func (d *DirtyRows) Count() int {
	count := 0
	for i := range d.words {
		count += bits.OnesCount64(d.words[i].Load())
	}
	return count
}

// GetAndClear atomically retrieves all dirty rows in ascending order and
// clears them.
func (d *DirtyRows) GetAndClear() []int {
	var dirty []int
	for wordIdx := range d.words {
		word := d.words[wordIdx].Swap(0)
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			dirty = append(dirty, wordIdx*64+bitIdx)
			word &^= 1 << bitIdx
		}
	}
	return dirty
}

// ForEach calls fn for each dirty row, top to bottom, without clearing
// the dirty flags.
func (d *DirtyRows) ForEach(fn func(y int)) {
	if fn == nil {
		return
	}

	for wordIdx := range d.words {
		word := d.words[wordIdx].Load()
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			fn(wordIdx*64 + bitIdx)
			word &^= 1 << bitIdx
		}
	}
}

// Rows returns the number of tracked rows.
func (d *DirtyRows) Rows() int {
	return d.rows
}
