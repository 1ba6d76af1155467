package wide

import (
	"bytes"
	"math/rand/v2"
	"testing"
)

// rowOps is one lane width's set of row-step functions.
type rowOps struct {
	name     string
	width    int
	occupied func(dst, cells, in []byte)
	blocked  func(dst, cells, in []byte)
	right    func(s, b, r []byte) bool
	settle   func(cur, below, in, s, b, r []byte) bool
}

var allRowOps = []rowOps{
	{"U8x16", 16, OccupiedU8x16, BlockedU8x16, RightMovesU8x16, SettleU8x16},
	{"U8x32", 32, OccupiedU8x32, BlockedU8x32, RightMovesU8x32, SettleU8x32},
}

// stepRow updates one row pair of w cells with clamped edges. The rows
// are padded to a multiple of the lane width.
func stepRow(ops rowOps, cur, below []byte, w int) bool {
	stride := len(cur)
	in := make([]byte, stride)
	s := make([]byte, stride+2*Guard)
	b := make([]byte, stride+2*Guard)
	r := make([]byte, stride+2*Guard)
	for x := range in {
		if x < w {
			in[x] = 0xFF
		}
	}
	b[0], b[1], b[stride+Guard], b[stride+Guard+1] = 0xFF, 0xFF, 0xFF, 0xFF

	for x := 0; x < stride; x += ops.width {
		ops.occupied(s[Guard+x:], cur[x:], in[x:])
		ops.blocked(b[Guard+x:], below[x:], in[x:])
	}
	changed := false
	for x := 0; x < stride; x += ops.width {
		for ops.right(s[x:], b[x:], r[x:]) {
		}
		if ops.settle(cur[x:], below[x:], in[x:], s[x:], b[x:], r[x:]) {
			changed = true
		}
	}
	return changed
}

// stepRowRef visits each grain left to right and moves it down, down-left
// or down-right into the first free cell.
func stepRowRef(cur, below []byte, w int) bool {
	changed := false
	for x := 0; x < w; x++ {
		if cur[x] != laneOccupied {
			continue
		}
		for _, tx := range [3]int{x, x - 1, x + 1} {
			if tx < 0 || tx >= w || below[tx] != laneEmpty {
				continue
			}
			below[tx] = laneOccupied
			cur[x] = laneEmpty
			changed = true
			break
		}
	}
	return changed
}

func row(stride int, cells string) []byte {
	b := make([]byte, stride)
	for i, ch := range cells {
		if ch == '#' {
			b[i] = laneOccupied
		}
	}
	return b
}

func TestStepRow(t *testing.T) {
	tests := []struct {
		name       string
		cur, below string
		wantCur    string
		wantBelow  string
	}{
		{"falls", ".#.", "...", "...", ".#."},
		{"left before right", ".#.", ".#.", "...", "##."},
		{"right when left is taken", ".#.", "##.", "...", "###"},
		{"blocked", ".#.", "###", ".#.", "###"},
		{"clamped right edge", "..#", ".##", "..#", ".##"},
		{"left neighbour fills the cell below", "##.", "#.#", ".#.", "###"},
		{"chain across a lane group", "################", "#.#.#.#.#.#.#.#.#", "", ""},
	}

	for _, ops := range allRowOps {
		for _, tt := range tests {
			t.Run(ops.name+"/"+tt.name, func(t *testing.T) {
				w := len(tt.below)
				stride := (w + ops.width - 1) / ops.width * ops.width
				cur, below := row(stride, tt.cur), row(stride, tt.below)
				wantCur, wantBelow := bytes.Clone(cur), bytes.Clone(below)
				if tt.wantCur != "" || tt.wantBelow != "" {
					wantCur, wantBelow = row(stride, tt.wantCur), row(stride, tt.wantBelow)
				} else {
					stepRowRef(wantCur, wantBelow, w)
				}

				stepRow(ops, cur, below, w)
				if !bytes.Equal(cur, wantCur) {
					t.Errorf("cur = %v, want %v", cur, wantCur)
				}
				if !bytes.Equal(below, wantBelow) {
					t.Errorf("below = %v, want %v", below, wantBelow)
				}
			})
		}
	}
}

func TestStepRow_MatchesPerCellOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for _, ops := range allRowOps {
		t.Run(ops.name, func(t *testing.T) {
			for trial := 0; trial < 500; trial++ {
				w := 1 + rng.IntN(3*ops.width)
				stride := (w + ops.width - 1) / ops.width * ops.width
				cur, below := make([]byte, stride), make([]byte, stride)
				for x := 0; x < w; x++ {
					if rng.Float64() < 0.6 {
						cur[x] = laneOccupied
					}
					if rng.Float64() < 0.5 {
						below[x] = laneOccupied
					}
				}
				wantCur, wantBelow := bytes.Clone(cur), bytes.Clone(below)
				wantChanged := stepRowRef(wantCur, wantBelow, w)
				before := count(cur) + count(below)

				changed := stepRow(ops, cur, below, w)
				if changed != wantChanged {
					t.Errorf("trial %d (w=%d): changed = %v, want %v", trial, w, changed, wantChanged)
				}
				if !bytes.Equal(cur, wantCur) || !bytes.Equal(below, wantBelow) {
					t.Fatalf("trial %d (w=%d):\ncur   = %v\nwant    %v\nbelow = %v\nwant    %v",
						trial, w, cur, wantCur, below, wantBelow)
				}
				if after := count(cur) + count(below); after != before {
					t.Fatalf("trial %d: occupied cells = %d, want %d", trial, after, before)
				}
			}
		})
	}
}

func TestRightMoves_Monotone(t *testing.T) {
	for _, ops := range allRowOps {
		t.Run(ops.name, func(t *testing.T) {
			// A full row over every other blocked cell. Each call may only
			// extend the mask.
			n := ops.width + 2*Guard
			s, b, r := make([]byte, n), make([]byte, n), make([]byte, n)
			for i := Guard; i < Guard+ops.width; i++ {
				s[i] = 0xFF
				if (i-Guard)%2 == 0 {
					b[i] = 0xFF
				}
			}
			b[Guard-1] = 0xFF
			prev := count(r)
			for ops.right(s, b, r) {
				c := count(r)
				if c <= prev {
					t.Fatalf("RightMoves() reported a change but the mask did not grow")
				}
				prev = c
			}
			if ops.right(s, b, r) {
				t.Error("RightMoves() changed a settled mask")
			}
		})
	}
}

func count(b []byte) int {
	n := 0
	for _, v := range b {
		if v != 0 {
			n++
		}
	}
	return n
}
