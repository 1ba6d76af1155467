package wide

// Lane values for cell state. A cell is either empty or occupied.
const (
	laneEmpty    = 0
	laneOccupied = 1
)

var (
	occupied16 = SplatU8x16(laneOccupied)
	empty16    = SplatU8x16(laneEmpty)
	ones16     = SplatU8x16(0xFF)
	occupied32 = SplatU8x32(laneOccupied)
	empty32    = SplatU8x32(laneEmpty)
	ones32     = SplatU8x32(0xFF)
)

// Guard is the number of mask lanes kept on the left of a row window.
// Mask rows hold lane x at index x+Guard and need Guard lanes of slack on
// the right as well.
const Guard = 2

// OccupiedU8x16 writes 0xFF to dst where cells is occupied and in is 0xFF.
// All slices must have at least 16 bytes.
func OccupiedU8x16(dst, cells, in []byte) {
	LoadU8x16(cells).CmpEq(occupied16).And(LoadU8x16(in)).Store(dst)
}

// BlockedU8x16 writes 0xFF to dst where cells is occupied or in is 0x00.
// All slices must have at least 16 bytes.
func BlockedU8x16(dst, cells, in []byte) {
	open := LoadU8x16(cells).CmpEq(empty16).And(LoadU8x16(in))
	ones16.AndNot(open).Store(dst)
}

// RightMovesU8x16 refines the right-move mask r for one lane group and
// reports whether any lane was added.
//
// s, b and r are guarded mask windows: lane i of the group is at index
// i+Guard, so the two lanes to its left are readable. s marks grains on
// the row, b marks blocked cells on the row below and r marks grains that
// move down-right. Lane i moves right when
//
//	s[i] & !b[i+1] & (b[i] | r[i-1]) & (b[i-1] | s[i-1] | r[i-2])
//
// that is, when it is blocked below (possibly by its left neighbour having
// just moved there), cannot go down-left and the cell below-right is free.
// r[i] only ever grows as r[i-1] and r[i-2] do, so calling this until it
// returns false leaves the exact mask for the group once the lanes to its
// left are final. The windows must have at least 16+Guard+1 bytes.
func RightMovesU8x16(s, b, r []byte) bool {
	old := LoadU8x16(r[Guard:])
	next := LoadU8x16(s[Guard:]).
		AndNot(LoadU8x16(b[Guard+1:])).
		And(LoadU8x16(b[Guard:]).Or(LoadU8x16(r[Guard-1:]))).
		And(LoadU8x16(b[Guard-1:]).Or(LoadU8x16(s[Guard-1:])).Or(LoadU8x16(r[Guard-2:])))
	if !next.AndNot(old).Any() {
		return false
	}
	next.Or(old).Store(r[Guard:])
	return true
}

// SettleU8x16 applies one lane group of a row update once its right-move
// mask is final. cur and below are the cell rows at the group, in marks
// the lanes inside the grid and s, b, r are the windows passed to
// RightMovesU8x16. Reports whether either row changed.
//
// A grain that is not moving right goes down when the cell below is still
// free, otherwise down-left when the cell below-left is free after its left
// neighbour's move. The new row below is
//
//	b | down | r[i-1] | left[i+1]
func SettleU8x16(cur, below, in, s, b, r []byte) bool {
	sc := LoadU8x16(s[Guard:])
	bc := LoadU8x16(b[Guard:])
	rc := LoadU8x16(r[Guard:])
	sl, bl, rl := LoadU8x16(s[Guard-1:]), LoadU8x16(b[Guard-1:]), LoadU8x16(r[Guard-1:])
	sr, br := LoadU8x16(s[Guard+1:]), LoadU8x16(b[Guard+1:])

	under := bc.Or(rl)
	down := sc.AndNot(under)
	left := sc.And(under).AndNot(bl.Or(sl).Or(LoadU8x16(r[Guard-2:])))
	fromRight := sr.And(br.Or(rc)).AndNot(bc.Or(sc).Or(rl))
	filled := down.Or(rl).Or(fromRight)

	moved := down.Or(left).Or(rc)
	if !moved.Or(filled.AndNot(bc)).Any() {
		return false
	}

	m := LoadU8x16(in)
	sc.AndNot(moved).And(m).And(occupied16).Store(cur)
	bc.Or(filled).And(m).And(occupied16).Store(below)
	return true
}

// OccupiedU8x32 is OccupiedU8x16 over 32 lanes.
func OccupiedU8x32(dst, cells, in []byte) {
	LoadU8x32(cells).CmpEq(occupied32).And(LoadU8x32(in)).Store(dst)
}

// BlockedU8x32 is BlockedU8x16 over 32 lanes.
func BlockedU8x32(dst, cells, in []byte) {
	open := LoadU8x32(cells).CmpEq(empty32).And(LoadU8x32(in))
	ones32.AndNot(open).Store(dst)
}

// RightMovesU8x32 is RightMovesU8x16 over 32 lanes.
// The windows must have at least 32+Guard+1 bytes.
func RightMovesU8x32(s, b, r []byte) bool {
	old := LoadU8x32(r[Guard:])
	next := LoadU8x32(s[Guard:]).
		AndNot(LoadU8x32(b[Guard+1:])).
		And(LoadU8x32(b[Guard:]).Or(LoadU8x32(r[Guard-1:]))).
		And(LoadU8x32(b[Guard-1:]).Or(LoadU8x32(s[Guard-1:])).Or(LoadU8x32(r[Guard-2:])))
	if !next.AndNot(old).Any() {
		return false
	}
	next.Or(old).Store(r[Guard:])
	return true
}

// SettleU8x32 is SettleU8x16 over 32 lanes.
func SettleU8x32(cur, below, in, s, b, r []byte) bool {
	sc := LoadU8x32(s[Guard:])
	bc := LoadU8x32(b[Guard:])
	rc := LoadU8x32(r[Guard:])
	sl, bl, rl := LoadU8x32(s[Guard-1:]), LoadU8x32(b[Guard-1:]), LoadU8x32(r[Guard-1:])
	sr, br := LoadU8x32(s[Guard+1:]), LoadU8x32(b[Guard+1:])

	under := bc.Or(rl)
	down := sc.AndNot(under)
	left := sc.And(under).AndNot(bl.Or(sl).Or(LoadU8x32(r[Guard-2:])))
	fromRight := sr.And(br.Or(rc)).AndNot(bc.Or(sc).Or(rl))
	filled := down.Or(rl).Or(fromRight)

	moved := down.Or(left).Or(rc)
	if !moved.Or(filled.AndNot(bc)).Any() {
		return false
	}

	m := LoadU8x32(in)
	sc.AndNot(moved).And(m).And(occupied32).Store(cur)
	bc.Or(filled).And(m).And(occupied32).Store(below)
	return true
}
