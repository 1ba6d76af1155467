package sandsim

// Cell is the state of one grid location.
type Cell uint8

const (
	// Empty is an unoccupied cell.
	Empty Cell = 0
	// Sand is a cell holding one grain.
	Sand Cell = 1
)

// String returns "empty" or "sand".
func (c Cell) String() string {
	if c == Empty {
		return "empty"
	}
	return "sand"
}
