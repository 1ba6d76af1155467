package sandsim

import "fmt"

// Boundary is the horizontal edge policy of a kernel.
type Boundary uint8

const (
	// BoundaryClamp skips diagonal moves that would leave the grid.
	BoundaryClamp Boundary = iota
	// BoundaryWrap joins column W-1 and column 0 into a cylinder.
	BoundaryWrap
)

// String returns the policy name accepted by ParseBoundary.
func (b Boundary) String() string {
	switch b {
	case BoundaryClamp:
		return "clamp"
	case BoundaryWrap:
		return "wrap"
	default:
		return fmt.Sprintf("Boundary(%d)", uint8(b))
	}
}

// ParseBoundary parses "clamp" or "wrap". The empty string means clamp.
func ParseBoundary(s string) (Boundary, error) {
	switch s {
	case "", "clamp":
		return BoundaryClamp, nil
	case "wrap":
		return BoundaryWrap, nil
	default:
		return BoundaryClamp, fmt.Errorf("sandsim: unknown boundary %q", s)
	}
}

// column maps a neighbour column into [0, w) under the policy.
// ok is false when the column does not exist.
func (b Boundary) column(x, w int) (int, bool) {
	if x >= 0 && x < w {
		return x, true
	}
	if b == BoundaryWrap {
		return (x%w + w) % w, true
	}
	return 0, false
}
