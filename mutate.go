package sandsim

import "math/rand/v2"

// AllLayers selects every layer in Randomize and Clear.
const AllLayers = -1

// chance reports true with probability p. p >= 1 and p <= 0 never
// consume randomness. A nil rng uses the global source.
func chance(rng *rand.Rand, p float64) bool {
	switch {
	case p >= 1:
		return true
	case p <= 0:
		return false
	case rng == nil:
		return rand.Float64() < p
	default:
		return rng.Float64() < p
	}
}

// Stamp turns cells of layer within radius of (cx, cy) into Sand, each with
// the given probability. Cells outside the grid are skipped. An
// out-of-range layer is a no-op.
func Stamp(g *Grid, layer, cx, cy, radius int, probability float64, rng *rand.Rand) {
	if layer < 0 || layer >= g.Layers() || radius < 0 {
		return
	}

	cells := g.cells[layer]
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		y := cy + dy
		if y < 0 || y >= g.height {
			continue
		}
		row := cells[y*g.stride:]
		touched := false
		for dx := -radius; dx <= radius; dx++ {
			x := cx + dx
			if x < 0 || x >= g.width || dx*dx+dy*dy > r2 {
				continue
			}
			if chance(rng, probability) {
				row[x] = byte(Sand)
				touched = true
			}
		}
		if touched {
			g.dirty[layer].Mark(y)
		}
	}
}

// Randomize sets every cell of layer to Sand with probability density,
// otherwise Empty. layer may be AllLayers.
func Randomize(g *Grid, layer int, density float64, rng *rand.Rand) {
	lo, hi, ok := g.layerRange(layer)
	if !ok {
		return
	}
	for l := lo; l < hi; l++ {
		cells := g.cells[l]
		for y := 0; y < g.height; y++ {
			row := cells[y*g.stride : y*g.stride+g.width]
			for x := range row {
				if chance(rng, density) {
					row[x] = byte(Sand)
				} else {
					row[x] = byte(Empty)
				}
			}
		}
		g.markAllDirty(l)
	}
}

// Clear sets every cell of layer to Empty. layer may be AllLayers.
func Clear(g *Grid, layer int) {
	lo, hi, ok := g.layerRange(layer)
	if !ok {
		return
	}
	for l := lo; l < hi; l++ {
		clear(g.cells[l])
		g.markAllDirty(l)
	}
}
