package sandsim

import (
	"context"
	"math/rand/v2"
)

// Simulation owns a Grid and the Kernel that advances it.
//
// It is the single owner of the grid: ticks and mutations run synchronously
// on the caller's goroutine. Simulation is not safe for concurrent use.
type Simulation struct {
	grid   *Grid
	kernel Kernel
	rng    *rand.Rand
	stampP float64
	ticks  uint64
}

// New creates a simulation of width x height cells.
func New(width, height int, opts ...Option) (*Simulation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	grid, err := NewGrid(width, height, o.layers)
	if err != nil {
		return nil, err
	}

	k := o.kernel
	if k == nil {
		k, err = NewKernel(o.kernelName, KernelConfig{
			Boundary: o.boundary,
			Workers:  o.workers,
		})
		if err != nil {
			return nil, err
		}
	}

	seed := o.seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	Logger().Debug("simulation created",
		"width", width,
		"height", height,
		"layers", o.layers,
		"kernel", k.Name(),
		"seed", seed,
	)

	return &Simulation{
		grid:   grid,
		kernel: k,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)),
		stampP: o.stampProbability,
	}, nil
}

// Step advances the simulation by one tick and reports whether any cell
// moved. A cancelled ctx prevents the tick from starting.
func (s *Simulation) Step(ctx context.Context) (bool, error) {
	changed, err := s.kernel.Tick(ctx, s.grid)
	if err != nil {
		return false, err
	}
	s.ticks++
	return changed, nil
}

// AddSand stamps a disc of sand into layer.
func (s *Simulation) AddSand(layer, x, y, radius int) {
	Stamp(s.grid, layer, x, y, radius, s.stampP, s.rng)
}

// Randomize refills every layer with the given sand density.
func (s *Simulation) Randomize(density float64) {
	Randomize(s.grid, AllLayers, density, s.rng)
}

// RandomizeLayer refills one layer with the given sand density.
func (s *Simulation) RandomizeLayer(layer int, density float64) {
	Randomize(s.grid, layer, density, s.rng)
}

// Clear empties every layer.
func (s *Simulation) Clear() {
	Clear(s.grid, AllLayers)
}

// ClearLayer empties one layer.
func (s *Simulation) ClearLayer(layer int) {
	Clear(s.grid, layer)
}

// Cell returns the cell at (x, y) of layer, Empty when out of range.
func (s *Simulation) Cell(layer, x, y int) Cell {
	return s.grid.Get(layer, x, y)
}

// Grid returns the simulation grid.
func (s *Simulation) Grid() *Grid { return s.grid }

// Kernel returns the kernel in use.
func (s *Simulation) Kernel() Kernel { return s.kernel }

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 { return s.ticks }

// Close releases the kernel.
func (s *Simulation) Close() error {
	return s.kernel.Close()
}
