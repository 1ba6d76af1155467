package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sandsim"
	"github.com/gogpu/sandsim/internal/config"
)

// result is the outcome of one kernel run.
type result struct {
	kernel  string
	lanes   int
	ticks   int
	elapsed time.Duration
	moving  int // ticks in which at least one grain moved
	grid    *sandsim.Grid
}

// cellsPerSecond returns the cell update rate across all layers.
func (r *result) cellsPerSecond() float64 {
	if r.elapsed <= 0 {
		return 0
	}
	cells := float64(r.grid.Width() * r.grid.Height() * r.grid.Layers() * r.ticks)
	return cells / r.elapsed.Seconds()
}

// kernelFactory creates the kernel for name.
type kernelFactory func(name string, cfg *config.Config) (sandsim.Kernel, error)

func registryKernel(name string, cfg *config.Config) (sandsim.Kernel, error) {
	return sandsim.NewKernel(name, cfg.KernelConfig())
}

// runKernel seeds a simulation from cfg, fills it with cfg.Density sand and
// times ticks steps. Every kernel run with the same cfg starts from the
// same grid.
func runKernel(ctx context.Context, name string, cfg *config.Config, ticks int, newKernel kernelFactory) (*result, error) {
	k, err := newKernel(name, cfg)
	if err != nil {
		return nil, err
	}
	opts := append(cfg.SimulationOptions(), sandsim.WithKernelInstance(k))
	sim, err := sandsim.New(cfg.Width, cfg.Height, opts...)
	if err != nil {
		_ = k.Close()
		return nil, err
	}
	defer func() {
		_ = sim.Close()
	}()

	sim.Randomize(cfg.Density)

	res := &result{kernel: k.Name(), lanes: k.LaneWidth()}
	start := time.Now()
	for i := 0; i < ticks; i++ {
		changed, err := sim.Step(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: tick %d: %w", name, i, err)
		}
		if changed {
			res.moving++
		}
	}
	res.elapsed = time.Since(start)
	res.ticks = ticks
	res.grid = sim.Grid().Clone()
	return res, nil
}

// diffCells returns how many cells differ between a and b.
// Grids of different geometry differ in every cell of the larger one.
func diffCells(a, b *sandsim.Grid) int {
	if a.Width() != b.Width() || a.Height() != b.Height() || a.Layers() != b.Layers() {
		return max(a.Width()*a.Height()*a.Layers(), b.Width()*b.Height()*b.Layers())
	}
	n := 0
	for l := 0; l < a.Layers(); l++ {
		for y := 0; y < a.Height(); y++ {
			ra, rb := a.Row(l, y), b.Row(l, y)
			for x := 0; x < a.Width(); x++ {
				if ra[x] != rb[x] {
					n++
				}
			}
		}
	}
	return n
}

// verify compares every result against ref concurrently and returns the
// mismatching cell count per kernel name.
func verify(ctx context.Context, ref *result, results []*result) (map[string]int, error) {
	counts := make([]int, len(results))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts[i] = diffCells(ref.grid, r.grid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]int, len(results))
	for i, r := range results {
		out[r.kernel] = counts[i]
	}
	return out, nil
}
