package sandsim

import (
	"context"
	"sync/atomic"

	"github.com/gogpu/sandsim/internal/parallel"
)

// Kernel advances a Grid by one tick.
//
// Every implementation applies the same update order and produces
// bit-identical grids for the same input and Boundary.
type Kernel interface {
	// Name returns the registry name, e.g. "scalar" or "wide256".
	Name() string

	// LaneWidth returns the number of cells updated per bulk operation.
	LaneWidth() int

	// Boundary returns the horizontal edge policy.
	Boundary() Boundary

	// Tick advances every layer of g by one tick in place and reports
	// whether any cell moved. ctx is checked before the tick starts;
	// a started tick always completes.
	Tick(ctx context.Context, g *Grid) (changed bool, err error)

	// Close releases the kernel's resources. Tick fails afterwards.
	Close() error
}

// KernelConfig holds the settings shared by all kernels.
type KernelConfig struct {
	// Boundary is the horizontal edge policy.
	Boundary Boundary

	// Workers bounds the number of layers advanced concurrently by CPU
	// kernels. 0 means GOMAXPROCS.
	Workers int
}

// cpuKernel holds what the scalar and batch kernels share: the layer
// fan-out pool and the closed flag.
type cpuKernel struct {
	cfg    KernelConfig
	pool   *parallel.WorkerPool
	closed atomic.Bool
}

func newCPUKernel(cfg KernelConfig) cpuKernel {
	return cpuKernel{cfg: cfg, pool: parallel.NewWorkerPool(cfg.Workers)}
}

func (k *cpuKernel) Boundary() Boundary { return k.cfg.Boundary }

func (k *cpuKernel) Close() error {
	if k.closed.CompareAndSwap(false, true) {
		k.pool.Close()
	}
	return nil
}

// forLayers runs step once per layer on the pool and reports whether any
// layer changed.
func (k *cpuKernel) forLayers(ctx context.Context, g *Grid, step func(layer int) bool) (bool, error) {
	if k.closed.Load() {
		return false, ErrKernelClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	changed := make([]bool, g.Layers())
	k.pool.ForEach(len(changed), func(layer int) {
		changed[layer] = step(layer)
	})

	for _, c := range changed {
		if c {
			return true, nil
		}
	}
	return false, nil
}
