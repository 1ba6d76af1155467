package sandsim

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sys/cpu"
)

// Registered kernel names.
const (
	KernelScalar  = "scalar"
	KernelWide128 = "wide128"
	KernelWide256 = "wide256"
	KernelGPU     = "gpu"
)

// KernelFactory creates a new kernel instance.
type KernelFactory func(cfg KernelConfig) (Kernel, error)

// registry holds registered kernels.
var (
	registryMu sync.RWMutex
	kernels    = make(map[string]KernelFactory)
)

func init() {
	RegisterKernel(KernelScalar, func(cfg KernelConfig) (Kernel, error) {
		return NewScalarKernel(cfg), nil
	})
	RegisterKernel(KernelWide128, func(cfg KernelConfig) (Kernel, error) {
		return NewBatchKernel(16, cfg)
	})
	RegisterKernel(KernelWide256, func(cfg KernelConfig) (Kernel, error) {
		return NewBatchKernel(32, cfg)
	})
}

// RegisterKernel registers a kernel factory with the given name.
// This is typically called from init() functions in kernel packages.
// If a kernel with the same name is already registered, it will be replaced.
func RegisterKernel(name string, factory KernelFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	kernels[name] = factory
}

// UnregisterKernel removes a kernel from the registry.
// This is useful for testing.
func UnregisterKernel(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(kernels, name)
}

// AvailableKernels returns the registered kernel names in sorted order.
func AvailableKernels() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsKernelRegistered checks if a kernel with the given name is registered.
func IsKernelRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := kernels[name]
	return ok
}

// DefaultKernelName returns the widest CPU kernel the host runs natively:
// "wide256" with AVX2, otherwise "wide128".
func DefaultKernelName() string {
	if cpu.X86.HasAVX2 {
		return KernelWide256
	}
	return KernelWide128
}

// NewKernel creates the kernel registered under name. An empty name
// selects DefaultKernelName. The current logger is passed to kernels that
// accept one.
func NewKernel(name string, cfg KernelConfig) (Kernel, error) {
	if name == "" {
		name = DefaultKernelName()
	}

	registryMu.RLock()
	factory, ok := kernels[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownKernel, name, AvailableKernels())
	}

	k, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("sandsim: create kernel %q: %w", name, err)
	}
	propagateLogger(k, Logger())
	Logger().Debug("kernel selected",
		"name", k.Name(),
		"lane_width", k.LaneWidth(),
		"boundary", k.Boundary().String(),
	)
	return k, nil
}
