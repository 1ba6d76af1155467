//go:build !nogpu

// Package gpu registers the "gpu" sand kernel.
//
// Import this package to make the WGSL compute kernel available through
// sandsim.NewKernel and sandsim.WithKernel:
//
//	import _ "github.com/gogpu/sandsim/gpu" // enable the GPU kernel
//
// The device is opened lazily when a "gpu" kernel is first created, so
// importing the package on a machine without Vulkan costs nothing; the
// failure surfaces from sandsim.NewKernel instead.
//
// Build with -tags nogpu to leave the kernel out entirely.
package gpu

import (
	"time"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/sandsim"
	gpuimpl "github.com/gogpu/sandsim/internal/gpu"
)

func init() {
	sandsim.RegisterKernel(sandsim.KernelGPU, func(cfg sandsim.KernelConfig) (sandsim.Kernel, error) {
		k, err := gpuimpl.NewKernel(cfg)
		if err != nil {
			sandsim.Logger().Warn("GPU kernel not available", "err", err)
			return nil, err
		}
		return k, nil
	})
}

// NewKernel creates a GPU kernel directly.
//
// The provider, if not nil, shares a device owned by the host application
// (e.g. gogpu). It must also implement HalDevice() any and HalQueue() any.
// fenceTimeout bounds each tick; 0 selects one second.
func NewKernel(cfg sandsim.KernelConfig, provider gpucontext.DeviceProvider, fenceTimeout time.Duration) (sandsim.Kernel, error) {
	var opts []gpuimpl.Option
	if provider != nil {
		opts = append(opts, gpuimpl.WithDeviceProvider(provider))
	}
	if fenceTimeout > 0 {
		opts = append(opts, gpuimpl.WithFenceTimeout(fenceTimeout))
	}
	k, err := gpuimpl.NewKernel(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return k, nil
}

// ErrDeviceTimeout is returned by Tick when the device misses the fence
// timeout.
var ErrDeviceTimeout = gpuimpl.ErrDeviceTimeout
