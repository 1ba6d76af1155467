//go:build !nogpu

// Package gpu implements the "gpu" sand kernel on gogpu/wgpu.
//
// It uses the HAL layer of the Pure Go WebGPU implementation (zero CGO)
// with the Vulkan backend. The WGSL shader in shaders/sand.wgsl is
// compiled by the device's shader compiler (gogpu/naga).
//
// # Dispatch Model
//
// One tick is one synchronous round trip:
//
//	upload grid -> (H-1)*(2+ceil(log2 W)) compute passes -> copy to staging -> submit -> fence wait -> readback
//
// Rows are updated bottom row first. Within a row the down-right moves
// form a left-to-right chain, which the shader resolves as a prefix scan:
// a build pass, one scan pass per power-of-two offset below the width and
// a settle pass that writes both rows. The result matches the CPU kernels
// bit for bit. Passes avoid shader loops entirely; the host records the
// pass sequence instead.
//
// # Device Sharing
//
// By default the kernel opens its own Vulkan device. WithDeviceProvider
// runs it on a device owned by the host application (e.g. a gogpu window).
//
// # Errors
//
// Every hal failure during NewKernel aborts construction. A fence wait that
// fails or exceeds the timeout makes Tick return an error wrapping
// ErrDeviceTimeout or the device error; there is no retry.
package gpu
