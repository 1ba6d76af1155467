//go:build !nogpu

package gpu

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sandsim"
	"github.com/gogpu/sandsim/internal/cache"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

//go:embed shaders/sand.wgsl
var sandShaderSource string

// DefaultFenceTimeout bounds the wait for one tick on the device.
const DefaultFenceTimeout = time.Second

// ErrDeviceTimeout is returned by Tick when the device does not signal the
// tick's fence within the fence timeout. The device state is undefined
// afterwards; callers should treat it as fatal.
var ErrDeviceTimeout = errors.New("gpu: device timeout")

// Option configures a Kernel during creation.
type Option func(*kernelOptions)

type kernelOptions struct {
	fenceTimeout time.Duration
	provider     gpucontext.DeviceProvider
}

// WithFenceTimeout sets how long Tick waits for the device.
func WithFenceTimeout(d time.Duration) Option {
	return func(o *kernelOptions) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

// WithDeviceProvider runs the kernel on a device shared by the host
// application instead of opening its own. The provider must also expose
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
// The shared device is not destroyed by Close.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *kernelOptions) {
		o.provider = p
	}
}

// Kernel advances a sandsim.Grid with a WGSL compute shader.
//
// Each tick uploads the grid, records the build, scan and settle passes of
// every row into a single command buffer, submits it once and blocks on a fence
// before reading the grid back.
type Kernel struct {
	mu sync.Mutex

	cfg          sandsim.KernelConfig
	fenceTimeout time.Duration

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // shared device, not destroyed on Close

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	res    *cache.LRU[geometry, *resources]
	closed bool

	log atomic.Pointer[slog.Logger] // nil: follow sandsim.Logger
}

var _ sandsim.Kernel = (*Kernel)(nil)

// NewKernel opens a device (or uses the provider's) and builds the sand
// compute pipeline. Any hal failure aborts construction.
func NewKernel(cfg sandsim.KernelConfig, opts ...Option) (*Kernel, error) {
	o := kernelOptions{fenceTimeout: DefaultFenceTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	k := &Kernel{cfg: cfg, fenceTimeout: o.fenceTimeout}
	k.res = cache.New(resourceSlots, func(_ geometry, r *resources) {
		r.destroy(k.device)
	})
	if o.provider != nil {
		if err := k.useProvider(o.provider); err != nil {
			return nil, err
		}
	} else if err := k.openDevice(); err != nil {
		k.destroyDevice()
		return nil, err
	}

	if err := k.createPipeline(); err != nil {
		k.destroyPipeline()
		k.destroyDevice()
		return nil, fmt.Errorf("gpu: create pipeline: %w", err)
	}
	return k, nil
}

func (k *Kernel) Name() string               { return sandsim.KernelGPU }
func (k *Kernel) LaneWidth() int             { return workgroupSize }
func (k *Kernel) Boundary() sandsim.Boundary { return k.cfg.Boundary }

func (k *Kernel) openDevice() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("gpu: create instance: %w", err)
	}
	k.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("gpu: open device: %w", err)
	}
	k.device = openDev.Device
	k.queue = openDev.Queue
	k.logger().Info("gpu: sand kernel adapter selected", "adapter", selected.Info.Name)
	return nil
}

func (k *Kernel) useProvider(provider gpucontext.DeviceProvider) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}
	k.device = device
	k.queue = queue
	k.external = true
	k.logger().Info("gpu: sand kernel using shared device")
	return nil
}

func (k *Kernel) createPipeline() error {
	shader, err := k.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "sand",
		Source: hal.ShaderSource{WGSL: sandShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile sand shader: %w", err)
	}
	k.shader = shader

	bindLayout, err := k.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sand_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	k.bindLayout = bindLayout

	pipeLayout, err := k.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "sand_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{k.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	k.pipeLayout = pipeLayout

	pipeline, err := k.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "sand_pipeline", Layout: k.pipeLayout,
		Compute: hal.ComputeState{Module: k.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	k.pipeline = pipeline
	return nil
}

// Tick advances g by one tick on the device.
func (k *Kernel) Tick(ctx context.Context, g *sandsim.Grid) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.closed {
		return false, sandsim.ErrKernelClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if g.Height() < 2 {
		return false, nil
	}

	res, err := k.resourcesFor(g)
	if err != nil {
		return false, err
	}

	packCells(res.upload, g)
	k.queue.WriteBuffer(res.cells, 0, res.upload)

	if err := k.submit(res, g); err != nil {
		return false, err
	}
	if err := k.queue.ReadBuffer(res.staging, 0, res.readback); err != nil {
		return false, fmt.Errorf("gpu: readback: %w", err)
	}
	return unpackCells(res.readback, g), nil
}

// submit records every pass of the tick, submits once and waits.
func (k *Kernel) submit(res *resources, g *sandsim.Grid) error {
	encoder, err := k.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "sand_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("sand_tick"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	groupsX := uint32((g.Width() + workgroupSize - 1) / workgroupSize) //nolint:gosec // positive
	layers := uint32(g.Layers())                                       //nolint:gosec // positive
	for _, bg := range res.bindGroups {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "sand_pass"})
		pass.SetPipeline(k.pipeline)
		pass.SetBindGroup(0, bg, nil)
		pass.Dispatch(groupsX, layers, 1)
		pass.End()
	}

	encoder.CopyBufferToBuffer(res.cells, res.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: res.size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer k.device.FreeCommandBuffer(cmdBuf)

	fence, err := k.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer k.device.DestroyFence(fence)

	if err := k.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	ok, err := k.device.Wait(fence, 1, k.fenceTimeout)
	if err != nil {
		return fmt.Errorf("gpu: wait for device: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrDeviceTimeout, k.fenceTimeout)
	}

	k.logger().Debug("gpu: tick dispatched",
		"passes", len(res.bindGroups),
		"groups_x", groupsX,
		"layers", layers,
	)
	return nil
}

// Close releases all device resources. The shared device of a provider
// is left alive.
func (k *Kernel) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true
	k.res.Purge()
	k.destroyPipeline()
	k.destroyDevice()
	return nil
}

func (k *Kernel) destroyPipeline() {
	if k.device == nil {
		return
	}
	if k.pipeline != nil {
		k.device.DestroyComputePipeline(k.pipeline)
		k.pipeline = nil
	}
	if k.pipeLayout != nil {
		k.device.DestroyPipelineLayout(k.pipeLayout)
		k.pipeLayout = nil
	}
	if k.bindLayout != nil {
		k.device.DestroyBindGroupLayout(k.bindLayout)
		k.bindLayout = nil
	}
	if k.shader != nil {
		k.device.DestroyShaderModule(k.shader)
		k.shader = nil
	}
}

func (k *Kernel) destroyDevice() {
	if !k.external && k.device != nil {
		k.device.Destroy()
	}
	if k.instance != nil {
		k.instance.Destroy()
	}
	k.device = nil
	k.queue = nil
	k.instance = nil
}
