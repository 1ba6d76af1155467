//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sandsim"
)

// resourceSlots is how many grid geometries keep their buffers between
// ticks. A kernel alternating between two grids does not rebuild.
const resourceSlots = 2

// geometry identifies the resources a grid needs.
type geometry struct {
	width, height, layers int
	wrap                  bool
}

func geometryOf(g *sandsim.Grid, b sandsim.Boundary) geometry {
	return geometry{width: g.Width(), height: g.Height(), layers: g.Layers(), wrap: b == sandsim.BoundaryWrap}
}

// resources are the buffers and bind groups for one grid geometry and
// boundary. They are reused across ticks and destroyed on eviction.
type resources struct {
	geometry

	size        uint64
	scratchSize uint64
	cells       hal.Buffer // storage, read_write
	scratch     hal.Buffer // row snapshot and scan buffers
	staging     hal.Buffer // readback
	uniforms    []hal.Buffer
	// bindGroups holds one group per pass in submission order.
	bindGroups []hal.BindGroup

	upload   []byte
	readback []byte
}

// resourcesFor returns the cached resources for g's geometry, creating
// them on a miss.
func (k *Kernel) resourcesFor(g *sandsim.Grid) (*resources, error) {
	key := geometryOf(g, k.cfg.Boundary)
	if res, ok := k.res.Get(key); ok {
		return res, nil
	}

	res := &resources{geometry: key, size: cellBufferSize(g), scratchSize: scratchBufferSize(g)}
	if err := k.createResources(res, g); err != nil {
		res.destroy(k.device)
		return nil, err
	}
	k.res.Put(key, res)

	k.logger().Debug("gpu: sand resources created",
		"width", res.width,
		"height", res.height,
		"layers", res.layers,
		"buffer_bytes", res.size,
		"passes", len(res.bindGroups),
	)
	return res, nil
}

func (k *Kernel) createResources(res *resources, g *sandsim.Grid) error {
	var err error
	res.cells, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sand_cells", Size: res.size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create cell buffer: %w", err)
	}

	res.scratch, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sand_scratch", Size: res.scratchSize,
		Usage: gputypes.BufferUsageStorage,
	})
	if err != nil {
		return fmt.Errorf("gpu: create scratch buffer: %w", err)
	}

	res.staging, err = k.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "sand_staging", Size: res.size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create staging buffer: %w", err)
	}

	plan := passPlan(g, k.cfg.Boundary)
	res.uniforms = make([]hal.Buffer, 0, len(plan))
	res.bindGroups = make([]hal.BindGroup, 0, len(plan))
	for i, p := range plan {
		ub, err := k.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "sand_params", Size: paramsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpu: create uniform buffer %d: %w", i, err)
		}
		res.uniforms = append(res.uniforms, ub)
		k.queue.WriteBuffer(ub, 0, p.bytes())

		bg, err := k.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: "sand_bind", Layout: k.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: res.cells.NativeHandle(), Offset: 0, Size: res.size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: res.scratch.NativeHandle(), Offset: 0, Size: res.scratchSize}},
			},
		})
		if err != nil {
			return fmt.Errorf("gpu: create bind group %d: %w", i, err)
		}
		res.bindGroups = append(res.bindGroups, bg)
	}

	res.upload = make([]byte, res.size)
	res.readback = make([]byte, res.size)
	return nil
}

// destroy releases every buffer and bind group that was created.
func (r *resources) destroy(device hal.Device) {
	if device == nil {
		return
	}
	for _, bg := range r.bindGroups {
		if bg != nil {
			device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range r.uniforms {
		if ub != nil {
			device.DestroyBuffer(ub)
		}
	}
	if r.staging != nil {
		device.DestroyBuffer(r.staging)
	}
	if r.scratch != nil {
		device.DestroyBuffer(r.scratch)
	}
	if r.cells != nil {
		device.DestroyBuffer(r.cells)
	}
}
