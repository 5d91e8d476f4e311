// Package gpu defines the device, queue and draw-pass handles the renderer
// consumes. Backends (see glgpu) implement them; gputest records calls for
// tests.
package gpu

import (
	"errors"
	"image"
)

// Device errors.
var (
	// ErrSurfaceLost means the presentation surface is stale and must be
	// reconfigured before the next frame. It is the only retried condition.
	ErrSurfaceLost = errors.New("gpu: surface lost")
	// ErrSurfaceHidden means the surface has zero area, e.g. a minimised
	// window. The frame is skipped without reconfiguring.
	ErrSurfaceHidden = errors.New("gpu: surface hidden")
	// ErrOutOfMemory is fatal.
	ErrOutOfMemory = errors.New("gpu: out of memory")
)

// BufferUsage describes how a buffer is bound.
type BufferUsage uint8

// Buffer usages.
const (
	UsageVertex BufferUsage = iota
	UsageIndex
	UsageUniform
)

func (u BufferUsage) String() string {
	switch u {
	case UsageVertex:
		return "vertex"
	case UsageIndex:
		return "index"
	case UsageUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// IndexFormat is the element type of an index buffer.
type IndexFormat uint8

// Index formats.
const (
	IndexUint16 IndexFormat = iota
	IndexUint32
)

// FilterMode selects texel filtering.
type FilterMode uint8

// Filter modes.
const (
	FilterNearest FilterMode = iota
	FilterLinear
)

// AddressMode selects texture coordinate wrapping.
type AddressMode uint8

// Address modes.
const (
	AddressClampToEdge AddressMode = iota
	AddressRepeat
)

// SamplerDescriptor configures the sampler created alongside a texture.
type SamplerDescriptor struct {
	AddressMode AddressMode
	MagFilter   FilterMode
	MinFilter   FilterMode
}

// Bind group slots of the fixed pipeline.
const (
	SlotTexture   = 0 // texture + sampler
	SlotTransform = 1 // per-draw transform uniform
)

// Buffer is a device buffer.
type Buffer interface {
	Size() int
	Release()
}

// Texture is a device texture with its sampler.
type Texture interface {
	Width() int
	Height() int
	Release()
}

// BindGroup is a set of resources exposed to the shader at one slot.
type BindGroup interface {
	Release()
}

// Device creates GPU resources.
type Device interface {
	// CreateBuffer allocates an immutable buffer initialised with contents.
	// Uniform buffers may be created with nil contents and a size. A zero-size
	// buffer is valid and backs an empty mesh.
	CreateBuffer(label string, usage BufferUsage, contents []byte, size int) (Buffer, error)
	CreateTexture(label string, img *image.RGBA, sampler SamplerDescriptor) (Texture, error)
	CreateTextureBindGroup(label string, tex Texture) (BindGroup, error)
	CreateUniformBindGroup(label string, buf Buffer) (BindGroup, error)
}

// Queue submits buffer writes.
type Queue interface {
	WriteBuffer(buf Buffer, offset int, data []byte) error
}

// Pass records draw state and draw calls for one frame.
type Pass interface {
	SetVertexBuffer(slot int, buf Buffer)
	SetIndexBuffer(buf Buffer, format IndexFormat)
	SetBindGroup(index int, group BindGroup)
	DrawIndexed(indexCount, instanceCount uint32)
}
