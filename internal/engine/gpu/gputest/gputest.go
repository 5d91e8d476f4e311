// Package gputest provides an in-memory gpu backend that records every call,
// so renderer behaviour can be asserted without a graphics device.
package gputest

import (
	"fmt"
	"image"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
)

// Buffer is a recorded device buffer.
type Buffer struct {
	Label    string
	Usage    gpu.BufferUsage
	Data     []byte
	Released bool
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return len(b.Data) }

// Release marks the buffer released.
func (b *Buffer) Release() { b.Released = true }

// Texture is a recorded device texture.
type Texture struct {
	Label    string
	Image    *image.RGBA
	Sampler  gpu.SamplerDescriptor
	Released bool
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.Image.Bounds().Dx() }

// Height returns the texture height.
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

// Release marks the texture released.
func (t *Texture) Release() { t.Released = true }

// BindGroup is a recorded bind group.
type BindGroup struct {
	Label    string
	Texture  *Texture
	Buffer   *Buffer
	Released bool
}

// Release marks the bind group released.
func (g *BindGroup) Release() { g.Released = true }

// Device records resource creation. Set Err to make the next creation fail.
type Device struct {
	Buffers    []*Buffer
	Textures   []*Texture
	BindGroups []*BindGroup
	Err        error
}

// NewDevice returns an empty recording device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) takeErr() error {
	err := d.Err
	d.Err = nil
	return err
}

// CreateBuffer records a buffer.
func (d *Device) CreateBuffer(label string, usage gpu.BufferUsage, contents []byte, size int) (gpu.Buffer, error) {
	if err := d.takeErr(); err != nil {
		return nil, err
	}
	if contents == nil {
		if size < 0 {
			return nil, fmt.Errorf("gputest: buffer %q has negative size %d", label, size)
		}
		contents = make([]byte, size)
	}
	b := &Buffer{Label: label, Usage: usage, Data: append([]byte(nil), contents...)}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// CreateTexture records a texture.
func (d *Device) CreateTexture(label string, img *image.RGBA, sampler gpu.SamplerDescriptor) (gpu.Texture, error) {
	if err := d.takeErr(); err != nil {
		return nil, err
	}
	t := &Texture{Label: label, Image: img, Sampler: sampler}
	d.Textures = append(d.Textures, t)
	return t, nil
}

// CreateTextureBindGroup records a texture bind group.
func (d *Device) CreateTextureBindGroup(label string, tex gpu.Texture) (gpu.BindGroup, error) {
	if err := d.takeErr(); err != nil {
		return nil, err
	}
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("gputest: foreign texture %T", tex)
	}
	g := &BindGroup{Label: label, Texture: t}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

// CreateUniformBindGroup records a uniform bind group.
func (d *Device) CreateUniformBindGroup(label string, buf gpu.Buffer) (gpu.BindGroup, error) {
	if err := d.takeErr(); err != nil {
		return nil, err
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("gputest: foreign buffer %T", buf)
	}
	g := &BindGroup{Label: label, Buffer: b}
	d.BindGroups = append(d.BindGroups, g)
	return g, nil
}

// Write is one recorded queue write.
type Write struct {
	Buffer *Buffer
	Offset int
	Data   []byte
}

// Queue applies and records buffer writes.
type Queue struct {
	Writes []Write
	Err    error
}

// WriteBuffer copies data into the buffer and records the write.
func (q *Queue) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	if q.Err != nil {
		return q.Err
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("gputest: foreign buffer %T", buf)
	}
	if offset+len(data) > len(b.Data) {
		return fmt.Errorf("gputest: write of %d bytes at %d overflows %q (%d bytes)", len(data), offset, b.Label, len(b.Data))
	}
	copy(b.Data[offset:], data)
	q.Writes = append(q.Writes, Write{Buffer: b, Offset: offset, Data: append([]byte(nil), data...)})
	return nil
}

// Op identifies a recorded pass command.
type Op uint8

// Pass commands.
const (
	OpSetVertexBuffer Op = iota
	OpSetIndexBuffer
	OpSetBindGroup
	OpDrawIndexed
)

func (o Op) String() string {
	switch o {
	case OpSetVertexBuffer:
		return "SetVertexBuffer"
	case OpSetIndexBuffer:
		return "SetIndexBuffer"
	case OpSetBindGroup:
		return "SetBindGroup"
	case OpDrawIndexed:
		return "DrawIndexed"
	default:
		return "Unknown"
	}
}

// Command is one recorded pass command.
type Command struct {
	Op        Op
	Slot      int
	Buffer    *Buffer
	Format    gpu.IndexFormat
	BindGroup *BindGroup
	Count     uint32
	Instances uint32

	// Uniform is a snapshot of the transform uniform at draw time.
	Uniform []byte
}

// Pass records commands in order. The buffer of the last bound uniform group
// is kept in Uniform and snapshotted on every draw, so per-draw uniform
// contents can be checked.
type Pass struct {
	Commands []Command
	Uniform  *Buffer
}

// SetVertexBuffer records the call.
func (p *Pass) SetVertexBuffer(slot int, buf gpu.Buffer) {
	p.Commands = append(p.Commands, Command{Op: OpSetVertexBuffer, Slot: slot, Buffer: asBuffer(buf)})
}

// SetIndexBuffer records the call.
func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat) {
	p.Commands = append(p.Commands, Command{Op: OpSetIndexBuffer, Buffer: asBuffer(buf), Format: format})
}

// SetBindGroup records the call.
func (p *Pass) SetBindGroup(index int, group gpu.BindGroup) {
	g, _ := group.(*BindGroup)
	if g != nil && g.Buffer != nil {
		p.Uniform = g.Buffer
	}
	p.Commands = append(p.Commands, Command{Op: OpSetBindGroup, Slot: index, BindGroup: g})
}

// DrawIndexed records the call.
func (p *Pass) DrawIndexed(indexCount, instanceCount uint32) {
	cmd := Command{Op: OpDrawIndexed, Count: indexCount, Instances: instanceCount}
	if p.Uniform != nil {
		cmd.Uniform = append([]byte(nil), p.Uniform.Data...)
	}
	p.Commands = append(p.Commands, cmd)
}

// Count returns how many commands of op were recorded.
func (p *Pass) Count(op Op) int {
	n := 0
	for _, c := range p.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

func asBuffer(buf gpu.Buffer) *Buffer {
	b, _ := buf.(*Buffer)
	return b
}
