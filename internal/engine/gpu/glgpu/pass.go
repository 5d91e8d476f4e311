package glgpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/model"
)

var (
	_ gpu.Device = (*Device)(nil)
	_ gpu.Queue  = (*Queue)(nil)
	_ gpu.Pass   = (*Pass)(nil)
)

// Queue writes buffer contents in submission order.
type Queue struct{}

// WriteBuffer replaces len(data) bytes of buf at offset.
func (q *Queue) WriteBuffer(buf gpu.Buffer, offset int, data []byte) error {
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("write buffer: foreign buffer %T", buf)
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("write buffer: %d bytes at %d overflows %d-byte buffer", len(data), offset, b.size)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return nil
}

// Pass records draw state straight into the GL context.
type Pass struct {
	indexType uint32
}

// BeginFrame clears the default framebuffer at the given size and binds the
// pipeline.
func (d *Device) BeginFrame(width, height int) gpu.Pass {
	gl.Viewport(0, 0, int32(width), int32(height))
	c := d.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.UseProgram(d.program)
	gl.BindVertexArray(d.vao)

	d.pass = Pass{indexType: gl.UNSIGNED_SHORT}
	return &d.pass
}

// EndFrame unbinds the pipeline and reports any GL error raised during the
// frame. gl.OUT_OF_MEMORY maps to gpu.ErrOutOfMemory.
func (d *Device) EndFrame() error {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	if err := checkError(); err != nil {
		if errors.Is(err, gpu.ErrOutOfMemory) {
			d.log.Error("device out of memory")
		}
		return err
	}
	return nil
}

// SetVertexBuffer binds buf and points the three vertex attributes into it.
func (p *Pass) SetVertexBuffer(slot int, buf gpu.Buffer) {
	b, ok := buf.(*Buffer)
	if !ok || slot != 0 {
		return
	}
	stride := int32(model.VertexStride)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.id)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, uintptr(model.OffsetPosition))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, uintptr(model.OffsetTexCoord))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, uintptr(model.OffsetNormal))
	gl.EnableVertexAttribArray(2)
}

// SetIndexBuffer binds buf as the element array.
func (p *Pass) SetIndexBuffer(buf gpu.Buffer, format gpu.IndexFormat) {
	b, ok := buf.(*Buffer)
	if !ok {
		return
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, b.id)
	p.indexType = gl.UNSIGNED_SHORT
	if format == gpu.IndexUint32 {
		p.indexType = gl.UNSIGNED_INT
	}
}

// SetBindGroup binds a texture group to its unit or a uniform group to its
// block binding.
func (p *Pass) SetBindGroup(index int, group gpu.BindGroup) {
	switch g := group.(type) {
	case *textureGroup:
		unit := uint32(index)
		gl.ActiveTexture(gl.TEXTURE0 + unit)
		gl.BindTexture(gl.TEXTURE_2D, g.tex.id)
		gl.BindSampler(unit, g.tex.sampler)
	case *uniformGroup:
		gl.BindBufferBase(gl.UNIFORM_BUFFER, uint32(index), g.buf.id)
	}
}

// DrawIndexed draws indexCount indices of the bound element array.
func (p *Pass) DrawIndexed(indexCount, instanceCount uint32) {
	if instanceCount == 1 {
		gl.DrawElements(gl.TRIANGLES, int32(indexCount), p.indexType, unsafe.Pointer(nil))
		return
	}
	gl.DrawElementsInstanced(gl.TRIANGLES, int32(indexCount), p.indexType, unsafe.Pointer(nil), int32(instanceCount))
}

// checkError drains the GL error queue and returns the first error.
func checkError() error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	switch first {
	case gl.NO_ERROR:
		return nil
	case gl.OUT_OF_MEMORY:
		return gpu.ErrOutOfMemory
	default:
		return fmt.Errorf("gl error 0x%04x", first)
	}
}

// ReadPixels reads the default framebuffer back as bottom-up RGBA rows. Call
// it after EndFrame and before the buffers are swapped.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
