// Package glgpu implements the gpu interfaces on OpenGL 4.1 core.
//
// The fixed pipeline is one program with a position/texcoord/normal vertex
// layout, a texture+sampler at unit gpu.SlotTexture and a std140 transform
// block at binding gpu.SlotTransform. All calls must come from the thread
// that owns the GL context.
package glgpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/gpu/glgpu/shaders"
	"github.com/Faultbox/objbatch/internal/engine/shader"
	"github.com/Faultbox/objbatch/internal/logger"
)

// Options configures the device.
type Options struct {
	ClearColor [4]float32
}

// Device owns the pipeline program and vertex array.
type Device struct {
	program    uint32
	vao        uint32
	clearColor [4]float32
	pass       Pass
	log        *zap.Logger
}

// New initialises GL function pointers and builds the pipeline. A GL context
// must be current.
func New(opts Options) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	d := &Device{
		clearColor: opts.ClearColor,
		log:        logger.Named("glgpu"),
	}
	d.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.CompileProgram(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	if err := shader.BindUniformBlock(program, "Transform", gpu.SlotTransform); err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}
	if err := shader.BindSampler(program, "uTexture", gpu.SlotTexture); err != nil {
		gl.DeleteProgram(program)
		return nil, err
	}
	d.program = program

	gl.GenVertexArrays(1, &d.vao)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	d.log.Debug("pipeline created", zap.Uint32("program", d.program), zap.Uint32("vao", d.vao))
	return d, nil
}

// Close deletes the pipeline objects.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
	if d.program != 0 {
		gl.DeleteProgram(d.program)
	}
}

// Queue returns the device's submission queue.
func (d *Device) Queue() *Queue {
	return &Queue{}
}

// Buffer is a GL buffer object.
type Buffer struct {
	id    uint32
	size  int
	usage gpu.BufferUsage
}

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.size }

// Release deletes the buffer object.
func (b *Buffer) Release() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

// CreateBuffer allocates a buffer object. Vertex and index buffers are
// static; uniform buffers are rewritten every draw.
func (d *Device) CreateBuffer(label string, usage gpu.BufferUsage, contents []byte, size int) (gpu.Buffer, error) {
	if contents != nil {
		size = len(contents)
	}
	if size < 0 {
		return nil, fmt.Errorf("create buffer %q: negative size %d", label, size)
	}

	hint := uint32(gl.STATIC_DRAW)
	if usage == gpu.UsageUniform {
		hint = gl.DYNAMIC_DRAW
	}

	b := &Buffer{size: size, usage: usage}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	var ptr unsafe.Pointer
	if contents != nil {
		ptr = gl.Ptr(contents)
	}
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, ptr, hint)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if err := checkError(); err != nil {
		b.Release()
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}
	d.log.Debug("buffer created",
		zap.String("label", label),
		zap.Stringer("usage", usage),
		zap.Int("size", size))
	return b, nil
}

// Texture is a GL texture with its sampler object.
type Texture struct {
	id      uint32
	sampler uint32
	width   int
	height  int
}

// Width returns the texture width.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height.
func (t *Texture) Height() int { return t.height }

// Release deletes the texture and sampler.
func (t *Texture) Release() {
	if t.sampler != 0 {
		gl.DeleteSamplers(1, &t.sampler)
		t.sampler = 0
	}
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// CreateTexture uploads an RGBA8 image with row 0 at texture coordinate t=0.
func (d *Device) CreateTexture(label string, img *image.RGBA, desc gpu.SamplerDescriptor) (gpu.Texture, error) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("create texture %q: empty image", label)
	}

	t := &Texture{width: w, height: h}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenSamplers(1, &t.sampler)
	wrap := addressMode(desc.AddressMode)
	gl.SamplerParameteri(t.sampler, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(t.sampler, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(t.sampler, gl.TEXTURE_MAG_FILTER, filterMode(desc.MagFilter))
	gl.SamplerParameteri(t.sampler, gl.TEXTURE_MIN_FILTER, filterMode(desc.MinFilter))

	if err := checkError(); err != nil {
		t.Release()
		return nil, fmt.Errorf("create texture %q: %w", label, err)
	}
	d.log.Debug("texture created",
		zap.String("label", label),
		zap.Int("width", w),
		zap.Int("height", h))
	return t, nil
}

func addressMode(m gpu.AddressMode) int32 {
	if m == gpu.AddressRepeat {
		return gl.REPEAT
	}
	return gl.CLAMP_TO_EDGE
}

func filterMode(m gpu.FilterMode) int32 {
	if m == gpu.FilterLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

// textureGroup exposes a texture and its sampler at gpu.SlotTexture.
type textureGroup struct {
	tex *Texture
}

func (g *textureGroup) Release() {}

// uniformGroup exposes a uniform buffer at gpu.SlotTransform.
type uniformGroup struct {
	buf *Buffer
}

func (g *uniformGroup) Release() {}

// CreateTextureBindGroup groups a texture for binding at gpu.SlotTexture.
func (d *Device) CreateTextureBindGroup(label string, tex gpu.Texture) (gpu.BindGroup, error) {
	t, ok := tex.(*Texture)
	if !ok {
		return nil, fmt.Errorf("bind group %q: foreign texture %T", label, tex)
	}
	return &textureGroup{tex: t}, nil
}

// CreateUniformBindGroup groups a uniform buffer for binding at gpu.SlotTransform.
func (d *Device) CreateUniformBindGroup(label string, buf gpu.Buffer) (gpu.BindGroup, error) {
	b, ok := buf.(*Buffer)
	if !ok {
		return nil, fmt.Errorf("bind group %q: foreign buffer %T", label, buf)
	}
	if b.usage != gpu.UsageUniform {
		return nil, fmt.Errorf("bind group %q: buffer usage %v, want uniform", label, b.usage)
	}
	return &uniformGroup{buf: b}, nil
}
