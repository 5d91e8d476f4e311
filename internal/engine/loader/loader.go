// Package loader uploads meshes and textures to a gpu.Device and hands out
// the identities the renderer batches on.
package loader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/internal/engine/texture"
	"github.com/Faultbox/objbatch/internal/logger"
	"github.com/Faultbox/objbatch/pkg/formats"
)

// TextureSampler is the sampler every loaded texture gets.
var TextureSampler = gpu.SamplerDescriptor{
	AddressMode: gpu.AddressClampToEdge,
	MagFilter:   gpu.FilterLinear,
	MinFilter:   gpu.FilterNearest,
}

// Loader creates GPU resources. Each Loader owns its id counters; ids are
// never reused within one Loader and start at 1.
type Loader struct {
	device        gpu.Device
	nextMeshID    uint32
	nextTextureID uint32
	log           *zap.Logger
}

// New returns a Loader creating resources on device.
func New(device gpu.Device) *Loader {
	return &Loader{
		device: device,
		log:    logger.Named("loader"),
	}
}

// LoadModel imports a model file (.obj, .gltf or .glb) and uploads it.
// A missing file yields an error wrapping formats.ErrModelFileMissing.
func (l *Loader) LoadModel(path string) (*model.RawModel, error) {
	mesh, err := formats.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	raw, err := l.Upload(path, model.FromMesh(mesh), mesh.Indices)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", path, err)
	}
	return raw, nil
}

// Triangle uploads the built-in fallback triangle.
func (l *Loader) Triangle() (*model.RawModel, error) {
	return l.Upload("triangle", model.TriangleVertices, model.TriangleIndices)
}

// Upload creates immutable vertex and index buffers and assigns the next
// mesh id.
func (l *Loader) Upload(label string, vertices []model.Vertex, indices []uint16) (*model.RawModel, error) {
	vb, err := l.device.CreateBuffer(label+" vertices", gpu.UsageVertex, model.VertexBytes(vertices), 0)
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	ib, err := l.device.CreateBuffer(label+" indices", gpu.UsageIndex, model.IndexBytes(indices), 0)
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	l.nextMeshID++
	raw := model.New(l.nextMeshID, vb, ib, uint32(len(vertices)), uint32(len(indices)))
	l.log.Debug("mesh uploaded",
		zap.String("label", label),
		zap.Uint32("mesh_id", raw.ID()),
		zap.Int("vertices", len(vertices)),
		zap.Int("indices", len(indices)))
	return raw, nil
}

// LoadTexture decodes image bytes, uploads them with TextureSampler and
// builds the slot-0 bind group.
func (l *Loader) LoadTexture(data []byte, opts texture.Options) (*texture.ModelTexture, error) {
	img, err := texture.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load texture: %w", err)
	}

	label := fmt.Sprintf("texture %d", l.nextTextureID+1)
	tex, err := l.device.CreateTexture(label, img, TextureSampler)
	if err != nil {
		return nil, fmt.Errorf("load texture: create: %w", err)
	}
	group, err := l.device.CreateTextureBindGroup(label, tex)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("load texture: bind group: %w", err)
	}

	l.nextTextureID++
	mt := texture.NewModelTexture(l.nextTextureID, tex, group, opts)
	l.log.Debug("texture uploaded",
		zap.Uint32("texture_id", mt.ID()),
		zap.Int("width", img.Rect.Dx()),
		zap.Int("height", img.Rect.Dy()),
		zap.Uint32("rows", mt.NumberOfRows()))
	return mt, nil
}
