// Package model holds the GPU-resident mesh (RawModel) and its pairing with a
// texture (TexturedModel), the unit the renderer batches on.
package model

import (
	"unsafe"

	"github.com/Faultbox/objbatch/pkg/formats"
)

// Vertex is the fixed per-vertex layout of the pipeline.
type Vertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// Vertex layout.
const (
	VertexStride   = int(unsafe.Sizeof(Vertex{}))
	OffsetPosition = int(unsafe.Offsetof(Vertex{}.Position))
	OffsetTexCoord = int(unsafe.Offsetof(Vertex{}.TexCoord))
	OffsetNormal   = int(unsafe.Offsetof(Vertex{}.Normal))
)

// FromMesh converts importer output to pipeline vertices.
func FromMesh(m *formats.Mesh) []Vertex {
	out := make([]Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = Vertex(v)
	}
	return out
}

// VertexBytes returns the raw bytes of vertices for buffer upload.
func VertexBytes(vertices []Vertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*VertexStride)
}

// IndexBytes returns the raw bytes of 16-bit indices for buffer upload.
func IndexBytes(indices []uint16) []byte {
	if len(indices) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*2)
}

// Fallback triangle geometry, used when no model file is configured.
var (
	TriangleVertices = []Vertex{
		{Position: [3]float32{-0.0868241, 0.49240386, 0}, TexCoord: [2]float32{0.5, 0}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{-0.49513406, 0.06958647, 0}, TexCoord: [2]float32{0, 0.4}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoord: [2]float32{1, 0.4}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{-0.49513406, 0.06958647, 0}, TexCoord: [2]float32{0, 0.4}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{-0.21918549, -0.44939706, 0}, TexCoord: [2]float32{0.2, 1}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoord: [2]float32{1, 0.4}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{-0.21918549, -0.44939706, 0}, TexCoord: [2]float32{0.2, 1}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{0.35966998, -0.3473291, 0}, TexCoord: [2]float32{0.8, 1}, Normal: [3]float32{1, 1, 1}},
		{Position: [3]float32{0.44147372, 0.2347359, 0}, TexCoord: [2]float32{1, 0.4}, Normal: [3]float32{1, 1, 1}},
	}
	TriangleIndices = []uint16{0, 1, 2, 3, 4, 5, 6, 7, 8}
)
