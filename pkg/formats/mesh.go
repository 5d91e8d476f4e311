// Package formats imports geometry files (Wavefront OBJ and glTF 2.0) into
// flat indexed meshes.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxVertices is the number of distinct vertices addressable by a 16-bit index buffer.
const MaxVertices = 1 << 16

// Mesh format errors.
var (
	ErrModelFileMissing     = errors.New("model file missing or unreadable")
	ErrTooManyVertices      = errors.New("unique vertex count exceeds 16-bit index range")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrUnsupportedFormat    = errors.New("unsupported model format")
	ErrUnsupportedPrimitive = errors.New("unsupported primitive mode")
)

// MeshVertex is one interleaved vertex: position, texture coordinate, normal.
type MeshVertex struct {
	Position [3]float32
	TexCoord [2]float32
	Normal   [3]float32
}

// Mesh holds flat vertex and 16-bit index arrays ready for GPU upload.
type Mesh struct {
	Vertices []MeshVertex
	Indices  []uint16
}

// LoadMesh loads a model file, choosing the importer by extension.
// Supported: .obj, .gltf, .glb.
func LoadMesh(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
