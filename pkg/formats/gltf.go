package formats

import (
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ErrMissingAttribute is returned when a primitive has no POSITION data.
var ErrMissingAttribute = errors.New("missing vertex attribute")

// LoadGLTF opens a .gltf or .glb file and flattens its triangle primitives
// into a single Mesh.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelFileMissing, path, err)
	}
	mesh, err := ParseGLTF(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mesh, nil
}

// ParseGLTF concatenates every triangle primitive of every mesh in doc.
// Missing NORMAL or TEXCOORD_0 attributes are left zero. Primitives without
// an index accessor are indexed sequentially.
func ParseGLTF(doc *gltf.Document) (*Mesh, error) {
	mesh := &Mesh{}
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if err := appendPrimitive(mesh, doc, prim); err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
		}
	}
	return mesh, nil
}

func appendPrimitive(mesh *Mesh, doc *gltf.Document, prim *gltf.Primitive) error {
	if prim.Mode != gltf.PrimitiveTriangles {
		return fmt.Errorf("%w: %v", ErrUnsupportedPrimitive, prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("%w: POSITION", ErrMissingAttribute)
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
		if normals, err = modeler.ReadNormal(doc, acc, nil); err != nil {
			return fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if acc, err = accessor(doc, idx); err != nil {
			return fmt.Errorf("texture coordinates: %w", err)
		}
		if uvs, err = modeler.ReadTextureCoord(doc, acc, nil); err != nil {
			return fmt.Errorf("texture coordinates: %w", err)
		}
	}

	base := len(mesh.Vertices)
	if base+len(positions) > MaxVertices {
		return fmt.Errorf("%w: %d", ErrTooManyVertices, base+len(positions))
	}

	for i, p := range positions {
		v := MeshVertex{Position: p}
		if i < len(uvs) {
			v.TexCoord = uvs[i]
		}
		if i < len(normals) {
			v.Normal = normals[i]
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	var indices []uint32
	if prim.Indices != nil {
		if acc, err = accessor(doc, *prim.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, len(positions))
		}
		mesh.Indices = append(mesh.Indices, uint16(base+int(idx)))
	}
	return nil
}

// accessor resolves an accessor reference, rejecting dangling indices.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrIndexOutOfRange, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}
