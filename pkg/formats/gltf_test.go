package formats

import (
	"errors"
	"reflect"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func newTriangleDoc(t *testing.T, indexed bool) *gltf.Document {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	nrm := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			"POSITION":   pos,
			"NORMAL":     nrm,
			"TEXCOORD_0": uv,
		},
	}
	if indexed {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, []uint16{2, 1, 0}))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}
	return doc
}

func TestParseGLTF_Indexed(t *testing.T) {
	mesh, err := ParseGLTF(newTriangleDoc(t, true))
	if err != nil {
		t.Fatalf("ParseGLTF failed: %v", err)
	}

	if len(mesh.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(mesh.Vertices))
	}
	if want := []uint16{2, 1, 0}; !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("expected indices %v, got %v", want, mesh.Indices)
	}
	if mesh.Vertices[2].TexCoord != [2]float32{0, 1} {
		t.Errorf("vertex 2 texcoord: got %v", mesh.Vertices[2].TexCoord)
	}
	if mesh.Vertices[0].Normal != [3]float32{0, 0, 1} {
		t.Errorf("vertex 0 normal: got %v", mesh.Vertices[0].Normal)
	}
}

func TestParseGLTF_Sequential(t *testing.T) {
	mesh, err := ParseGLTF(newTriangleDoc(t, false))
	if err != nil {
		t.Fatalf("ParseGLTF failed: %v", err)
	}
	if want := []uint16{0, 1, 2}; !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("expected indices %v, got %v", want, mesh.Indices)
	}
}

func TestParseGLTF_MultiplePrimitivesRebase(t *testing.T) {
	doc := newTriangleDoc(t, true)
	doc.Meshes = append(doc.Meshes, doc.Meshes[0])

	mesh, err := ParseGLTF(doc)
	if err != nil {
		t.Fatalf("ParseGLTF failed: %v", err)
	}
	if want := []uint16{2, 1, 0, 5, 4, 3}; !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("expected indices %v, got %v", want, mesh.Indices)
	}
}

func TestParseGLTF_MissingPosition(t *testing.T) {
	doc := newTriangleDoc(t, true)
	delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")

	if _, err := ParseGLTF(doc); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("expected ErrMissingAttribute, got %v", err)
	}
}

func TestParseGLTF_NonTriangles(t *testing.T) {
	doc := newTriangleDoc(t, true)
	doc.Meshes[0].Primitives[0].Mode = gltf.PrimitiveLines

	if _, err := ParseGLTF(doc); !errors.Is(err, ErrUnsupportedPrimitive) {
		t.Errorf("expected ErrUnsupportedPrimitive, got %v", err)
	}
}

func TestParseGLTF_DanglingAccessor(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*gltf.Primitive)
	}{
		{"position", func(p *gltf.Primitive) { p.Attributes["POSITION"] = 99 }},
		{"normal", func(p *gltf.Primitive) { p.Attributes["NORMAL"] = 99 }},
		{"texcoord", func(p *gltf.Primitive) { p.Attributes["TEXCOORD_0"] = -1 }},
		{"indices", func(p *gltf.Primitive) { p.Indices = gltf.Index(99) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTriangleDoc(t, true)
			tt.mod(doc.Meshes[0].Primitives[0])

			if _, err := ParseGLTF(doc); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("expected ErrIndexOutOfRange, got %v", err)
			}
		})
	}
}
