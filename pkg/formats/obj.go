package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ parse errors.
var (
	ErrMalformedLine   = errors.New("malformed line")
	ErrMalformedNumber = errors.New("malformed number")
)

// ParseError reports a problem at a specific line of a model file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// objFaceVertex is a parsed v/vt/vn reference (0-based) plus where it was
// first seen, for error reporting.
type objFaceVertex struct {
	v, vt, vn int
	line      int
	text      string
}

// dedupTable assigns sequential ids to face-vertex keys in first-seen order.
type dedupTable struct {
	ids   map[string]uint32
	order []objFaceVertex
}

func newDedupTable() *dedupTable {
	return &dedupTable{ids: make(map[string]uint32)}
}

// add returns the id for key, registering fv under a new id on first sight.
func (d *dedupTable) add(key string, fv objFaceVertex) uint32 {
	if id, ok := d.ids[key]; ok {
		return id
	}
	id := uint32(len(d.order))
	d.ids[key] = id
	d.order = append(d.order, fv)
	return id
}

func (d *dedupTable) len() int {
	return len(d.order)
}

// LoadOBJ reads and parses a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelFileMissing, path, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mesh, nil
}

// ParseOBJ parses triangulated OBJ text. Only v, vt, vn and f lines are
// significant; every other line is ignored. Each face token v/vt/vn maps to
// exactly one index, and identical tokens share one vertex.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	var (
		positions [][3]float32
		texCoords [][2]float32
		normals   [][3]float32
		indices   []uint32
	)
	table := newDedupTable()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		fail := func(err error) error {
			return &ParseError{Line: lineNo, Text: line, Err: err}
		}

		switch fields[0] {
		case "v":
			p, err := parseFloats(fields, 3)
			if err != nil {
				return nil, fail(err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})

		case "vt":
			p, err := parseFloats(fields, 2)
			if err != nil {
				return nil, fail(err)
			}
			texCoords = append(texCoords, [2]float32{p[0], p[1]})

		case "vn":
			p, err := parseFloats(fields, 3)
			if err != nil {
				return nil, fail(err)
			}
			normals = append(normals, [3]float32{p[0], p[1], p[2]})

		case "f":
			if len(fields) != 4 {
				return nil, fail(fmt.Errorf("%w: face needs exactly 3 vertices, got %d", ErrMalformedLine, len(fields)-1))
			}
			for _, token := range fields[1:] {
				fv, err := parseFaceVertex(token)
				if err != nil {
					return nil, fail(err)
				}
				fv.line, fv.text = lineNo, line
				id := table.add(token, fv)
				if table.len() > MaxVertices {
					return nil, fail(fmt.Errorf("%w: more than %d", ErrTooManyVertices, MaxVertices))
				}
				indices = append(indices, id)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ data: %w", err)
	}

	mesh := &Mesh{
		Vertices: make([]MeshVertex, 0, table.len()),
		Indices:  make([]uint16, 0, len(indices)),
	}
	for _, fv := range table.order {
		if err := checkFaceVertex(fv, len(positions), len(texCoords), len(normals)); err != nil {
			return nil, &ParseError{Line: fv.line, Text: fv.text, Err: err}
		}
		mesh.Vertices = append(mesh.Vertices, MeshVertex{
			Position: positions[fv.v],
			TexCoord: texCoords[fv.vt],
			Normal:   normals[fv.vn],
		})
	}
	for _, idx := range indices {
		mesh.Indices = append(mesh.Indices, uint16(idx))
	}
	return mesh, nil
}

// parseFloats parses exactly n numeric fields following the line prefix.
func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) != n+1 {
		return nil, fmt.Errorf("%w: %s needs %d values, got %d", ErrMalformedLine, fields[0], n, len(fields)-1)
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrMalformedNumber, fields[i+1])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// parseFaceVertex parses "v/vt/vn" into 0-based indices. Range checks are
// deferred until the whole file is read, since references resolve against
// the complete position, texcoord and normal lists.
func parseFaceVertex(token string) (objFaceVertex, error) {
	parts := strings.Split(token, "/")
	if len(parts) != 3 {
		return objFaceVertex{}, fmt.Errorf("%w: face vertex %q is not v/vt/vn", ErrMalformedLine, token)
	}

	var idx [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return objFaceVertex{}, fmt.Errorf("%w: index %q", ErrMalformedNumber, part)
		}
		idx[i] = n - 1
	}
	return objFaceVertex{v: idx[0], vt: idx[1], vn: idx[2]}, nil
}

func checkFaceVertex(fv objFaceVertex, numV, numVT, numVN int) error {
	refs := [3]struct {
		name  string
		idx   int
		limit int
	}{
		{"vertex", fv.v, numV},
		{"texture", fv.vt, numVT},
		{"normal", fv.vn, numVN},
	}
	for _, r := range refs {
		if r.idx < 0 || r.idx >= r.limit {
			return fmt.Errorf("%w: %s index %d not in [1, %d]", ErrIndexOutOfRange, r.name, r.idx+1, r.limit)
		}
	}
	return nil
}
