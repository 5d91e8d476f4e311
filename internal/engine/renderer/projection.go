package renderer

import (
	"errors"
	"fmt"

	"github.com/Faultbox/objbatch/pkg/math"
)

// ErrInvalidProjection is returned for a projection that cannot produce a matrix.
var ErrInvalidProjection = errors.New("invalid projection")

// ProjectionKind selects the projection used by DrawAll. The zero value is
// invalid so a kind is always chosen explicitly.
type ProjectionKind uint8

// Projection kinds.
const (
	ProjectionOrthographic ProjectionKind = iota + 1
	ProjectionPerspective
)

// ParseProjectionKind parses a config value.
func ParseProjectionKind(s string) (ProjectionKind, error) {
	switch s {
	case "orthographic":
		return ProjectionOrthographic, nil
	case "perspective":
		return ProjectionPerspective, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q (want orthographic or perspective)", ErrInvalidProjection, s)
	}
}

func (k ProjectionKind) String() string {
	switch k {
	case ProjectionOrthographic:
		return "orthographic"
	case ProjectionPerspective:
		return "perspective"
	default:
		return fmt.Sprintf("ProjectionKind(%d)", k)
	}
}

// Projection describes the camera lens. FovY is in radians and only used by
// perspective; OrthoHeight is the full view height and only used by
// orthographic. The orthographic width is OrthoHeight * Aspect.
type Projection struct {
	Kind        ProjectionKind
	FovY        float32
	Aspect      float32
	Near        float32
	Far         float32
	OrthoHeight float32
}

// Validate checks that the projection produces a finite matrix.
func (p Projection) Validate() error {
	switch p.Kind {
	case ProjectionPerspective:
		if p.FovY <= 0 {
			return fmt.Errorf("%w: fov must be positive", ErrInvalidProjection)
		}
		if p.Near <= 0 {
			return fmt.Errorf("%w: perspective near plane must be positive", ErrInvalidProjection)
		}
	case ProjectionOrthographic:
		if p.OrthoHeight <= 0 {
			return fmt.Errorf("%w: ortho height must be positive", ErrInvalidProjection)
		}
	default:
		return fmt.Errorf("%w: kind %v", ErrInvalidProjection, p.Kind)
	}
	if p.Aspect <= 0 {
		return fmt.Errorf("%w: aspect must be positive", ErrInvalidProjection)
	}
	if p.Far <= p.Near {
		return fmt.Errorf("%w: far plane must lie beyond near plane", ErrInvalidProjection)
	}
	return nil
}

// Matrix returns the projection matrix. p must be valid.
func (p Projection) Matrix() math.Mat4 {
	if p.Kind == ProjectionOrthographic {
		top := p.OrthoHeight / 2
		right := top * p.Aspect
		return math.Ortho(-right, right, -top, top, p.Near, p.Far)
	}
	return math.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// SetAspect updates the aspect ratio from a framebuffer size. Zero sizes
// (minimised windows) are ignored.
func (p *Projection) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	p.Aspect = float32(width) / float32(height)
}
