package texture

import "github.com/Faultbox/objbatch/internal/engine/gpu"

// Material defaults.
const (
	DefaultShineDamper  float32 = 1
	DefaultReflectivity float32 = 0
	DefaultNumberOfRows uint32  = 1
)

// Options sets material properties at load time. Nil pointers and a zero
// row count select the defaults.
type Options struct {
	ShineDamper  *float32
	Reflectivity *float32
	NumberOfRows uint32
}

// ModelTexture is an uploaded texture with its bind group and material
// properties. Its ID is the batching identity.
type ModelTexture struct {
	id           uint32
	texture      gpu.Texture
	bindGroup    gpu.BindGroup
	shineDamper  float32
	reflectivity float32
	numberOfRows uint32
}

// NewModelTexture wraps an uploaded texture. opts fills in material
// properties over the defaults.
func NewModelTexture(id uint32, tex gpu.Texture, group gpu.BindGroup, opts Options) *ModelTexture {
	t := &ModelTexture{
		id:           id,
		texture:      tex,
		bindGroup:    group,
		shineDamper:  DefaultShineDamper,
		reflectivity: DefaultReflectivity,
		numberOfRows: DefaultNumberOfRows,
	}
	if opts.ShineDamper != nil {
		t.shineDamper = *opts.ShineDamper
	}
	if opts.Reflectivity != nil {
		t.reflectivity = *opts.Reflectivity
	}
	if opts.NumberOfRows > 0 {
		t.numberOfRows = opts.NumberOfRows
	}
	return t
}

func (t *ModelTexture) ID() uint32 { return t.id }
func (t *ModelTexture) Texture() gpu.Texture { return t.texture }
func (t *ModelTexture) BindGroup() gpu.BindGroup { return t.bindGroup }
func (t *ModelTexture) ShineDamper() float32 { return t.shineDamper }
func (t *ModelTexture) Reflectivity() float32 { return t.reflectivity }
func (t *ModelTexture) NumberOfRows() uint32 { return t.numberOfRows }
func (t *ModelTexture) SetShineDamper(v float32) { t.shineDamper = v }
func (t *ModelTexture) SetReflectivity(v float32) { t.reflectivity = v }

// Release frees the bind group and the texture.
func (t *ModelTexture) Release() {
	if t.bindGroup != nil {
		t.bindGroup.Release()
	}
	if t.texture != nil {
		t.texture.Release()
	}
}
