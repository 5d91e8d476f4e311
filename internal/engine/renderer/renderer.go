// Package renderer draws batches of entities through the gpu interfaces.
//
// Renderer is the draw primitive: Bind sets a model's buffers and texture,
// DrawAll uploads one transform per entity and draws it. MasterRenderer
// groups entities by model so each model is bound once per frame.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/entity"
	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/model"
	"github.com/Faultbox/objbatch/internal/logger"
	"github.com/Faultbox/objbatch/pkg/math"
)

// TransformSize is the size of the per-draw transform uniform (one mat4).
const TransformSize = 64

// ErrNothingBound is returned by DrawAll before any Bind.
var ErrNothingBound = errors.New("renderer: draw without bound model")

// Options configures a Renderer.
type Options struct {
	Projection Projection
}

// Renderer owns the transform uniform. It is single-threaded: every draw
// overwrites the same uniform, so draws must be submitted in order.
type Renderer struct {
	projection   Projection
	uniform      gpu.Buffer
	uniformGroup gpu.BindGroup
	bound        *model.TexturedModel
	log          *zap.Logger
}

// New creates the transform uniform and its bind group on device.
func New(device gpu.Device, opts Options) (*Renderer, error) {
	if err := opts.Projection.Validate(); err != nil {
		return nil, err
	}

	uniform, err := device.CreateBuffer("transform uniform", gpu.UsageUniform, nil, TransformSize)
	if err != nil {
		return nil, fmt.Errorf("create transform uniform: %w", err)
	}
	group, err := device.CreateUniformBindGroup("transform bind group", uniform)
	if err != nil {
		uniform.Release()
		return nil, fmt.Errorf("create transform bind group: %w", err)
	}

	r := &Renderer{
		projection:   opts.Projection,
		uniform:      uniform,
		uniformGroup: group,
		log:          logger.Named("renderer"),
	}
	r.log.Debug("renderer created", zap.Stringer("projection", opts.Projection.Kind))
	return r, nil
}

// Projection returns the current projection.
func (r *Renderer) Projection() Projection {
	return r.projection
}

// SetAspect updates the projection aspect ratio after a resize.
func (r *Renderer) SetAspect(width, height int) {
	r.projection.SetAspect(width, height)
}

// Bind sets tm's vertex buffer, 16-bit index buffer and texture bind group.
// Subsequent DrawAll calls draw tm's full index range.
func (r *Renderer) Bind(pass gpu.Pass, tm *model.TexturedModel) {
	raw := tm.RawModel()
	pass.SetVertexBuffer(0, raw.VertexBuffer())
	pass.SetIndexBuffer(raw.IndexBuffer(), gpu.IndexUint16)
	pass.SetBindGroup(gpu.SlotTexture, tm.Texture().BindGroup())
	r.bound = tm
}

// DrawAll draws every entity with the bound model. For each entity the
// uniform receives projection * view * transform before its draw.
func (r *Renderer) DrawAll(pass gpu.Pass, queue gpu.Queue, entities []*entity.Entity, view math.Mat4) error {
	if r.bound == nil {
		return ErrNothingBound
	}
	pv := r.projection.Matrix().Mul(view)
	indexCount := r.bound.RawModel().IndexCount()

	for _, e := range entities {
		mvp := pv.Mul(e.TransformationMatrix())
		if err := queue.WriteBuffer(r.uniform, 0, mvp.Bytes()); err != nil {
			return fmt.Errorf("write transform: %w", err)
		}
		pass.SetBindGroup(gpu.SlotTransform, r.uniformGroup)
		pass.DrawIndexed(indexCount, 1)
	}
	return nil
}

// Release frees the transform uniform.
func (r *Renderer) Release() {
	r.uniformGroup.Release()
	r.uniform.Release()
}
