package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/camera"
	"github.com/Faultbox/objbatch/internal/engine/entity"
	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/engine/lighting"
	"github.com/Faultbox/objbatch/internal/engine/model"
)

// MasterOptions configures a MasterRenderer.
type MasterOptions struct {
	Projection Projection
	BatchKey   model.BatchKeyMode
}

// Stats describes the last rendered frame.
type Stats struct {
	Buckets  int
	Entities int
	Binds    int
	Draws    int
}

// bucket holds the entities sharing one batching key. The model is the
// first one seen for the key and is the one bound.
type bucket struct {
	model    *model.TexturedModel
	entities []*entity.Entity
}

// MasterRenderer batches entities by model so each model is bound once per
// frame. Buckets render in the order their key was first added.
type MasterRenderer struct {
	renderer *Renderer
	mode     model.BatchKeyMode
	index    map[model.Key]int
	buckets  []bucket
	live     int
	stats    Stats
}

// NewMaster creates a MasterRenderer and its Renderer.
func NewMaster(device gpu.Device, opts MasterOptions) (*MasterRenderer, error) {
	r, err := New(device, Options{Projection: opts.Projection})
	if err != nil {
		return nil, err
	}
	r.log.Info("master renderer ready",
		zap.Stringer("projection", opts.Projection.Kind),
		zap.Stringer("batch_key", opts.BatchKey))
	return &MasterRenderer{
		renderer: r,
		mode:     opts.BatchKey,
		index:    make(map[model.Key]int),
	}, nil
}

// Renderer returns the underlying draw primitive.
func (m *MasterRenderer) Renderer() *Renderer {
	return m.renderer
}

// AddEntity appends e to the bucket for its model's key.
func (m *MasterRenderer) AddEntity(e *entity.Entity) {
	key := e.Model().Key(m.mode)
	i, ok := m.index[key]
	if !ok {
		i = m.live
		if i < len(m.buckets) {
			m.buckets[i].model = e.Model()
		} else {
			m.buckets = append(m.buckets, bucket{model: e.Model()})
		}
		m.index[key] = i
		m.live++
	}
	m.buckets[i].entities = append(m.buckets[i].entities, e)
}

// Clear empties every bucket. Allocations are kept for the next frame.
func (m *MasterRenderer) Clear() {
	for i := range m.buckets[:m.live] {
		clear(m.buckets[i].entities)
		m.buckets[i].entities = m.buckets[i].entities[:0]
		m.buckets[i].model = nil
	}
	m.live = 0
	clear(m.index)
}

// Render binds each bucket's model once and draws its entities. The light is
// accepted for the shading stage but not used.
func (m *MasterRenderer) Render(pass gpu.Pass, queue gpu.Queue, light lighting.Light, cam *camera.Camera) error {
	view := cam.ViewMatrix()

	stats := Stats{Buckets: m.live}
	for _, b := range m.buckets[:m.live] {
		m.renderer.Bind(pass, b.model)
		stats.Binds++
		if err := m.renderer.DrawAll(pass, queue, b.entities, view); err != nil {
			return fmt.Errorf("render bucket %+v: %w", b.model.Key(m.mode), err)
		}
		stats.Entities += len(b.entities)
		stats.Draws += len(b.entities)
	}
	m.stats = stats
	return nil
}

// Stats returns counters for the last Render call.
func (m *MasterRenderer) Stats() Stats {
	return m.stats
}

// Release frees the renderer's GPU resources.
func (m *MasterRenderer) Release() {
	m.renderer.Release()
}
