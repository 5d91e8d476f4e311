package model

import (
	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/engine/gpu"
	"github.com/Faultbox/objbatch/internal/logger"
)

// RawModel owns an immutable vertex buffer and 16-bit index buffer.
// Ownership is shared: every holder calls Retain, and the buffers are
// released when the last holder calls Release.
type RawModel struct {
	id           uint32
	vertexBuffer gpu.Buffer
	indexBuffer  gpu.Buffer
	vertexCount  uint32
	indexCount   uint32
	refs         int
}

// New wraps uploaded buffers. The returned model holds one reference,
// owned by the caller.
func New(id uint32, vb, ib gpu.Buffer, vertexCount, indexCount uint32) *RawModel {
	return &RawModel{
		id:           id,
		vertexBuffer: vb,
		indexBuffer:  ib,
		vertexCount:  vertexCount,
		indexCount:   indexCount,
		refs:         1,
	}
}

// ID returns the mesh identity assigned at load time.
func (m *RawModel) ID() uint32 { return m.id }

// VertexBuffer returns the vertex buffer.
func (m *RawModel) VertexBuffer() gpu.Buffer { return m.vertexBuffer }

// IndexBuffer returns the index buffer.
func (m *RawModel) IndexBuffer() gpu.Buffer { return m.indexBuffer }

// VertexCount returns the number of vertices.
func (m *RawModel) VertexCount() uint32 { return m.vertexCount }

// IndexCount returns the number of indices.
func (m *RawModel) IndexCount() uint32 { return m.indexCount }

// Retain adds a reference.
func (m *RawModel) Retain() *RawModel {
	m.refs++
	return m
}

// Release drops a reference and frees the buffers when none remain.
func (m *RawModel) Release() {
	if m.refs <= 0 {
		return
	}
	m.refs--
	if m.refs > 0 {
		return
	}
	if m.vertexBuffer != nil {
		m.vertexBuffer.Release()
	}
	if m.indexBuffer != nil {
		m.indexBuffer.Release()
	}
	logger.Debug("raw model released", zap.Uint32("mesh_id", m.id))
}

// Released reports whether the buffers have been freed.
func (m *RawModel) Released() bool {
	return m.refs <= 0
}
