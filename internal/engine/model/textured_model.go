package model

import (
	"fmt"

	"github.com/Faultbox/objbatch/internal/engine/texture"
)

// BatchKeyMode selects which identities group entities into one bind.
type BatchKeyMode uint8

const (
	// BatchByMeshAndTexture keys on the (mesh, texture) pair. Distinct
	// meshes never share a bucket.
	BatchByMeshAndTexture BatchKeyMode = iota
	// BatchByTexture keys on the texture identity alone. Meshes sharing a
	// texture collapse into one bucket, bound with the first-seen mesh.
	BatchByTexture
)

// ParseBatchKeyMode parses a config value.
func ParseBatchKeyMode(s string) (BatchKeyMode, error) {
	switch s {
	case "mesh_and_texture":
		return BatchByMeshAndTexture, nil
	case "texture":
		return BatchByTexture, nil
	default:
		return 0, fmt.Errorf("unknown batch key %q (want mesh_and_texture or texture)", s)
	}
}

func (m BatchKeyMode) String() string {
	switch m {
	case BatchByMeshAndTexture:
		return "mesh_and_texture"
	case BatchByTexture:
		return "texture"
	default:
		return fmt.Sprintf("BatchKeyMode(%d)", m)
	}
}

// Key identifies a batching bucket.
type Key struct {
	Mesh    uint32
	Texture uint32
}

// TexturedModel pairs one RawModel with one ModelTexture.
type TexturedModel struct {
	raw     *RawModel
	texture *texture.ModelTexture
}

// NewTexturedModel pairs raw with tex and takes a reference on raw.
func NewTexturedModel(raw *RawModel, tex *texture.ModelTexture) *TexturedModel {
	return &TexturedModel{raw: raw.Retain(), texture: tex}
}

// RawModel returns the mesh.
func (t *TexturedModel) RawModel() *RawModel { return t.raw }

// Texture returns the texture.
func (t *TexturedModel) Texture() *texture.ModelTexture { return t.texture }

// Key returns the batching key under mode.
func (t *TexturedModel) Key(mode BatchKeyMode) Key {
	if mode == BatchByTexture {
		return Key{Texture: t.texture.ID()}
	}
	return Key{Mesh: t.raw.ID(), Texture: t.texture.ID()}
}

// Release drops this pairing's reference on the mesh.
func (t *TexturedModel) Release() {
	t.raw.Release()
}
