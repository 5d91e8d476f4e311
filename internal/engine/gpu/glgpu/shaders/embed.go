// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms textured mesh vertices by the per-draw matrix.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader samples the bound texture.
//
//go:embed mesh.frag
var MeshFragmentShader string
