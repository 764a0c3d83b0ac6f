// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MeshVertexShader transforms OBJ meshes and offsets instances along X.
//
//go:embed mesh.vert
var MeshVertexShader string

// MeshFragmentShader shades a textured mesh with a single Phong point light.
//
//go:embed mesh.frag
var MeshFragmentShader string

// BasicFragmentShader outputs the texture color without lighting.
//
//go:embed basic.frag
var BasicFragmentShader string

// CubemapVertexShader is the vertex shader for the skybox.
//
//go:embed cubemap.vert
var CubemapVertexShader string

// CubemapFragmentShader is the fragment shader for the skybox.
//
//go:embed cubemap.frag
var CubemapFragmentShader string

// TextVertexShader is the vertex shader for glyph quads.
//
//go:embed text.vert
var TextVertexShader string

// TextFragmentShader is the fragment shader for glyph quads.
//
//go:embed text.frag
var TextFragmentShader string

// SpriteVertexShader is the vertex shader for 2D sprites.
//
//go:embed sprite.vert
var SpriteVertexShader string

// SpriteFragmentShader is the fragment shader for 2D sprites.
//
//go:embed sprite.frag
var SpriteFragmentShader string
