package shaders

import (
	"strings"
	"testing"
)

func TestSourcesDeclareUniforms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		uniforms []string
	}{
		{"mesh.vert", MeshVertexShader, []string{"u_model", "u_view", "u_projection", "xoffset"}},
		{"mesh.frag", MeshFragmentShader, []string{"u_light_pos", "u_light_color", "u_view_pos", "u_texture"}},
		{"basic.frag", BasicFragmentShader, []string{"u_texture"}},
		{"cubemap.vert", CubemapVertexShader, []string{"projection", "view"}},
		{"cubemap.frag", CubemapFragmentShader, []string{"skybox"}},
		{"text.vert", TextVertexShader, []string{"projection"}},
		{"text.frag", TextFragmentShader, []string{"text_color"}},
		{"sprite.vert", SpriteVertexShader, []string{"model", "projection", "offset"}},
		{"sprite.frag", SpriteFragmentShader, []string{"sprite_color", "image_sampler"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.src, "#version 410 core") {
				t.Errorf("expected #version 410 core header")
			}
			for _, u := range tt.uniforms {
				if !strings.Contains(tt.src, "uniform ") || !strings.Contains(tt.src, " "+u) {
					t.Errorf("expected uniform %s", u)
				}
			}
		})
	}
}
