package data

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestTypeNames(t *testing.T) {
	tests := []struct {
		typ  Type
		glsl string
		wgsl string
		size int
	}{
		{Float, "float", "f32", 4},
		{Int, "int", "i32", 4},
		{Bool, "bool", "bool", 4},
		{Vec3f, "vec3", "vec3<f32>", 12},
		{New(KindInt, Vec4), "ivec4", "vec4<i32>", 16},
		{New(KindBool, Vec2), "bvec2", "vec2<bool>", 8},
		{New(KindFloat, Mat3), "mat3", "mat3x3<f32>", 36},
		{Mat4f, "mat4", "mat4x4<f32>", 64},
	}
	for _, tt := range tests {
		t.Run(tt.glsl, func(t *testing.T) {
			if got := tt.typ.GLSLName(); got != tt.glsl {
				t.Errorf("GLSLName() = %q, want %q", got, tt.glsl)
			}
			if got := tt.typ.WGSLName(); got != tt.wgsl {
				t.Errorf("WGSLName() = %q, want %q", got, tt.wgsl)
			}
			if got := tt.typ.Size(); got != tt.size {
				t.Errorf("Size() = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestVertexFormat(t *testing.T) {
	for typ, want := range vertexFormats {
		got, ok := typ.VertexFormat()
		if !ok || got != want {
			t.Errorf("%v.VertexFormat() = %v, %v, want %v", typ, got, ok, want)
		}
		if uint64(typ.Size()) != got.Size() {
			t.Errorf("%v: Size() = %d, format size %d", typ, typ.Size(), got.Size())
		}
	}
	if _, ok := Mat4f.VertexFormat(); ok {
		t.Error("Mat4f.VertexFormat() ok = true")
	}
	if f, _ := Vec2f.VertexFormat(); f != gputypes.VertexFormatFloat32x2 {
		t.Errorf("Vec2f.VertexFormat() = %v", f)
	}
}
