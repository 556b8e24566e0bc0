// Package data describes the scalar, vector and matrix types shared by
// shader variables and vertex attributes.
package data

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Kind is the component type of a Type.
type Kind uint8

// Component kinds.
const (
	KindFloat Kind = iota
	KindInt
	KindBool
)

// String returns "float", "int" or "bool".
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// glslPrefix is the prefix GLSL puts before vector and matrix names.
func (k Kind) glslPrefix() string {
	switch k {
	case KindInt:
		return "i"
	case KindBool:
		return "b"
	default:
		return ""
	}
}

func (k Kind) wgslScalar() string {
	switch k {
	case KindInt:
		return "i32"
	case KindBool:
		return "bool"
	default:
		return "f32"
	}
}

// Shape is the arrangement of components in a Type.
type Shape uint8

// Shapes. Single is a scalar.
const (
	Single Shape = iota
	Vec2
	Vec3
	Vec4
	Mat3
	Mat4
)

// Components returns the number of scalar components of the shape.
func (s Shape) Components() int {
	switch s {
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 1
	}
}

// String returns the GLSL base name of the shape: "", "vec2", ..., "mat4".
func (s Shape) String() string {
	switch s {
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	case Vec4:
		return "vec4"
	case Mat3:
		return "mat3"
	case Mat4:
		return "mat4"
	default:
		return ""
	}
}

// IsMatrix reports whether s is Mat3 or Mat4.
func (s Shape) IsMatrix() bool { return s == Mat3 || s == Mat4 }

// Type is the data type of a shader variable or vertex attribute.
type Type struct {
	Kind  Kind
	Shape Shape
}

// Common types.
var (
	Float = Type{KindFloat, Single}
	Int   = Type{KindInt, Single}
	Bool  = Type{KindBool, Single}
	Vec2f = Type{KindFloat, Vec2}
	Vec3f = Type{KindFloat, Vec3}
	Vec4f = Type{KindFloat, Vec4}
	Vec2i = Type{KindInt, Vec2}
	Mat4f = Type{KindFloat, Mat4}
)

// New returns the type with the given kind and shape.
func New(kind Kind, shape Shape) Type {
	return Type{Kind: kind, Shape: shape}
}

// GLSLName returns the GLSL spelling of t, such as "float", "ivec3" or
// "mat4".
func (t Type) GLSLName() string {
	if t.Shape == Single {
		return t.Kind.String()
	}
	return t.Kind.glslPrefix() + t.Shape.String()
}

// WGSLName returns the WGSL spelling of t, such as "f32", "vec3<i32>" or
// "mat4x4<f32>".
func (t Type) WGSLName() string {
	scalar := t.Kind.wgslScalar()
	switch t.Shape {
	case Single:
		return scalar
	case Mat3:
		return "mat3x3<" + scalar + ">"
	case Mat4:
		return "mat4x4<" + scalar + ">"
	default:
		return fmt.Sprintf("vec%d<%s>", t.Shape.Components(), scalar)
	}
}

// Size returns the size of t in bytes. Every component takes 4 bytes,
// booleans included.
func (t Type) Size() int { return t.Shape.Components() * 4 }

// String returns the GLSL name.
func (t Type) String() string { return t.GLSLName() }

var vertexFormats = map[Type]gputypes.VertexFormat{
	{KindFloat, Single}: gputypes.VertexFormatFloat32,
	{KindFloat, Vec2}:   gputypes.VertexFormatFloat32x2,
	{KindFloat, Vec3}:   gputypes.VertexFormatFloat32x3,
	{KindFloat, Vec4}:   gputypes.VertexFormatFloat32x4,
	{KindInt, Single}:   gputypes.VertexFormatSint32,
	{KindInt, Vec2}:     gputypes.VertexFormatSint32x2,
	{KindInt, Vec3}:     gputypes.VertexFormatSint32x3,
	{KindInt, Vec4}:     gputypes.VertexFormatSint32x4,
	{KindBool, Single}:  gputypes.VertexFormatUint32,
	{KindBool, Vec2}:    gputypes.VertexFormatUint32x2,
	{KindBool, Vec3}:    gputypes.VertexFormatUint32x3,
	{KindBool, Vec4}:    gputypes.VertexFormatUint32x4,
}

// VertexFormat returns the vertex attribute format of t. Matrices have no
// vertex format.
func (t Type) VertexFormat() (gputypes.VertexFormat, bool) {
	f, ok := vertexFormats[t]
	return f, ok
}
