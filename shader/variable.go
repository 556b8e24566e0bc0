package shader

import (
	"fmt"

	"github.com/gogpu/gridflow/data"
)

// VariableType says where the value of a shader variable comes from or
// goes to.
type VariableType uint8

const (
	// Input is a per-vertex model attribute in a vertex shader and an
	// interpolated vertex shader output in a fragment shader.
	Input VariableType = iota

	// UniformInput is a global value chosen right before drawing.
	UniformInput

	// InstancedInput is a per-instance model attribute.
	InstancedInput

	// TextureInput is a texture chosen right before drawing.
	TextureInput

	// ColorGridInput samples a color grid of the flow.
	ColorGridInput

	// DepthStencilGridInput samples a depth/stencil grid of the flow.
	DepthStencilGridInput

	// Output is passed to the fragment shader by a vertex shader and
	// written to a color grid by a fragment shader.
	Output
)

var variableTypeNames = [...]string{
	Input:                 "input",
	UniformInput:          "uniform",
	InstancedInput:        "instanced",
	TextureInput:          "texture",
	ColorGridInput:        "color_grid",
	DepthStencilGridInput: "depth_stencil_grid",
	Output:                "output",
}

func (t VariableType) String() string {
	if int(t) < len(variableTypeNames) {
		return variableTypeNames[t]
	}
	return fmt.Sprintf("VariableType(%d)", uint8(t))
}

// IsExternal reports whether the value is supplied from outside the shader
// pair. Every external variable needs a binding in the render task that
// uses the pair.
func (t VariableType) IsExternal() bool {
	switch t {
	case UniformInput, InstancedInput, TextureInput, ColorGridInput, DepthStencilGridInput:
		return true
	}
	return false
}

// IsGrid reports whether the variable reads a grid of the flow.
func (t VariableType) IsGrid() bool {
	return t == ColorGridInput || t == DepthStencilGridInput
}

// Variable is an input, output or uniform of a shader.
type Variable struct {
	Name     string
	DataType data.Type
	Type     VariableType
}

// String returns "name: type (kind)".
func (v Variable) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Name, v.DataType.WGSLName(), v.Type)
}
