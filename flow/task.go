// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import "github.com/gogpu/gridflow/grid"

// InputSource specifies where the data of a task input comes from.
type InputSource uint8

const (
	// SourceGrid reads a grid node of the same flow. Only grid inputs take
	// part in hazard tracking.
	SourceGrid InputSource = iota

	// SourceModel reads the attributes of the model being drawn.
	SourceModel

	// SourceTexture reads a texture chosen right before drawing and
	// transferred to the GPU in advance.
	SourceTexture

	// SourceUniform reads a global variable chosen right before drawing.
	SourceUniform
)

// String returns the source name.
func (s InputSource) String() string {
	switch s {
	case SourceGrid:
		return "grid"
	case SourceModel:
		return "model"
	case SourceTexture:
		return "texture"
	case SourceUniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ParseInputSource is the inverse of InputSource.String.
func ParseInputSource(s string) (InputSource, bool) {
	switch s {
	case "grid", "":
		return SourceGrid, true
	case "model":
		return SourceModel, true
	case "texture":
		return SourceTexture, true
	case "uniform":
		return SourceUniform, true
	default:
		return 0, false
	}
}

// Input binds a shader input variable to its data source.
type Input struct {
	Source InputSource

	// Grid is the grid read by a SourceGrid input. Ignored otherwise.
	Grid grid.AbstractGridID

	ShaderVariableName string
}

// GridInput binds name to the content of a grid.
func GridInput(id grid.AbstractGridID, name string) Input {
	return Input{Source: SourceGrid, Grid: id, ShaderVariableName: name}
}

// ModelInput binds name to a model attribute.
func ModelInput(name string) Input {
	return Input{Source: SourceModel, ShaderVariableName: name}
}

// TextureInput binds name to a texture chosen at draw time.
func TextureInput(name string) Input {
	return Input{Source: SourceTexture, ShaderVariableName: name}
}

// UniformInput binds name to a uniform chosen at draw time.
func UniformInput(name string) Input {
	return Input{Source: SourceUniform, ShaderVariableName: name}
}

// Output binds a shader output variable to the grid it writes.
type Output struct {
	Grid               grid.AbstractGridID
	ShaderVariableName string
}

// GridOutput binds name to grid id.
func GridOutput(id grid.AbstractGridID, name string) Output {
	return Output{Grid: id, ShaderVariableName: name}
}

// TaskDeclaration describes one drawing operation to add to a Builder.
//
// Every external input variable of the task's pipeline needs an Input and
// every external output variable needs an Output. DepthStencil is always
// required, even when the pipeline does no depth testing.
type TaskDeclaration struct {
	// Label is an optional debug name.
	Label string

	Inputs  []Input
	Outputs []Output

	DepthStencil grid.AbstractGridID
}
