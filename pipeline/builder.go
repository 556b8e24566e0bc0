// Package pipeline describes graphics pipelines: a linked shader pair, a
// primitive topology and the grid group they render into. It also checks
// render task declarations against the pipeline they draw with.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/grid"
	"github.com/gogpu/gridflow/shader"
)

var (
	// ErrInvalidPipeline is returned by GraphicsPipelineBuilder.Validate.
	ErrInvalidPipeline = errors.New("pipeline: invalid pipeline")

	// ErrBinding is returned when a task declaration does not bind the
	// variables of its pipeline.
	ErrBinding = errors.New("pipeline: task binding mismatch")
)

// GraphicsPipelineBuilder holds what is needed to create a graphics
// pipeline.
type GraphicsPipelineBuilder struct {
	Label    string
	Shaders  *shader.Pair
	Topology PrimitiveTopology

	// Grids is the group the pipeline renders into. Optional; when set,
	// grid bindings are checked against grid kinds.
	Grids *grid.Group
}

// Validate checks the builder for a missing shader pair and an invalid
// topology.
func (b *GraphicsPipelineBuilder) Validate() error {
	if b.Shaders == nil {
		return fmt.Errorf("%w: %q has no shader pair", ErrInvalidPipeline, b.Label)
	}
	return b.Topology.Validate()
}

// sourceOf maps an external variable type to the task input source that
// feeds it.
func sourceOf(t shader.VariableType) flow.InputSource {
	switch t {
	case shader.UniformInput:
		return flow.SourceUniform
	case shader.TextureInput:
		return flow.SourceTexture
	case shader.InstancedInput:
		return flow.SourceModel
	default:
		return flow.SourceGrid
	}
}

// CheckTask verifies that decl binds every external variable of the
// pipeline with the right source and every fragment output to a grid, and
// that it binds nothing else.
func (b *GraphicsPipelineBuilder) CheckTask(decl *flow.TaskDeclaration) error {
	if b.Shaders == nil {
		return fmt.Errorf("%w: %q has no shader pair", ErrInvalidPipeline, b.Label)
	}

	inputs := make(map[string]flow.Input, len(decl.Inputs))
	for _, in := range decl.Inputs {
		inputs[in.ShaderVariableName] = in
	}
	external := b.Shaders.ExternalVariables()
	if len(inputs) != len(decl.Inputs) || len(inputs) != len(external) {
		return fmt.Errorf("%w: task %q binds %d inputs, pipeline has %d external variables",
			ErrBinding, decl.Label, len(decl.Inputs), len(external))
	}
	for _, v := range external {
		in, ok := inputs[v.Name]
		if !ok {
			return fmt.Errorf("%w: task %q does not bind %v", ErrBinding, decl.Label, v)
		}
		if want := sourceOf(v.Type); in.Source != want {
			return fmt.Errorf("%w: %q bound to %v, want %v", ErrBinding, v.Name, in.Source, want)
		}
		if err := b.checkGridKind(v, in.Grid); err != nil {
			return err
		}
	}

	outputs := b.Shaders.Outputs()
	if len(decl.Outputs) != len(outputs) {
		return fmt.Errorf("%w: task %q binds %d outputs, fragment shader has %d",
			ErrBinding, decl.Label, len(decl.Outputs), len(outputs))
	}
	bound := make(map[string]bool, len(decl.Outputs))
	for _, out := range decl.Outputs {
		bound[out.ShaderVariableName] = true
	}
	for _, v := range outputs {
		if !bound[v.Name] {
			return fmt.Errorf("%w: task %q does not bind output %q", ErrBinding, decl.Label, v.Name)
		}
	}
	return nil
}

func (b *GraphicsPipelineBuilder) checkGridKind(v shader.Variable, id grid.AbstractGridID) error {
	if b.Grids == nil || !v.Type.IsGrid() {
		return nil
	}
	kind, ok := b.Grids.Kind(id)
	if !ok {
		return fmt.Errorf("%w: %q bound to %v outside group %d", ErrBinding, v.Name, id, b.Grids.ID())
	}
	want := grid.KindColor
	if v.Type == shader.DepthStencilGridInput {
		want = grid.KindDepthStencil
	}
	if kind != want {
		return fmt.Errorf("%w: %q needs a %v grid, %v is %v", ErrBinding, v.Name, want, id, kind)
	}
	return nil
}

// Task builds the task declaration that draws with the pipeline. grids
// maps the names of grid inputs and fragment outputs to grids; every other
// external variable is bound to its draw-time source.
func (b *GraphicsPipelineBuilder) Task(label string, grids map[string]grid.AbstractGridID, depthStencil grid.AbstractGridID) (flow.TaskDeclaration, error) {
	decl := flow.TaskDeclaration{Label: label, DepthStencil: depthStencil}
	if b.Shaders == nil {
		return decl, fmt.Errorf("%w: %q has no shader pair", ErrInvalidPipeline, b.Label)
	}
	for _, v := range b.Shaders.ExternalVariables() {
		src := sourceOf(v.Type)
		if src != flow.SourceGrid {
			decl.Inputs = append(decl.Inputs, flow.Input{Source: src, ShaderVariableName: v.Name})
			continue
		}
		id, ok := grids[v.Name]
		if !ok {
			return decl, fmt.Errorf("%w: no grid for input %q", ErrBinding, v.Name)
		}
		decl.Inputs = append(decl.Inputs, flow.GridInput(id, v.Name))
	}
	for _, v := range b.Shaders.Outputs() {
		id, ok := grids[v.Name]
		if !ok {
			return decl, fmt.Errorf("%w: no grid for output %q", ErrBinding, v.Name)
		}
		decl.Outputs = append(decl.Outputs, flow.GridOutput(id, v.Name))
	}
	return decl, b.CheckTask(&decl)
}
