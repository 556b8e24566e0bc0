package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/gridflow/data"
)

// ErrLink matches every *LinkError.
var ErrLink = errors.New("shader: link failed")

// LinkError reports why a vertex shader could not be linked to a fragment
// shader. Err is an *ExternalVariableMismatchError or a *VaryingError.
type LinkError struct {
	Vertex   string
	Fragment string
	Err      error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader: linking %s to %s: %v", e.Vertex, e.Fragment, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// Is reports whether target is ErrLink.
func (e *LinkError) Is(target error) bool { return target == ErrLink }

// ExternalVariableMismatchError means both shaders declare an external
// variable with the same name but different data types.
type ExternalVariableMismatchError struct {
	Name         string
	VertexType   data.Type
	FragmentType data.Type
}

func (e *ExternalVariableMismatchError) Error() string {
	return fmt.Sprintf("external variable %q is %v in the vertex shader and %v in the fragment shader",
		e.Name, e.VertexType, e.FragmentType)
}

// VaryingProblem classifies a VaryingError.
type VaryingProblem uint8

const (
	// VaryingTypeMismatch means a vertex output and the fragment input of
	// the same name have different types.
	VaryingTypeMismatch VaryingProblem = iota
	// MissingFragmentInput means a vertex output has no fragment input.
	MissingFragmentInput
	// MissingVertexOutput means a fragment input has no vertex output.
	MissingVertexOutput
)

// VaryingError reports a vertex output and fragment input that do not
// line up by name.
type VaryingError struct {
	Problem      VaryingProblem
	Name         string
	VertexType   data.Type
	FragmentType data.Type
}

func (e *VaryingError) Error() string {
	switch e.Problem {
	case VaryingTypeMismatch:
		return fmt.Sprintf("vertex output %q is %v but fragment input is %v", e.Name, e.VertexType, e.FragmentType)
	case MissingFragmentInput:
		return fmt.Sprintf("vertex output %q has no matching fragment input", e.Name)
	default:
		return fmt.Sprintf("fragment input %q has no matching vertex output", e.Name)
	}
}

// Pair is a linked vertex and fragment shader.
type Pair struct {
	vertex   *VertexShader
	fragment *FragmentShader
	external []Variable
}

// Vertex returns the vertex shader.
func (p *Pair) Vertex() *VertexShader { return p.vertex }

// Fragment returns the fragment shader.
func (p *Pair) Fragment() *FragmentShader { return p.fragment }

// ExternalVariables returns the union of the external variables of both
// shaders: vertex variables first, then fragment variables not already
// declared by the vertex shader.
func (p *Pair) ExternalVariables() []Variable {
	out := make([]Variable, len(p.external))
	copy(out, p.external)
	return out
}

// Outputs returns the fragment outputs, each of which writes a color grid.
func (p *Pair) Outputs() []Variable {
	var out []Variable
	for _, v := range p.fragment.variables {
		if v.Type == Output {
			out = append(out, v)
		}
	}
	return out
}

// Link matches the outputs of vs to the inputs of fs by name and collects
// the external variables of both.
func Link(vs *VertexShader, fs *FragmentShader) (*Pair, error) {
	fail := func(err error) (*Pair, error) {
		return nil, &LinkError{Vertex: vs.name, Fragment: fs.name, Err: err}
	}

	fragInputs := make(map[string]data.Type)
	for _, v := range fs.variables {
		if v.Type == Input {
			fragInputs[v.Name] = v.DataType
		}
	}
	vertOutputs := make(map[string]bool)
	for _, v := range vs.variables {
		if v.Type != Output {
			continue
		}
		vertOutputs[v.Name] = true
		ft, ok := fragInputs[v.Name]
		if !ok {
			return fail(&VaryingError{Problem: MissingFragmentInput, Name: v.Name, VertexType: v.DataType})
		}
		if ft != v.DataType {
			return fail(&VaryingError{Problem: VaryingTypeMismatch, Name: v.Name, VertexType: v.DataType, FragmentType: ft})
		}
	}
	for _, v := range fs.variables {
		if v.Type == Input && !vertOutputs[v.Name] {
			return fail(&VaryingError{Problem: MissingVertexOutput, Name: v.Name, FragmentType: v.DataType})
		}
	}

	var external []Variable
	byName := make(map[string]data.Type)
	for _, v := range vs.variables {
		if v.Type.IsExternal() {
			external = append(external, v)
			byName[v.Name] = v.DataType
		}
	}
	for _, v := range fs.variables {
		if !v.Type.IsExternal() {
			continue
		}
		if vt, ok := byName[v.Name]; ok {
			if vt != v.DataType {
				return fail(&ExternalVariableMismatchError{Name: v.Name, VertexType: vt, FragmentType: v.DataType})
			}
			continue
		}
		external = append(external, v)
		byName[v.Name] = v.DataType
	}

	return &Pair{vertex: vs, fragment: fs, external: external}, nil
}
