// Package shader declares vertex and fragment shaders, compiles their WGSL
// source to SPIR-V and links them into pairs a graphics pipeline can use.
package shader

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrInvalidVariable is returned for unnamed or duplicate variables.
	ErrInvalidVariable = errors.New("shader: invalid variable")

	// ErrCompile wraps every naga compilation failure.
	ErrCompile = errors.New("shader: compilation failed")
)

// Stage distinguishes vertex from fragment shaders.
type Stage uint8

// Stages.
const (
	StageVertex Stage = iota
	StageFragment
)

func (s Stage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// Shader is a compiled vertex or fragment shader.
type Shader struct {
	name      string
	stage     Stage
	variables []Variable
	source    string
	spirv     []uint32
}

// VertexShader is a shader of StageVertex.
type VertexShader struct{ Shader }

// FragmentShader is a shader of StageFragment.
type FragmentShader struct{ Shader }

// Name returns the debug name.
func (s *Shader) Name() string { return s.name }

// Stage returns the pipeline stage of the shader.
func (s *Shader) Stage() Stage { return s.stage }

// Variables returns a copy of the declared variables.
func (s *Shader) Variables() []Variable {
	out := make([]Variable, len(s.variables))
	copy(out, s.variables)
	return out
}

// Variable returns the variable called name.
func (s *Shader) Variable(name string) (Variable, bool) {
	for _, v := range s.variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// Source returns the WGSL source the shader was compiled from, libraries
// included.
func (s *Shader) Source() string { return s.source }

// SPIRV returns the compiled SPIR-V words. The slice is shared; do not
// modify it.
func (s *Shader) SPIRV() []uint32 { return s.spirv }

func checkVariables(vars []Variable) error {
	seen := make(map[string]bool, len(vars))
	for i, v := range vars {
		if v.Name == "" {
			return fmt.Errorf("%w: variable %d has no name", ErrInvalidVariable, i)
		}
		if seen[v.Name] {
			return fmt.Errorf("%w: %q declared twice", ErrInvalidVariable, v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// Library is shared WGSL code that shaders can depend on.
type Library struct {
	name   string
	source string
	global atomic.Bool
}

// Name returns the debug name.
func (l *Library) Name() string { return l.name }

// Source returns the WGSL functions of the library.
func (l *Library) Source() string { return l.source }

// MakeGlobal makes every shader created afterwards depend on l. Shaders
// that already exist are not affected.
func (l *Library) MakeGlobal() { l.global.Store(true) }

// IsGlobal reports whether MakeGlobal was called.
func (l *Library) IsGlobal() bool { return l.global.Load() }

// NewVertexShader wraps precompiled SPIR-V as a vertex shader.
func NewVertexShader(name string, vars []Variable, spirv []uint32) (*VertexShader, error) {
	if err := checkVariables(vars); err != nil {
		return nil, err
	}
	return &VertexShader{Shader{name: name, stage: StageVertex, variables: append([]Variable(nil), vars...), spirv: spirv}}, nil
}

// NewFragmentShader wraps precompiled SPIR-V as a fragment shader.
func NewFragmentShader(name string, vars []Variable, spirv []uint32) (*FragmentShader, error) {
	if err := checkVariables(vars); err != nil {
		return nil, err
	}
	return &FragmentShader{Shader{name: name, stage: StageFragment, variables: append([]Variable(nil), vars...), spirv: spirv}}, nil
}
