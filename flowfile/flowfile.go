// Package flowfile loads render flows described in HCL or YAML files.
//
// A flow file declares the grids of one group and the render tasks that
// use them, in the order they are added to the flow builder:
//
//	name = "deferred"
//
//	grid "albedo" {
//	  kind    = "color"
//	  start   = "clear"
//	  purpose = "shader_read"
//	}
//
//	grid "depth" {
//	  kind = "depth_stencil"
//	}
//
//	task "gbuffer" {
//	  depth_stencil = "depth"
//	  input "position" { source = "model" }
//	  output "albedo" { grid = "albedo" }
//	}
//
// The YAML form uses the same field names with grids, tasks, inputs and
// outputs as lists.
package flowfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gridflow/flow"
)

var (
	// ErrInvalid is returned for files that decode but do not describe a
	// usable flow.
	ErrInvalid = errors.New("flowfile: invalid flow file")

	// ErrUnsupportedFormat is returned by Parse for unknown extensions.
	ErrUnsupportedFormat = errors.New("flowfile: unsupported file format")
)

// File is the decoded form of a flow file.
type File struct {
	Name               string     `hcl:"name,optional" yaml:"name"`
	StrictDepthStencil bool       `hcl:"strict_depth_stencil,optional" yaml:"strict_depth_stencil"`
	Grids              []GridSpec `hcl:"grid,block" yaml:"grids"`
	Tasks              []TaskSpec `hcl:"task,block" yaml:"tasks"`
}

// GridSpec declares one grid of the flow's group.
type GridSpec struct {
	Name string `hcl:"name,label" yaml:"name"`

	// Kind is "color" or "depth_stencil".
	Kind string `hcl:"kind" yaml:"kind"`

	// Format names a texture format, e.g. "rgba16float". Empty selects the
	// kind's default.
	Format string `hcl:"format,optional" yaml:"format,omitempty"`

	// Start is "preserve", "clear" or "dont_care". Empty means clear.
	Start string `hcl:"start,optional" yaml:"start,omitempty"`

	// Purpose is "nothing", "display" (color only), "shader_read",
	// "transfer" or "replace". Empty means nothing.
	Purpose string `hcl:"purpose,optional" yaml:"purpose,omitempty"`

	// Preserve keeps the final content regardless of the purpose.
	Preserve bool `hcl:"preserve,optional" yaml:"preserve,omitempty"`
}

// TaskSpec declares one render task.
type TaskSpec struct {
	Name         string        `hcl:"name,label" yaml:"name"`
	DepthStencil string        `hcl:"depth_stencil" yaml:"depth_stencil"`
	Inputs       []BindingSpec `hcl:"input,block" yaml:"inputs,omitempty"`
	Outputs      []BindingSpec `hcl:"output,block" yaml:"outputs,omitempty"`
}

// BindingSpec binds a shader variable to a grid or, for inputs, to one
// of the sources "model", "texture" or "uniform".
type BindingSpec struct {
	Name   string `hcl:"name,label" yaml:"name"`
	Grid   string `hcl:"grid,optional" yaml:"grid,omitempty"`
	Source string `hcl:"source,optional" yaml:"source,omitempty"`
}

// Load reads and parses the flow file at path.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flowfile: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes src, choosing the format from the extension of name:
// ".hcl" or ".flow" for HCL, ".yaml" or ".yml" for YAML.
func Parse(name string, src []byte) (*File, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl", ".flow":
		return ParseHCL(name, src)
	case ".yaml", ".yml":
		return ParseYAML(name, src)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ParseHCL decodes an HCL flow file. name is used in diagnostics.
func ParseHCL(name string, src []byte) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
	}

	var f File
	if diags := gohcl.DecodeBody(file.Body, nil, &f); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseYAML decodes a YAML flow file. Unknown fields are rejected.
func ParseYAML(name string, src []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", name, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks names and references without declaring anything.
func (f *File) Validate() error {
	kinds := make(map[string]string, len(f.Grids))
	for i, g := range f.Grids {
		if g.Name == "" {
			return fmt.Errorf("%w: grid %d has no name", ErrInvalid, i)
		}
		if _, ok := kinds[g.Name]; ok {
			return fmt.Errorf("%w: grid %q declared twice", ErrInvalid, g.Name)
		}
		var err error
		switch g.Kind {
		case kindColor:
			_, err = g.colorBuilder()
		case kindDepthStencil:
			_, err = g.depthStencilBuilder()
		default:
			err = fmt.Errorf("%w: grid %q has kind %q", ErrInvalid, g.Name, g.Kind)
		}
		if err != nil {
			return err
		}
		kinds[g.Name] = g.Kind
	}

	for _, t := range f.Tasks {
		ref := func(binding, name string) error {
			if _, ok := kinds[name]; !ok {
				return fmt.Errorf("%w: task %q: %s references unknown grid %q", ErrInvalid, t.Name, binding, name)
			}
			return nil
		}
		if err := ref("depth_stencil", t.DepthStencil); err != nil {
			return err
		}
		for _, in := range t.Inputs {
			src, ok := flow.ParseInputSource(in.Source)
			if !ok {
				return fmt.Errorf("%w: task %q: input %q has source %q", ErrInvalid, t.Name, in.Name, in.Source)
			}
			if src != flow.SourceGrid {
				if in.Grid != "" {
					return fmt.Errorf("%w: task %q: input %q has both grid and source", ErrInvalid, t.Name, in.Name)
				}
				continue
			}
			if err := ref("input "+in.Name, in.Grid); err != nil {
				return err
			}
		}
		for _, out := range t.Outputs {
			if out.Source != "" {
				return fmt.Errorf("%w: task %q: output %q has a source", ErrInvalid, t.Name, out.Name)
			}
			if err := ref("output "+out.Name, out.Grid); err != nil {
				return err
			}
		}
	}
	return nil
}
