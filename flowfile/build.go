package flowfile

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/grid"
)

const (
	kindColor        = "color"
	kindDepthStencil = "depth_stencil"
)

// lastFormat is the highest texture format value gputypes defines.
const lastFormat = gputypes.TextureFormatASTC12x12UnormSrgb

var formats = func() map[string]gputypes.TextureFormat {
	m := make(map[string]gputypes.TextureFormat, lastFormat)
	for f := gputypes.TextureFormatR8Unorm; f <= lastFormat; f++ {
		if name := f.String(); name != "Unknown" {
			m[normalize(name)] = f
		}
	}
	return m
}()

func normalize(s string) string {
	return strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s))
}

// ParseFormat resolves a texture format name such as "rgba8unorm",
// "RGBA8Unorm" or "depth24plus-stencil8". The empty string yields
// TextureFormatUndefined.
func ParseFormat(name string) (gputypes.TextureFormat, error) {
	if name == "" {
		return gputypes.TextureFormatUndefined, nil
	}
	f, ok := formats[normalize(name)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown texture format %q", ErrInvalid, name)
	}
	return f, nil
}

func (g *GridSpec) colorBuilder() (grid.ColorGridBuilder, error) {
	var cb grid.ColorGridBuilder
	format, err := ParseFormat(g.Format)
	if err != nil {
		return cb, err
	}
	cb.Format = format

	switch g.Start {
	case "preserve":
		cb.Start = grid.ColorPreserve
	case "", "clear":
		cb.Start = grid.ColorClear
	case "dont_care":
		cb.Start = grid.ColorDontCare
	default:
		return cb, fmt.Errorf("%w: grid %q has start %q", ErrInvalid, g.Name, g.Start)
	}

	switch g.Purpose {
	case "", "nothing":
		cb.Purpose = grid.ColorNothing
	case "display":
		cb.Purpose = grid.ColorDisplay
	case "shader_read":
		cb.Purpose = grid.ColorShaderRead
	case "transfer":
		cb.Purpose = grid.ColorTransfer
	case "replace":
		cb.Purpose = grid.ColorReplace
	default:
		return cb, fmt.Errorf("%w: grid %q has purpose %q", ErrInvalid, g.Name, g.Purpose)
	}
	return cb, nil
}

func (g *GridSpec) depthStencilBuilder() (grid.DepthStencilGridBuilder, error) {
	var db grid.DepthStencilGridBuilder
	format, err := ParseFormat(g.Format)
	if err != nil {
		return db, err
	}
	db.Format = format

	switch g.Start {
	case "preserve":
		db.Start = grid.DepthStencilPreserve
	case "", "clear":
		db.Start = grid.DepthStencilClear
	case "dont_care":
		db.Start = grid.DepthStencilDontCare
	default:
		return db, fmt.Errorf("%w: grid %q has start %q", ErrInvalid, g.Name, g.Start)
	}

	switch g.Purpose {
	case "", "nothing":
		db.Purpose = grid.DepthStencilNothing
	case "shader_read":
		db.Purpose = grid.DepthStencilShaderRead
	case "transfer":
		db.Purpose = grid.DepthStencilTransfer
	case "replace":
		db.Purpose = grid.DepthStencilReplace
	default:
		return db, fmt.Errorf("%w: grid %q has purpose %q", ErrInvalid, g.Name, g.Purpose)
	}
	return db, nil
}

// Result is what Build produces.
type Result struct {
	Flow  *flow.Flow
	Group *grid.Group

	// Grids maps grid names to the ids Declare assigned.
	Grids map[string]grid.AbstractGridID
}

// Name returns the name of the grid with the given id, or "" when the
// id is not part of the result.
func (r *Result) Name(id grid.AbstractGridID) string {
	for name, gid := range r.Grids {
		if gid == id {
			return name
		}
	}
	return ""
}

// Build declares the file's grid group, registers every grid in file
// order and adds the tasks in file order. opts are applied after the
// options implied by the file, so callers can override the label.
func (f *File) Build(opts ...flow.Option) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var gb grid.GroupBuilder
	for i := range f.Grids {
		g := &f.Grids[i]
		if g.Kind == kindColor {
			cb, err := g.colorBuilder()
			if err != nil {
				return nil, err
			}
			gb.ColorGrids = append(gb.ColorGrids, cb)
			continue
		}
		db, err := g.depthStencilBuilder()
		if err != nil {
			return nil, err
		}
		gb.DepthStencilGrids = append(gb.DepthStencilGrids, db)
	}

	group, ids, err := grid.Declare(&gb)
	if err != nil {
		return nil, fmt.Errorf("flowfile: %w", err)
	}

	res := &Result{Group: group, Grids: make(map[string]grid.AbstractGridID, len(f.Grids))}
	var ci, di int
	for _, g := range f.Grids {
		if g.Kind == kindColor {
			res.Grids[g.Name] = ids.Colors[ci]
			ci++
		} else {
			res.Grids[g.Name] = ids.DepthStencils[di]
			di++
		}
	}

	var fileOpts []flow.Option
	if f.Name != "" {
		fileOpts = append(fileOpts, flow.WithLabel(f.Name))
	}
	if f.StrictDepthStencil {
		fileOpts = append(fileOpts, flow.WithStrictDepthStencil())
	}
	b := flow.ForGroup(group, append(fileOpts, opts...)...)

	for _, g := range f.Grids {
		id := res.Grids[g.Name]
		decl, err := group.Grid(id)
		if err != nil {
			return nil, fmt.Errorf("flowfile: %w", err)
		}
		node, err := b.AddGridNode(id, decl.PreserveInitialContent)
		if err != nil {
			return nil, fmt.Errorf("flowfile: grid %q: %w", g.Name, err)
		}
		if decl.PreserveFinalContent || g.Preserve {
			if err := b.MarkPreserved(node); err != nil {
				return nil, fmt.Errorf("flowfile: grid %q: %w", g.Name, err)
			}
		}
	}

	for _, t := range f.Tasks {
		decl := flow.TaskDeclaration{
			Label:        t.Name,
			DepthStencil: res.Grids[t.DepthStencil],
		}
		for _, in := range t.Inputs {
			src, _ := flow.ParseInputSource(in.Source)
			input := flow.Input{Source: src, ShaderVariableName: in.Name}
			if src == flow.SourceGrid {
				input.Grid = res.Grids[in.Grid]
			}
			decl.Inputs = append(decl.Inputs, input)
		}
		for _, out := range t.Outputs {
			decl.Outputs = append(decl.Outputs, flow.GridOutput(res.Grids[out.Grid], out.Name))
		}
		if _, err := b.AddRenderTask(decl); err != nil {
			return nil, fmt.Errorf("flowfile: task %q: %w", t.Name, err)
		}
	}

	res.Flow, err = b.Finish()
	if err != nil {
		return nil, fmt.Errorf("flowfile: %w", err)
	}
	return res, nil
}
