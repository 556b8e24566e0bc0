// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gridflow/grid"
	"github.com/gogpu/gridflow/internal/logging"
)

// gridNode is the builder-owned hazard record of one registered grid.
type gridNode struct {
	grid  grid.AbstractGridID
	state GridNodeState
	decl  *grid.Declaration
}

// Builder schedules render tasks of one grid group into a Flow.
//
// The builder owns a table of hazard states indexed by grid; task
// declarations carry grid ids and all mutation goes through the builder.
// Builder is not safe for concurrent use.
type Builder struct {
	id       BuilderID
	opts     options
	log      *slog.Logger
	nodes    []gridNode
	index    map[grid.AbstractGridID]uint32
	tasks    []*TaskSketch
	finished bool
}

// NewBuilder creates an empty builder scoped to the grid group groupID.
func NewBuilder(groupID uint32, opts ...Option) *Builder {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	b := &Builder{
		id:    newBuilderID(groupID),
		opts:  o,
		index: make(map[grid.AbstractGridID]uint32),
	}
	b.log = logging.Or(o.logger).With("flow", b.id.String())
	return b
}

// ForGroup creates a builder scoped to g that checks bindings against the
// group's declarations.
func ForGroup(g *grid.Group, opts ...Option) *Builder {
	return NewBuilder(g.ID(), append(opts, WithGroup(g))...)
}

// ID returns the scope identifier of the builder.
func (b *Builder) ID() BuilderID { return b.id }

// Len returns the number of tasks added so far.
func (b *Builder) Len() int { return len(b.tasks) }

// AddGridNode registers grid id in the flow and returns its node handle.
// Both moments start at 0 and the final content is not preserved until
// MarkPreserved is called.
func (b *Builder) AddGridNode(id grid.AbstractGridID, preserveInitialContent bool) (GridNodeID, error) {
	const op = "AddGridNode"
	if b.finished {
		return GridNodeID{}, ErrBuilderFinished
	}
	if id.GroupID != b.id.GroupID {
		return GridNodeID{}, &ForeignResourceError{Op: op, Builder: b.id, Grid: id}
	}
	if idx, ok := b.index[id]; ok {
		return GridNodeID{}, &DuplicateResourceError{Builder: b.id, Grid: id, Existing: b.handle(idx)}
	}

	var decl *grid.Declaration
	if g := b.opts.group; g != nil {
		d, err := g.Grid(id)
		if err != nil {
			return GridNodeID{}, fmt.Errorf("flow: %s: %w", op, err)
		}
		decl = &d
	}

	idx := uint32(len(b.nodes)) //nolint:gosec // bounded by the uint16 local id space
	b.nodes = append(b.nodes, gridNode{
		grid:  id,
		state: GridNodeState{PreserveInitialContent: preserveInitialContent},
		decl:  decl,
	})
	b.index[id] = idx

	b.log.Debug("flow: grid node registered", "grid", id.String(), "preserve_initial", preserveInitialContent)
	return b.handle(idx), nil
}

// Node returns the handle of a registered grid.
func (b *Builder) Node(id grid.AbstractGridID) (GridNodeID, bool) {
	idx, ok := b.index[id]
	if !ok {
		return GridNodeID{}, false
	}
	return b.handle(idx), true
}

// State returns the current hazard state of a registered grid.
func (b *Builder) State(id grid.AbstractGridID) (GridNodeState, bool) {
	idx, ok := b.index[id]
	if !ok {
		return GridNodeState{}, false
	}
	return b.nodes[idx].state, true
}

// MarkPreserved requests that the content of node survives the end of the
// flow. Calling it more than once has no further effect.
func (b *Builder) MarkPreserved(node GridNodeID) error {
	const op = "MarkPreserved"
	if b.finished {
		return ErrBuilderFinished
	}
	if node == (GridNodeID{}) {
		return &UnregisteredResourceError{Op: op, Builder: b.id}
	}
	if node.flow != b.id {
		return &ForeignResourceError{Op: op, Builder: b.id, Grid: node.grid, Owner: node.flow}
	}
	if int(node.index) >= len(b.nodes) || b.nodes[node.index].grid != node.grid {
		return &UnregisteredResourceError{Op: op, Builder: b.id, Grid: node.grid}
	}
	b.nodes[node.index].state.PreserveFinalContent = true
	return nil
}

// resolved holds the node indices of a validated declaration.
type resolved struct {
	inputs       []uint32
	outputs      []uint32
	depthStencil uint32
}

// resolve validates every binding of decl before any state is touched.
func (b *Builder) resolve(decl *TaskDeclaration) (resolved, error) {
	const op = "AddRenderTask"
	var r resolved

	lookup := func(id grid.AbstractGridID, binding string) (uint32, error) {
		if idx, ok := b.index[id]; ok {
			return idx, nil
		}
		// An unset binding is unregistered, whatever the builder's group.
		if id.GroupID != b.id.GroupID && !id.IsZero() {
			return 0, &ForeignResourceError{Op: op, Builder: b.id, Grid: id}
		}
		return 0, &UnregisteredResourceError{Op: op, Builder: b.id, Grid: id, Binding: binding}
	}

	for i, in := range decl.Inputs {
		if in.Source != SourceGrid {
			continue
		}
		idx, err := lookup(in.Grid, fmt.Sprintf("input[%d]", i))
		if err != nil {
			return r, err
		}
		r.inputs = append(r.inputs, idx)
	}

	for i, out := range decl.Outputs {
		binding := fmt.Sprintf("output[%d]", i)
		idx, err := lookup(out.Grid, binding)
		if err != nil {
			return r, err
		}
		if d := b.nodes[idx].decl; d != nil && d.Kind != grid.KindColor {
			return r, fmt.Errorf("%w: %s binds %v %v", ErrKindMismatch, binding, d.Kind, out.Grid)
		}
		r.outputs = append(r.outputs, idx)
	}

	idx, err := lookup(decl.DepthStencil, "depth_stencil")
	if err != nil {
		return r, err
	}
	if d := b.nodes[idx].decl; d != nil && d.Kind != grid.KindDepthStencil {
		return r, fmt.Errorf("%w: depth_stencil binds %v %v", ErrKindMismatch, d.Kind, decl.DepthStencil)
	}
	r.depthStencil = idx
	return r, nil
}

// AddRenderTask schedules decl and returns its sketch.
//
// The moment starts at 1 and is raised past the last write of every grid
// input, past the last write and last read of every output, and up to the
// last read and last write of the depth/stencil grid. The chosen moment is
// then committed: inputs record a read, outputs and the depth/stencil grid
// record both a write and a read. Recorded moments never decrease.
//
// If any binding is invalid the error is returned and nothing is recorded.
func (b *Builder) AddRenderTask(decl TaskDeclaration) (*TaskSketch, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	r, err := b.resolve(&decl)
	if err != nil {
		return nil, err
	}

	moment := Moment(1)

	// Read after write.
	for _, idx := range r.inputs {
		if s := &b.nodes[idx].state; s.LastWriteMoment >= moment {
			moment = s.LastWriteMoment + 1
		}
	}

	// Write after write, then write after read.
	for _, idx := range r.outputs {
		s := &b.nodes[idx].state
		if s.LastWriteMoment >= moment {
			moment = s.LastWriteMoment + 1
		}
		if s.LastReadMoment >= moment {
			moment = s.LastReadMoment + 1
		}
	}

	// Depth/stencil: inclusive unless strict.
	ds := &b.nodes[r.depthStencil].state
	var bump Moment
	if b.opts.strictDepthStencil {
		bump = 1
	}
	if ds.LastReadMoment >= moment {
		moment = ds.LastReadMoment + bump
	}
	if ds.LastWriteMoment >= moment {
		moment = ds.LastWriteMoment + bump
	}

	// A read never lowers the read moment: an earlier-inserted reader may
	// sit at a later moment, and a future writer must still wait for it.
	for _, idx := range r.inputs {
		s := &b.nodes[idx].state
		s.LastReadMoment = max(s.LastReadMoment, moment)
	}
	for _, idx := range r.outputs {
		s := &b.nodes[idx].state
		s.LastWriteMoment = moment
		s.LastReadMoment = moment
	}
	ds.LastWriteMoment = moment
	ds.LastReadMoment = moment

	sketch := &TaskSketch{
		label:        decl.Label,
		moment:       moment,
		inputs:       make([]InputSketch, len(decl.Inputs)),
		outputs:      make([]OutputSketch, len(decl.Outputs)),
		depthStencil: decl.DepthStencil,
	}
	for i, in := range decl.Inputs {
		sketch.inputs[i] = InputSketch(in)
	}
	for i, out := range decl.Outputs {
		sketch.outputs[i] = OutputSketch(out)
	}
	b.tasks = append(b.tasks, sketch)

	b.log.Debug("flow: task scheduled",
		"task", len(b.tasks)-1, "label", decl.Label, "moment", moment,
		"inputs", len(r.inputs), "outputs", len(r.outputs))
	return sketch, nil
}

// Finish consumes the builder and returns the immutable Flow. Every later
// call on the builder returns ErrBuilderFinished.
func (b *Builder) Finish() (*Flow, error) {
	if b.finished {
		return nil, ErrBuilderFinished
	}
	b.finished = true

	f := &Flow{
		id:     b.id,
		label:  b.opts.label,
		strict: b.opts.strictDepthStencil,
		tasks:  b.tasks,
		nodes:  make([]GridNodeSketch, len(b.nodes)),
		index:  b.index,
	}
	for i, n := range b.nodes {
		s := GridNodeSketch{Grid: n.grid, State: n.state}
		if n.decl != nil {
			s.Declared = true
			s.Kind = n.decl.Kind
			s.Format = n.decl.Format
		}
		f.nodes[i] = s
	}

	b.nodes = nil
	b.index = nil
	b.tasks = nil

	b.log.Info("flow: finished",
		"label", f.label, "tasks", len(f.tasks), "grids", len(f.nodes), "moments", f.MaxMoment())
	return f, nil
}

func (b *Builder) handle(idx uint32) GridNodeID {
	return GridNodeID{flow: b.id, index: idx, grid: b.nodes[idx].grid}
}
