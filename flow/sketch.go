// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/grid"
)

// GridNodeState is the hazard state of one grid in one flow.
// Both moments are monotonically non-decreasing.
type GridNodeState struct {
	LastWriteMoment Moment
	LastReadMoment  Moment

	PreserveInitialContent bool
	PreserveFinalContent   bool
}

// InputSketch is a resolved task input.
type InputSketch struct {
	Source             InputSource
	Grid               grid.AbstractGridID
	ShaderVariableName string
}

// OutputSketch is a resolved task output.
type OutputSketch struct {
	Grid               grid.AbstractGridID
	ShaderVariableName string
}

// TaskSketch is the immutable, scheduled form of a TaskDeclaration.
// It is the unit a backend schedules.
type TaskSketch struct {
	label        string
	moment       Moment
	inputs       []InputSketch
	outputs      []OutputSketch
	depthStencil grid.AbstractGridID
}

// Label returns the debug label of the declaration.
func (t *TaskSketch) Label() string { return t.label }

// Moment returns the logical time the task was scheduled at.
func (t *TaskSketch) Moment() Moment { return t.moment }

// Inputs returns a copy of the resolved inputs in declaration order.
func (t *TaskSketch) Inputs() []InputSketch {
	out := make([]InputSketch, len(t.inputs))
	copy(out, t.inputs)
	return out
}

// Outputs returns a copy of the resolved outputs in declaration order.
func (t *TaskSketch) Outputs() []OutputSketch {
	out := make([]OutputSketch, len(t.outputs))
	copy(out, t.outputs)
	return out
}

// DepthStencil returns the depth/stencil grid of the task.
func (t *TaskSketch) DepthStencil() grid.AbstractGridID { return t.depthStencil }

// Touches reports whether the task reads, writes or attaches id.
func (t *TaskSketch) Touches(id grid.AbstractGridID) bool {
	if t.depthStencil == id {
		return true
	}
	for _, in := range t.inputs {
		if in.Source == SourceGrid && in.Grid == id {
			return true
		}
	}
	for _, out := range t.outputs {
		if out.Grid == id {
			return true
		}
	}
	return false
}

// GridNodeSketch describes one grid registered in a finished flow.
type GridNodeSketch struct {
	Grid grid.AbstractGridID

	// State is the hazard state after the last task.
	State GridNodeState

	// Declared is true when the builder knew the grid group. Kind and
	// Format are only meaningful then.
	Declared bool
	Kind     grid.Kind
	Format   gputypes.TextureFormat
}

// PreserveInitialContent reports whether the content at flow start matters.
func (n GridNodeSketch) PreserveInitialContent() bool { return n.State.PreserveInitialContent }

// PreserveFinalContent reports whether the content must survive the flow.
func (n GridNodeSketch) PreserveFinalContent() bool { return n.State.PreserveFinalContent }

// LoadOp returns Load when the initial content is preserved and Clear
// otherwise.
func (n GridNodeSketch) LoadOp() gputypes.LoadOp {
	if n.State.PreserveInitialContent {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// StoreOp returns Store when the final content is preserved and Discard
// otherwise.
func (n GridNodeSketch) StoreOp() gputypes.StoreOp {
	if n.State.PreserveFinalContent {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

// LastUse returns the moment of the last task touching the grid, or 0.
func (n GridNodeSketch) LastUse() Moment {
	return max(n.State.LastWriteMoment, n.State.LastReadMoment)
}
