// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"sort"

	"github.com/gogpu/gridflow/grid"
)

// Flow is the finished, immutable render flow handed to a backend. All
// accessors return copies.
type Flow struct {
	id     BuilderID
	label  string
	strict bool
	tasks  []*TaskSketch
	nodes  []GridNodeSketch
	index  map[grid.AbstractGridID]uint32
}

// ID returns the id of the builder that produced the flow.
func (f *Flow) ID() BuilderID { return f.id }

// Label returns the label set with WithLabel.
func (f *Flow) Label() string { return f.label }

// StrictDepthStencil reports whether depth/stencil hazards used the
// exclusive bound.
func (f *Flow) StrictDepthStencil() bool { return f.strict }

// NumTasks returns the number of task sketches.
func (f *Flow) NumTasks() int { return len(f.tasks) }

// Task returns the i-th task in insertion order.
func (f *Flow) Task(i int) *TaskSketch { return f.tasks[i].clone() }

// Tasks returns all task sketches in insertion order.
func (f *Flow) Tasks() []*TaskSketch {
	out := make([]*TaskSketch, len(f.tasks))
	for i, t := range f.tasks {
		out[i] = t.clone()
	}
	return out
}

// GridNodes returns the registered grids in registration order.
func (f *Flow) GridNodes() []GridNodeSketch {
	out := make([]GridNodeSketch, len(f.nodes))
	copy(out, f.nodes)
	return out
}

// GridNode returns the sketch of a registered grid.
func (f *Flow) GridNode(id grid.AbstractGridID) (GridNodeSketch, bool) {
	idx, ok := f.index[id]
	if !ok {
		return GridNodeSketch{}, false
	}
	return f.nodes[idx], true
}

// MaxMoment returns the largest moment of any task, or 0 for an empty flow.
func (f *Flow) MaxMoment() Moment {
	var m Moment
	for _, t := range f.tasks {
		m = max(m, t.moment)
	}
	return m
}

// Stage is a set of tasks sharing one moment. Their inputs and outputs
// carry no ordering constraint relative to each other. Under the default
// inclusive depth/stencil bound they may still share a depth/stencil grid,
// in which case Edges reports the depth/stencil edge between them and they
// must run in insertion order.
type Stage struct {
	Moment Moment

	// Tasks holds insertion indices into the flow.
	Tasks []int
}

// Stages groups the tasks by moment, in ascending moment order. Within a
// stage tasks keep insertion order, which is the order shared
// depth/stencil grids require.
func (f *Flow) Stages() []Stage {
	byMoment := make(map[Moment][]int)
	for i, t := range f.tasks {
		byMoment[t.moment] = append(byMoment[t.moment], i)
	}
	stages := make([]Stage, 0, len(byMoment))
	for m, tasks := range byMoment {
		stages = append(stages, Stage{Moment: m, Tasks: tasks})
	}
	sort.Slice(stages, func(i, j int) bool { return stages[i].Moment < stages[j].Moment })
	return stages
}

// Hazard classifies a data dependency between two tasks.
type Hazard uint8

const (
	// ReadAfterWrite means the later task reads what the earlier wrote.
	ReadAfterWrite Hazard = iota
	// WriteAfterWrite means both tasks write the grid.
	WriteAfterWrite
	// WriteAfterRead means the later task overwrites what the earlier read.
	WriteAfterRead
)

// String returns "RAW", "WAW" or "WAR".
func (h Hazard) String() string {
	switch h {
	case ReadAfterWrite:
		return "RAW"
	case WriteAfterWrite:
		return "WAW"
	case WriteAfterRead:
		return "WAR"
	default:
		return "unknown"
	}
}

// Edge is a direct dependency between two tasks of a flow.
type Edge struct {
	// From and To are insertion indices; From < To.
	From, To int
	Grid     grid.AbstractGridID
	Hazard   Hazard

	// DepthStencil is true when the later task touches Grid through its
	// depth/stencil attachment. Such edges allow equal moments unless the
	// builder was strict.
	DepthStencil bool
}

// Edges derives the dependency edges of the flow from the bindings of its
// tasks, in insertion order of the later task. Only the last writer of a
// grid and the readers since that write produce edges.
func (f *Flow) Edges() []Edge {
	return deriveEdges(f.tasks)
}

type edgeKey struct {
	from, to int
	grid     grid.AbstractGridID
	hazard   Hazard
}

func deriveEdges(tasks []*TaskSketch) []Edge {
	type access struct {
		writer  int
		readers []int
	}
	state := make(map[grid.AbstractGridID]*access)
	get := func(id grid.AbstractGridID) *access {
		a, ok := state[id]
		if !ok {
			a = &access{writer: -1}
			state[id] = a
		}
		return a
	}

	var edges []Edge
	seen := make(map[edgeKey]bool)
	add := func(from, to int, id grid.AbstractGridID, h Hazard, depth bool) {
		if from < 0 || from == to {
			return
		}
		k := edgeKey{from, to, id, h}
		if seen[k] {
			return
		}
		seen[k] = true
		edges = append(edges, Edge{From: from, To: to, Grid: id, Hazard: h, DepthStencil: depth})
	}

	for j, t := range tasks {
		for _, in := range t.inputs {
			if in.Source != SourceGrid {
				continue
			}
			add(get(in.Grid).writer, j, in.Grid, ReadAfterWrite, false)
		}
		written := make([]grid.AbstractGridID, 0, len(t.outputs)+1)
		for _, out := range t.outputs {
			a := get(out.Grid)
			add(a.writer, j, out.Grid, WriteAfterWrite, false)
			for _, r := range a.readers {
				add(r, j, out.Grid, WriteAfterRead, false)
			}
			written = append(written, out.Grid)
		}
		ds := get(t.depthStencil)
		add(ds.writer, j, t.depthStencil, WriteAfterWrite, true)
		for _, r := range ds.readers {
			add(r, j, t.depthStencil, WriteAfterRead, true)
		}
		written = append(written, t.depthStencil)

		for _, in := range t.inputs {
			if in.Source == SourceGrid {
				a := get(in.Grid)
				a.readers = append(a.readers, j)
			}
		}
		for _, id := range written {
			a := get(id)
			a.writer = j
			a.readers = a.readers[:0]
		}
	}
	return edges
}

// Dependencies returns the insertion indices of the tasks task i directly
// depends on, in ascending order.
func (f *Flow) Dependencies(i int) []int {
	set := make(map[int]bool)
	for _, e := range f.Edges() {
		if e.To == i {
			set[e.From] = true
		}
	}
	deps := make([]int, 0, len(set))
	for d := range set {
		deps = append(deps, d)
	}
	sort.Ints(deps)
	return deps
}

func (t *TaskSketch) clone() *TaskSketch {
	c := *t
	c.inputs = t.Inputs()
	c.outputs = t.Outputs()
	return &c
}
