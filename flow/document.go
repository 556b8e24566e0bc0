// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gogpu/gputypes"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/gogpu/gridflow/grid"
)

// DocumentVersion is the version written by Flow.Document.
const DocumentVersion = 1

// ErrInvalidDocument is returned when a Document does not describe a
// consistent schedule.
var ErrInvalidDocument = errors.New("flow: invalid document")

// GridRef is the serialized form of an AbstractGridID.
type GridRef struct {
	Group uint32 `json:"group" yaml:"group" msgpack:"g"`
	Local uint16 `json:"local" yaml:"local" msgpack:"l"`
}

func refOf(id grid.AbstractGridID) GridRef {
	return GridRef{Group: id.GroupID, Local: id.LocalID}
}

// ID converts r back to an AbstractGridID.
func (r GridRef) ID() grid.AbstractGridID {
	return grid.AbstractGridID{GroupID: r.Group, LocalID: r.Local}
}

// GridDocument is the serialized form of a GridNodeSketch.
type GridDocument struct {
	Grid            GridRef                `json:"grid" yaml:"grid" msgpack:"grid"`
	Kind            string                 `json:"kind,omitempty" yaml:"kind,omitempty" msgpack:"kind,omitempty"`
	Format          gputypes.TextureFormat `json:"format,omitempty" yaml:"format,omitempty" msgpack:"format,omitempty"`
	PreserveInitial bool                   `json:"preserve_initial" yaml:"preserve_initial" msgpack:"pi"`
	PreserveFinal   bool                   `json:"preserve_final" yaml:"preserve_final" msgpack:"pf"`
	LastWrite       Moment                 `json:"last_write" yaml:"last_write" msgpack:"lw"`
	LastRead        Moment                 `json:"last_read" yaml:"last_read" msgpack:"lr"`
}

// BindingDocument is the serialized form of an input or output binding.
type BindingDocument struct {
	Source string  `json:"source,omitempty" yaml:"source,omitempty" msgpack:"src,omitempty"`
	Grid   GridRef `json:"grid" yaml:"grid" msgpack:"grid"`
	Name   string  `json:"name" yaml:"name" msgpack:"name"`
}

// TaskDocument is the serialized form of a TaskSketch.
type TaskDocument struct {
	Label        string            `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	Moment       Moment            `json:"moment" yaml:"moment" msgpack:"m"`
	Inputs       []BindingDocument `json:"inputs,omitempty" yaml:"inputs,omitempty" msgpack:"in,omitempty"`
	Outputs      []BindingDocument `json:"outputs,omitempty" yaml:"outputs,omitempty" msgpack:"out,omitempty"`
	DepthStencil GridRef           `json:"depth_stencil" yaml:"depth_stencil" msgpack:"ds"`
}

// Document is a plain, serializable description of a finished Flow. It
// encodes as JSON, YAML or MessagePack.
type Document struct {
	Version            int            `json:"version" yaml:"version" msgpack:"v"`
	Label              string         `json:"label,omitempty" yaml:"label,omitempty" msgpack:"label,omitempty"`
	GroupID            uint32         `json:"group" yaml:"group" msgpack:"group"`
	StrictDepthStencil bool           `json:"strict_depth_stencil,omitempty" yaml:"strict_depth_stencil,omitempty" msgpack:"strict,omitempty"`
	Grids              []GridDocument `json:"grids" yaml:"grids" msgpack:"grids"`
	Tasks              []TaskDocument `json:"tasks" yaml:"tasks" msgpack:"tasks"`
}

// Document returns the serializable form of f.
func (f *Flow) Document() *Document {
	doc := &Document{
		Version:            DocumentVersion,
		Label:              f.label,
		GroupID:            f.id.GroupID,
		StrictDepthStencil: f.strict,
		Grids:              make([]GridDocument, len(f.nodes)),
		Tasks:              make([]TaskDocument, len(f.tasks)),
	}
	for i, n := range f.nodes {
		gd := GridDocument{
			Grid:            refOf(n.Grid),
			PreserveInitial: n.State.PreserveInitialContent,
			PreserveFinal:   n.State.PreserveFinalContent,
			LastWrite:       n.State.LastWriteMoment,
			LastRead:        n.State.LastReadMoment,
		}
		if n.Declared {
			gd.Kind = n.Kind.String()
			gd.Format = n.Format
		}
		doc.Grids[i] = gd
	}
	for i, t := range f.tasks {
		td := TaskDocument{
			Label:        t.label,
			Moment:       t.moment,
			DepthStencil: refOf(t.depthStencil),
		}
		for _, in := range t.inputs {
			bd := BindingDocument{Name: in.ShaderVariableName}
			if in.Source == SourceGrid {
				bd.Grid = refOf(in.Grid)
			} else {
				bd.Source = in.Source.String()
			}
			td.Inputs = append(td.Inputs, bd)
		}
		for _, out := range t.outputs {
			td.Outputs = append(td.Outputs, BindingDocument{Grid: refOf(out.Grid), Name: out.ShaderVariableName})
		}
		doc.Tasks[i] = td
	}
	return doc
}

// Validate checks that every grid reference resolves and that the moments
// honor every read-after-write, write-after-write and write-after-read
// dependency implied by the task order.
func (d *Document) Validate() error {
	if d.Version != DocumentVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrInvalidDocument, d.Version, DocumentVersion)
	}
	known := make(map[GridRef]bool, len(d.Grids))
	for _, g := range d.Grids {
		if g.Grid.Group != d.GroupID {
			return fmt.Errorf("%w: grid %v outside group %d", ErrInvalidDocument, g.Grid.ID(), d.GroupID)
		}
		if known[g.Grid] {
			return fmt.Errorf("%w: grid %v listed twice", ErrInvalidDocument, g.Grid.ID())
		}
		known[g.Grid] = true
	}

	tasks, err := d.sketches(known)
	if err != nil {
		return err
	}
	for _, e := range deriveEdges(tasks) {
		from, to := tasks[e.From].moment, tasks[e.To].moment
		ok := to > from
		if e.DepthStencil && !d.StrictDepthStencil {
			ok = to >= from
		}
		if !ok {
			return fmt.Errorf("%w: task %d (moment %d) must follow task %d (moment %d) on %v (%v)",
				ErrInvalidDocument, e.To, to, e.From, from, e.Grid, e.Hazard)
		}
	}
	return nil
}

func (d *Document) sketches(known map[GridRef]bool) ([]*TaskSketch, error) {
	check := func(task int, r GridRef) error {
		if !known[r] {
			return fmt.Errorf("%w: task %d references unlisted grid %v", ErrInvalidDocument, task, r.ID())
		}
		return nil
	}
	tasks := make([]*TaskSketch, len(d.Tasks))
	for i, td := range d.Tasks {
		if td.Moment == 0 {
			return nil, fmt.Errorf("%w: task %d has moment 0", ErrInvalidDocument, i)
		}
		t := &TaskSketch{
			label:        td.Label,
			moment:       td.Moment,
			depthStencil: td.DepthStencil.ID(),
		}
		if err := check(i, td.DepthStencil); err != nil {
			return nil, err
		}
		for _, in := range td.Inputs {
			src, ok := ParseInputSource(in.Source)
			if !ok {
				return nil, fmt.Errorf("%w: task %d has input source %q", ErrInvalidDocument, i, in.Source)
			}
			is := InputSketch{Source: src, ShaderVariableName: in.Name}
			if src == SourceGrid {
				if err := check(i, in.Grid); err != nil {
					return nil, err
				}
				is.Grid = in.Grid.ID()
			}
			t.inputs = append(t.inputs, is)
		}
		for _, out := range td.Outputs {
			if err := check(i, out.Grid); err != nil {
				return nil, err
			}
			t.outputs = append(t.outputs, OutputSketch{Grid: out.Grid.ID(), ShaderVariableName: out.Name})
		}
		tasks[i] = t
	}
	return tasks, nil
}

// FromDocument validates d and rebuilds the Flow it describes. The flow
// gets a fresh builder id in d's group.
func FromDocument(d *Document) (*Flow, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	known := make(map[GridRef]bool, len(d.Grids))
	for _, g := range d.Grids {
		known[g.Grid] = true
	}
	tasks, err := d.sketches(known)
	if err != nil {
		return nil, err
	}

	f := &Flow{
		id:     newBuilderID(d.GroupID),
		label:  d.Label,
		strict: d.StrictDepthStencil,
		tasks:  tasks,
		nodes:  make([]GridNodeSketch, len(d.Grids)),
		index:  make(map[grid.AbstractGridID]uint32, len(d.Grids)),
	}
	for i, g := range d.Grids {
		n := GridNodeSketch{
			Grid: g.Grid.ID(),
			State: GridNodeState{
				LastWriteMoment:        g.LastWrite,
				LastReadMoment:         g.LastRead,
				PreserveInitialContent: g.PreserveInitial,
				PreserveFinalContent:   g.PreserveFinal,
			},
		}
		switch g.Kind {
		case "color":
			n.Declared, n.Kind, n.Format = true, grid.KindColor, g.Format
		case "depth_stencil":
			n.Declared, n.Kind, n.Format = true, grid.KindDepthStencil, g.Format
		}
		f.nodes[i] = n
		f.index[n.Grid] = uint32(i) //nolint:gosec // bounded by the uint16 local id space
	}
	return f, nil
}

// EncodeMsgpack writes f as a MessagePack document.
func EncodeMsgpack(w io.Writer, f *Flow) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(f.Document()); err != nil {
		return fmt.Errorf("flow: encode: %w", err)
	}
	return nil
}

// DecodeMsgpack reads a MessagePack document and rebuilds the Flow.
func DecodeMsgpack(r io.Reader) (*Flow, error) {
	var doc Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("flow: decode: %w", err)
	}
	return FromDocument(&doc)
}

// MarshalBinary implements encoding.BinaryMarshaler using MessagePack.
func (f *Flow) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
