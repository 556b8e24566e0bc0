// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package grid

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/internal/logging"
)

var (
	// ErrTooManyGrids is returned when a group would need more local ids
	// than an AbstractGridID can hold.
	ErrTooManyGrids = errors.New("grid: too many grids in one group")

	// ErrFormatMismatch is returned when a color grid has a depth/stencil
	// format or a depth/stencil grid has a color format.
	ErrFormatMismatch = errors.New("grid: format does not match grid kind")

	// ErrUnknownGrid is returned when an id does not belong to a group.
	ErrUnknownGrid = errors.New("grid: unknown grid")
)

// Kind distinguishes color grids from depth/stencil grids.
type Kind uint8

const (
	// KindColor is a color render target.
	KindColor Kind = iota
	// KindDepthStencil is a depth and/or stencil target.
	KindDepthStencil
)

// String returns "color" or "depth_stencil".
func (k Kind) String() string {
	switch k {
	case KindColor:
		return "color"
	case KindDepthStencil:
		return "depth_stencil"
	default:
		return "unknown"
	}
}

// GroupBuilder contains the information needed to declare a grid group.
// Append color and depth/stencil grid builders, then call Declare.
type GroupBuilder struct {
	ColorGrids        []ColorGridBuilder
	DepthStencilGrids []DepthStencilGridBuilder
}

// GroupIDs holds the ids Declare assigned. Colors[i] belongs to
// ColorGrids[i] and DepthStencils[i] to DepthStencilGrids[i].
type GroupIDs struct {
	Colors        []AbstractGridID
	DepthStencils []AbstractGridID
}

// Declaration is the resolved description of one grid in a Group.
type Declaration struct {
	ID     AbstractGridID
	Kind   Kind
	Format gputypes.TextureFormat

	// PreserveInitialContent is true when the start operation preserves
	// content written before a flow.
	PreserveInitialContent bool

	// PreserveFinalContent is true when the purpose needs the content after
	// a flow has ended.
	PreserveFinalContent bool

	LoadOp  gputypes.LoadOp
	StoreOp gputypes.StoreOp
}

// Group is a declared, immutable set of abstract grids. Groups own no GPU
// memory; they are what render flows are scoped to.
type Group struct {
	id    uint32
	grids []Declaration
}

var nextGroupID atomic.Uint32

// Declare assigns a fresh group id and sequential local ids (color grids
// first, then depth/stencil grids) to the grids of b.
//
// The builder can be modified after Declare returns; later changes are not
// reflected in the returned group.
func Declare(b *GroupBuilder) (*Group, GroupIDs, error) {
	total := len(b.ColorGrids) + len(b.DepthStencilGrids)
	if total > math.MaxUint16+1 {
		return nil, GroupIDs{}, fmt.Errorf("%w: %d", ErrTooManyGrids, total)
	}

	g := &Group{
		id:    nextGroupID.Add(1),
		grids: make([]Declaration, 0, total),
	}
	ids := GroupIDs{
		Colors:        make([]AbstractGridID, 0, len(b.ColorGrids)),
		DepthStencils: make([]AbstractGridID, 0, len(b.DepthStencilGrids)),
	}

	for i, cb := range b.ColorGrids {
		format := cb.Format
		if format == gputypes.TextureFormatUndefined {
			format = gputypes.TextureFormatRGBA8Unorm
		}
		if format.IsDepthStencil() {
			return nil, GroupIDs{}, fmt.Errorf("%w: color grid %d has format %v", ErrFormatMismatch, i, format)
		}
		id := NewAbstractGridID(g.id, uint16(len(g.grids))) //nolint:gosec // bounded by the check above
		g.grids = append(g.grids, Declaration{
			ID:                     id,
			Kind:                   KindColor,
			Format:                 format,
			PreserveInitialContent: cb.Start.PreservesContent(),
			PreserveFinalContent:   cb.Purpose.PreservesContent(),
			LoadOp:                 cb.Start.LoadOp(),
			StoreOp:                cb.Purpose.StoreOp(),
		})
		ids.Colors = append(ids.Colors, id)
	}

	for i, db := range b.DepthStencilGrids {
		format := db.Format
		if format == gputypes.TextureFormatUndefined {
			format = gputypes.TextureFormatDepth24PlusStencil8
		}
		if !format.IsDepthStencil() {
			return nil, GroupIDs{}, fmt.Errorf("%w: depth/stencil grid %d has format %v", ErrFormatMismatch, i, format)
		}
		id := NewAbstractGridID(g.id, uint16(len(g.grids))) //nolint:gosec // bounded by the check above
		g.grids = append(g.grids, Declaration{
			ID:                     id,
			Kind:                   KindDepthStencil,
			Format:                 format,
			PreserveInitialContent: db.Start.PreservesContent(),
			PreserveFinalContent:   db.Purpose.PreservesContent(),
			LoadOp:                 db.Start.LoadOp(),
			StoreOp:                db.Purpose.StoreOp(),
		})
		ids.DepthStencils = append(ids.DepthStencils, id)
	}

	logging.Logger().Debug("grid: group declared",
		"group", g.id, "colors", len(ids.Colors), "depth_stencils", len(ids.DepthStencils))
	return g, ids, nil
}

// ID returns the group id shared by all grids of the group.
func (g *Group) ID() uint32 { return g.id }

// Len returns the number of grids in the group.
func (g *Group) Len() int { return len(g.grids) }

// Grid returns the declaration of id.
func (g *Group) Grid(id AbstractGridID) (Declaration, error) {
	if id.GroupID != g.id || int(id.LocalID) >= len(g.grids) {
		return Declaration{}, fmt.Errorf("%w: %v in group %d", ErrUnknownGrid, id, g.id)
	}
	return g.grids[id.LocalID], nil
}

// Grids returns a copy of all declarations in local id order.
func (g *Group) Grids() []Declaration {
	out := make([]Declaration, len(g.grids))
	copy(out, g.grids)
	return out
}

// Kind returns the kind of id, or false when id is not in the group.
func (g *Group) Kind(id AbstractGridID) (Kind, bool) {
	d, err := g.Grid(id)
	if err != nil {
		return 0, false
	}
	return d.Kind, true
}
