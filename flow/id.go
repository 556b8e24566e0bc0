// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gridflow/grid"
)

// Moment is a logical timestamp expressing relative execution order.
// Moments of scheduled tasks start at 1; 0 means "never touched".
type Moment uint32

// BuilderID scopes a Builder to exactly one grid group. GroupID must match
// the group of every grid used with the builder.
type BuilderID struct {
	GroupID uint32
	LocalID uint32
}

// String returns "flow(group:local)".
func (id BuilderID) String() string {
	return fmt.Sprintf("flow(%d:%d)", id.GroupID, id.LocalID)
}

var nextBuilderID atomic.Uint32

func newBuilderID(groupID uint32) BuilderID {
	return BuilderID{GroupID: groupID, LocalID: nextBuilderID.Add(1)}
}

// GridNodeID is the handle AddGridNode returns for a registered grid. It is
// only valid with the builder that created it.
type GridNodeID struct {
	flow  BuilderID
	index uint32
	grid  grid.AbstractGridID
}

// Flow returns the builder the node belongs to.
func (n GridNodeID) Flow() BuilderID { return n.flow }

// Grid returns the grid the node tracks.
func (n GridNodeID) Grid() grid.AbstractGridID { return n.grid }

// String returns "node(flow/index)".
func (n GridNodeID) String() string {
	return fmt.Sprintf("node(%v/%d)", n.flow, n.index)
}
