// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package grid

import "fmt"

// AbstractGridID names a grid within a grid group.
//
// The zero value is not a valid id: group ids handed out by Declare start
// at 1. Equality is structural, so ids can be used as map keys.
type AbstractGridID struct {
	// GroupID identifies the group that owns the grid.
	GroupID uint32

	// LocalID is unique within the group. Grids of different groups may
	// share a local id.
	LocalID uint16
}

// NewAbstractGridID creates an id. Only grid group implementations should
// need this; callers normally get their ids from Declare.
func NewAbstractGridID(groupID uint32, localID uint16) AbstractGridID {
	return AbstractGridID{GroupID: groupID, LocalID: localID}
}

// IsZero reports whether id is the zero value.
func (id AbstractGridID) IsZero() bool {
	return id == AbstractGridID{}
}

// String returns "grid(group:local)".
func (id AbstractGridID) String() string {
	return fmt.Sprintf("grid(%d:%d)", id.GroupID, id.LocalID)
}
