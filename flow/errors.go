// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"errors"
	"fmt"

	"github.com/gogpu/gridflow/grid"
)

var (
	// ErrForeignResource matches every *ForeignResourceError.
	ErrForeignResource = errors.New("flow: resource belongs to another scope")

	// ErrDuplicateResource matches every *DuplicateResourceError.
	ErrDuplicateResource = errors.New("flow: resource registered twice")

	// ErrUnregisteredResource matches every *UnregisteredResourceError.
	ErrUnregisteredResource = errors.New("flow: resource not registered")

	// ErrBuilderFinished is returned by every mutating Builder method after
	// Finish has been called.
	ErrBuilderFinished = errors.New("flow: builder already finished")

	// ErrKindMismatch is returned when a builder that knows its grid group
	// sees a color grid bound as depth/stencil attachment or a
	// depth/stencil grid bound as color output.
	ErrKindMismatch = errors.New("flow: grid kind does not match binding")
)

// ForeignResourceError reports a grid or node handle from one scope used
// with a builder of another scope.
type ForeignResourceError struct {
	// Op is the builder method that detected the violation.
	Op string

	// Builder is the builder the handle was passed to.
	Builder BuilderID

	// Grid is the offending grid. For node handles it is the node's grid.
	Grid grid.AbstractGridID

	// Owner is the builder that created the offending node handle. It is
	// the zero value when the handle was a grid id.
	Owner BuilderID
}

func (e *ForeignResourceError) Error() string {
	if e.Owner != (BuilderID{}) {
		return fmt.Sprintf("flow: %s: node of %v used with %v", e.Op, e.Owner, e.Builder)
	}
	return fmt.Sprintf("flow: %s: %v is not in group %d of %v", e.Op, e.Grid, e.Builder.GroupID, e.Builder)
}

// Is reports whether target is ErrForeignResource.
func (e *ForeignResourceError) Is(target error) bool { return target == ErrForeignResource }

// DuplicateResourceError reports a grid registered twice in one builder.
type DuplicateResourceError struct {
	Builder  BuilderID
	Grid     grid.AbstractGridID
	Existing GridNodeID
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("flow: %v already registered in %v as %v", e.Grid, e.Builder, e.Existing)
}

// Is reports whether target is ErrDuplicateResource.
func (e *DuplicateResourceError) Is(target error) bool { return target == ErrDuplicateResource }

// UnregisteredResourceError reports a handle the builder never registered.
type UnregisteredResourceError struct {
	Op      string
	Builder BuilderID
	Grid    grid.AbstractGridID

	// Binding names the task binding that referenced the grid, such as
	// "input[0]", "output[1]" or "depth_stencil". Empty for node handles.
	Binding string
}

func (e *UnregisteredResourceError) Error() string {
	if e.Binding != "" {
		return fmt.Sprintf("flow: %s: %s references unregistered %v in %v", e.Op, e.Binding, e.Grid, e.Builder)
	}
	return fmt.Sprintf("flow: %s: %v not registered in %v", e.Op, e.Grid, e.Builder)
}

// Is reports whether target is ErrUnregisteredResource.
func (e *UnregisteredResourceError) Is(target error) bool {
	return target == ErrUnregisteredResource
}

// Must returns v or panics with err. It is meant for call sites where a
// scheduling contract violation is a programming error that should abort.
//
//	sketch := flow.Must(b.AddRenderTask(decl))
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
