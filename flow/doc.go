// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package flow turns a sequence of render task declarations into a scheduled
// render flow.
//
// # Overview
//
// A render flow is a directed acyclic graph of drawing tasks that read and
// write grids (render targets). Callers never name an edge of that graph.
// They declare which grids each task reads (inputs), writes (outputs) and
// uses as its depth/stencil attachment, and the Builder derives when every
// task may run relative to all others.
//
//	b := flow.NewBuilder(group.ID())
//	color, _ := b.AddGridNode(ids.Colors[0], false)
//	_ = b.MarkPreserved(color)
//	_, _ = b.AddGridNode(ids.DepthStencils[0], false)
//
//	geometry, _ := b.AddRenderTask(flow.TaskDeclaration{
//	    Outputs:      []flow.Output{flow.GridOutput(ids.Colors[0], "albedo")},
//	    DepthStencil: ids.DepthStencils[0],
//	})
//	f, _ := b.Finish()
//
// # Moments
//
// Every task receives a Moment, a logical timestamp starting at 1. A task
// that reads a grid runs strictly after the last task that wrote it; a task
// that writes a grid runs strictly after the last task that wrote or read
// it. Tasks that touch disjoint grids may share a moment, which tells the
// backend they can run without synchronization between them.
//
// The depth/stencil attachment uses an inclusive bound: a task may share a
// moment with the previous user of its depth/stencil grid, so depth testing
// and color writes of consecutive tasks can be recorded into one pass.
// WithStrictDepthStencil switches to the exclusive bound used by every
// other hazard class.
//
// # Errors
//
// Misuse is reported, never silently scheduled: ForeignResourceError for a
// grid or node handle from another group or builder, DuplicateResourceError
// for registering a grid twice and UnregisteredResourceError for a task that
// references an unregistered grid. A failing AddRenderTask records nothing.
// Use Must to turn these into panics when a wrong schedule should abort.
//
// # Thread Safety
//
// A Builder is NOT safe for concurrent use. A finished Flow is immutable and
// may be shared freely.
package flow
