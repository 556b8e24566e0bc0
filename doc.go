// Package gridflow builds render flows: ordered sets of render tasks over
// abstract render targets called grids.
//
// # Overview
//
// A grid group declares color and depth/stencil grids without allocating
// any GPU memory. A flow builder scoped to one group registers grids, then
// receives render task declarations one at a time. Each task gets the
// earliest moment that respects every read-after-write, write-after-write
// and write-after-read hazard on the grids it touches; tasks sharing a
// moment may run in any order or in parallel.
//
// # Quick Start
//
//	inst := gridflow.NewInstance()
//
//	group, ids, _ := inst.DeclareGridGroup(&grid.GroupBuilder{
//	    ColorGrids:        []grid.ColorGridBuilder{{Purpose: grid.ColorDisplay}},
//	    DepthStencilGrids: []grid.DepthStencilGridBuilder{{}},
//	})
//	b := inst.NewFlowBuilder(group)
//	for _, d := range group.Grids() {
//	    b.AddGridNode(d.ID, d.PreserveInitialContent)
//	}
//	b.AddRenderTask(flow.TaskDeclaration{
//	    Inputs:       []flow.Input{flow.ModelInput("position")},
//	    Outputs:      []flow.Output{flow.GridOutput(ids.Colors[0], "color")},
//	    DepthStencil: ids.DepthStencils[0],
//	})
//	f, _ := b.Finish()
//
// # Architecture
//
// The module is organized into:
//   - grid: grid ids, groups, start operations and purposes
//   - flow: the builder, moment assignment and the finished Flow
//   - flowfile: HCL and YAML flow descriptions
//   - data, shader, pipeline, vertex: what tasks draw with
//
// Executing a flow on a device is left to a backend; this package only
// computes the schedule and the attachment load/store plan.
package gridflow

// Version information
const (
	// Version is the current version of the module
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
