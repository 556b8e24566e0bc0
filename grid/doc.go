// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package grid declares the render targets ("grids") that render flows read
// and write.
//
// Grids are declared in groups. A GroupBuilder lists color grids and
// depth/stencil grids together with what should happen to their content when
// a flow starts and what the content is used for after the flow ends.
// Declare turns the builder into a Group and hands back one AbstractGridID
// per declared grid:
//
//	group, ids, err := grid.Declare(&grid.GroupBuilder{
//	    ColorGrids: []grid.ColorGridBuilder{{
//	        Format:  gputypes.TextureFormatRGBA8Unorm,
//	        Start:   grid.ColorClear,
//	        Purpose: grid.ColorDisplay,
//	    }},
//	    DepthStencilGrids: []grid.DepthStencilGridBuilder{{
//	        Format: gputypes.TextureFormatDepth24PlusStencil8,
//	        Start:  grid.DepthStencilClear,
//	    }},
//	})
//
// Groups are abstract: they occupy no GPU memory and do not dictate a size.
// The ids are what the flow package uses to name resources.
package grid
