// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package grid

import "github.com/gogpu/gputypes"

// DepthStencilStartOperation determines what happens to the depth and
// stencil values of a grid when its render flow starts.
type DepthStencilStartOperation uint8

const (
	// DepthStencilPreserve keeps the values stored before the flow started.
	// Needed when reading values written during another flow.
	DepthStencilPreserve DepthStencilStartOperation = iota

	// DepthStencilClear clears the values to a fixed value chosen right
	// before the flow starts.
	DepthStencilClear

	// DepthStencilDontCare leaves the values undefined. Typical when they
	// are overwritten before being read, or never read at all.
	DepthStencilDontCare
)

// String returns the operation name.
func (op DepthStencilStartOperation) String() string {
	switch op {
	case DepthStencilPreserve:
		return "preserve"
	case DepthStencilClear:
		return "clear"
	case DepthStencilDontCare:
		return "dont_care"
	default:
		return "unknown"
	}
}

// PreservesContent reports whether the operation needs the initial values.
func (op DepthStencilStartOperation) PreservesContent() bool {
	return op == DepthStencilPreserve
}

// LoadOp returns the depth/stencil load operation.
func (op DepthStencilStartOperation) LoadOp() gputypes.LoadOp {
	if op == DepthStencilPreserve {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// DepthStencilPurpose states what the depth and stencil values are used for
// after the render flow has ended.
type DepthStencilPurpose uint8

const (
	// DepthStencilNothing means the values are not used after the flow.
	DepthStencilNothing DepthStencilPurpose = iota

	// DepthStencilShaderRead means a shader reads them in another flow.
	DepthStencilShaderRead

	// DepthStencilTransfer means they are copied to another grid.
	DepthStencilTransfer

	// DepthStencilReplace means they are replaced by another grid's values.
	DepthStencilReplace
)

// String returns the purpose name.
func (p DepthStencilPurpose) String() string {
	switch p {
	case DepthStencilNothing:
		return "nothing"
	case DepthStencilShaderRead:
		return "shader_read"
	case DepthStencilTransfer:
		return "transfer"
	case DepthStencilReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// PreservesContent reports whether the values must outlive the flow.
func (p DepthStencilPurpose) PreservesContent() bool {
	return p == DepthStencilShaderRead || p == DepthStencilTransfer
}

// StoreOp returns the depth/stencil store operation.
func (p DepthStencilPurpose) StoreOp() gputypes.StoreOp {
	if p.PreservesContent() {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

// DepthStencilGridBuilder describes one depth/stencil grid of a GroupBuilder.
type DepthStencilGridBuilder struct {
	// Format must be a depth and/or stencil format. Undefined selects
	// Depth24PlusStencil8.
	Format gputypes.TextureFormat

	// Start is applied when a flow using the grid starts.
	Start DepthStencilStartOperation

	// Purpose is what the values are used for after the flow.
	Purpose DepthStencilPurpose
}
