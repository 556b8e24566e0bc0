// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package grid

import "github.com/gogpu/gputypes"

// ColorStartOperation determines what happens to a color grid's content
// when a render flow starts.
type ColorStartOperation uint8

const (
	// ColorPreserve keeps the content written before the flow started.
	ColorPreserve ColorStartOperation = iota

	// ColorClear clears the grid to a value chosen right before the flow.
	ColorClear

	// ColorDontCare leaves the content undefined.
	ColorDontCare
)

// String returns the operation name.
func (op ColorStartOperation) String() string {
	switch op {
	case ColorPreserve:
		return "preserve"
	case ColorClear:
		return "clear"
	case ColorDontCare:
		return "dont_care"
	default:
		return "unknown"
	}
}

// PreservesContent reports whether the operation needs the initial content.
func (op ColorStartOperation) PreservesContent() bool {
	return op == ColorPreserve
}

// LoadOp returns the attachment load operation for the start operation.
// DontCare maps to Clear since WebGPU has no undefined load.
func (op ColorStartOperation) LoadOp() gputypes.LoadOp {
	if op == ColorPreserve {
		return gputypes.LoadOpLoad
	}
	return gputypes.LoadOpClear
}

// ColorPurpose states what a color grid's content is used for after its
// render flow has ended.
type ColorPurpose uint8

const (
	// ColorNothing means the content is not used after the flow.
	ColorNothing ColorPurpose = iota

	// ColorDisplay means the content is presented to the screen.
	ColorDisplay

	// ColorShaderRead means a shader reads the content in another flow.
	ColorShaderRead

	// ColorTransfer means the content is copied to another grid.
	ColorTransfer

	// ColorReplace means the content is replaced by a copy from another grid.
	ColorReplace
)

// String returns the purpose name.
func (p ColorPurpose) String() string {
	switch p {
	case ColorNothing:
		return "nothing"
	case ColorDisplay:
		return "display"
	case ColorShaderRead:
		return "shader_read"
	case ColorTransfer:
		return "transfer"
	case ColorReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// PreservesContent reports whether the content must outlive the flow.
// Replace overwrites the grid afterwards, so nothing needs to survive.
func (p ColorPurpose) PreservesContent() bool {
	switch p {
	case ColorDisplay, ColorShaderRead, ColorTransfer:
		return true
	default:
		return false
	}
}

// StoreOp returns the attachment store operation for the purpose.
func (p ColorPurpose) StoreOp() gputypes.StoreOp {
	if p.PreservesContent() {
		return gputypes.StoreOpStore
	}
	return gputypes.StoreOpDiscard
}

// ColorGridBuilder describes one color grid of a GroupBuilder.
type ColorGridBuilder struct {
	// Format is the pixel format. Undefined selects RGBA8Unorm.
	Format gputypes.TextureFormat

	// Start is applied when a flow using the grid starts.
	Start ColorStartOperation

	// Purpose is what the content is used for after the flow.
	Purpose ColorPurpose
}
