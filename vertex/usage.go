package vertex

import (
	"context"

	"github.com/gogpu/gridflow/pipeline"
)

// UsageKind says whether a vertex buffer is drawn with indices.
type UsageKind uint8

const (
	// WildCard buffers may be drawn with or without indices and with any
	// topology.
	WildCard UsageKind = iota
	// NoIndices buffers are drawn in vertex order.
	NoIndices
	// Indices buffers are drawn through an index buffer.
	Indices
)

// Usage tells a backend how a vertex buffer will be drawn.
type Usage struct {
	Kind     UsageKind
	Topology pipeline.PrimitiveTopology
}

// DrawnWithoutIndices returns the usage of a buffer drawn in vertex order.
func DrawnWithoutIndices(t pipeline.PrimitiveTopology) Usage {
	return Usage{Kind: NoIndices, Topology: t}
}

// DrawnWithIndices returns the usage of a buffer drawn through indices.
func DrawnWithIndices(t pipeline.PrimitiveTopology) Usage {
	return Usage{Kind: Indices, Topology: t}
}

// AnyUsage is the WildCard usage.
var AnyUsage = Usage{Kind: WildCard}

// Allows reports whether a buffer with usage u may be drawn with topology
// t, indexed or not.
func (u Usage) Allows(t pipeline.PrimitiveTopology, indexed bool) bool {
	switch u.Kind {
	case NoIndices:
		return !indexed && u.Topology == t
	case Indices:
		return indexed && u.Topology == t
	default:
		return true
	}
}

// Buffer is a list of vertices in GPU memory, obtained by transferring a
// Store through a gateway.
type Buffer interface {
	// Usage returns the usage the buffer was created with.
	Usage() Usage

	// NumVertices returns the number of vertices, not indices or
	// primitives.
	NumVertices() int

	// IsReady reports whether the buffer can be drawn without waiting.
	IsReady() bool

	// AwaitReady blocks until the buffer is ready or ctx is done.
	AwaitReady(ctx context.Context) error
}
