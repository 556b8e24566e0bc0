package pipeline

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// TopologyKind says how consecutive vertices (or indices) form primitives.
type TopologyKind uint8

const (
	// Points draws a point at every vertex.
	Points TopologyKind = iota
	// Lines draws a line between vertices 0-1, 2-3, 4-5, ...
	Lines
	// LineStrips draws a line between vertices 0-1, 1-2, 2-3, ...
	LineStrips
	// Triangles draws triangles 0-1-2, 3-4-5, ...
	Triangles
	// TriangleStrips draws triangles 0-1-2, 1-2-3, 2-3-4, ...
	TriangleStrips
)

func (k TopologyKind) String() string {
	switch k {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrips:
		return "line_strips"
	case Triangles:
		return "triangles"
	case TriangleStrips:
		return "triangle_strips"
	default:
		return fmt.Sprintf("TopologyKind(%d)", uint8(k))
	}
}

// ParseTopologyKind is the inverse of TopologyKind.String.
func ParseTopologyKind(s string) (TopologyKind, bool) {
	for k := Points; k <= TriangleStrips; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// IsStrip reports whether k is LineStrips or TriangleStrips.
func (k TopologyKind) IsStrip() bool { return k == LineStrips || k == TriangleStrips }

// PrimitiveTopology is a topology kind plus, for strips, whether the
// maximum index value restarts the strip.
type PrimitiveTopology struct {
	Kind             TopologyKind
	PrimitiveRestart bool
}

// Topologies without options.
var (
	PointList    = PrimitiveTopology{Kind: Points}
	LineList     = PrimitiveTopology{Kind: Lines}
	TriangleList = PrimitiveTopology{Kind: Triangles}
)

// LineStrip returns a line strip topology.
func LineStrip(primitiveRestart bool) PrimitiveTopology {
	return PrimitiveTopology{Kind: LineStrips, PrimitiveRestart: primitiveRestart}
}

// TriangleStrip returns a triangle strip topology.
func TriangleStrip(primitiveRestart bool) PrimitiveTopology {
	return PrimitiveTopology{Kind: TriangleStrips, PrimitiveRestart: primitiveRestart}
}

// Validate rejects unknown kinds and primitive restart on list topologies.
func (t PrimitiveTopology) Validate() error {
	if t.Kind > TriangleStrips {
		return fmt.Errorf("%w: unknown topology %v", ErrInvalidPipeline, t.Kind)
	}
	if t.PrimitiveRestart && !t.Kind.IsStrip() {
		return fmt.Errorf("%w: primitive restart needs a strip topology, got %v", ErrInvalidPipeline, t.Kind)
	}
	return nil
}

// GPU returns the matching gputypes topology.
func (t PrimitiveTopology) GPU() gputypes.PrimitiveTopology {
	switch t.Kind {
	case Points:
		return gputypes.PrimitiveTopologyPointList
	case Lines:
		return gputypes.PrimitiveTopologyLineList
	case LineStrips:
		return gputypes.PrimitiveTopologyLineStrip
	case TriangleStrips:
		return gputypes.PrimitiveTopologyTriangleStrip
	default:
		return gputypes.PrimitiveTopologyTriangleList
	}
}

// PrimitiveState returns the gputypes primitive state for t. Strips with
// primitive restart get a strip index format, using index as the width of
// the restart value.
func (t PrimitiveTopology) PrimitiveState(index gputypes.IndexFormat) gputypes.PrimitiveState {
	state := gputypes.PrimitiveState{Topology: t.GPU()}
	if t.PrimitiveRestart && t.Kind.IsStrip() {
		f := index
		if f == gputypes.IndexFormatUndefined {
			f = gputypes.IndexFormatUint32
		}
		state.StripIndexFormat = &f
	}
	return state
}

func (t PrimitiveTopology) String() string {
	if t.PrimitiveRestart {
		return t.Kind.String() + "+restart"
	}
	return t.Kind.String()
}
