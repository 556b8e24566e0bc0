package vertex

import (
	"github.com/gogpu/gridflow/data"
)

// Role says what a vertex attribute is used for. The store uses it to
// recognize suspicious values.
type Role uint8

// Attribute roles.
const (
	RoleOther Role = iota
	RolePosition
	RoleNormal
	RoleFloatTexCoords
	RoleIntTexCoords
	RoleIndex
)

func (r Role) String() string {
	switch r {
	case RolePosition:
		return "position"
	case RoleNormal:
		return "normal"
	case RoleFloatTexCoords:
		return "float_tex_coords"
	case RoleIntTexCoords:
		return "int_tex_coords"
	case RoleIndex:
		return "index"
	default:
		return "other"
	}
}

// AttributeKind is a Role plus the bound that applies to it.
type AttributeKind struct {
	Role Role

	// Max bounds the absolute value of every position component.
	Max float32

	// TextureSize bounds integer texture coordinates.
	TextureSize uint32

	// Bound is the exclusive upper bound of an index attribute.
	Bound uint32
}

// Position is a position whose components stay within [-max, max].
func Position(max float32) AttributeKind { return AttributeKind{Role: RolePosition, Max: max} }

// Normal is a normal vector of unit length.
func Normal() AttributeKind { return AttributeKind{Role: RoleNormal} }

// FloatTexCoords are texture coordinates within [0, 1].
func FloatTexCoords() AttributeKind { return AttributeKind{Role: RoleFloatTexCoords} }

// IntTexCoords are texel coordinates within [0, textureSize].
func IntTexCoords(textureSize uint32) AttributeKind {
	return AttributeKind{Role: RoleIntTexCoords, TextureSize: textureSize}
}

// Index is an index into another array, below bound.
func Index(bound uint32) AttributeKind { return AttributeKind{Role: RoleIndex, Bound: bound} }

// Other is an attribute the store cannot check.
func Other() AttributeKind { return AttributeKind{Role: RoleOther} }

// Attribute is one attribute of a vertex layout.
type Attribute struct {
	Name   string
	Type   data.Type
	Kind   AttributeKind
	Offset int
}

// AttributeHandle identifies an attribute of a RawDescription. Vertices
// pass it to the Put methods of a StoreBuilder.
type AttributeHandle struct {
	index  int
	offset int
}

// Offset returns the byte offset of the attribute within a vertex.
func (h AttributeHandle) Offset() int { return h.offset }
