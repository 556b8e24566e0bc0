package vertex

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/data"
)

// Description is implemented by the per-vertex-type descriptions users
// write. They typically embed a RawDescription and keep the handles
// returned by AddAttribute.
type Description interface {
	Raw() *RawDescription
}

// RawDescription is the attribute layout of one vertex type. Attributes
// are packed in the order they are added.
type RawDescription struct {
	attributes []Attribute
	size       int
}

// Raw implements Description.
func (d *RawDescription) Raw() *RawDescription { return d }

// AddAttribute appends an attribute at the current end of the vertex and
// returns its handle.
func (d *RawDescription) AddAttribute(name string, typ data.Type, kind AttributeKind) AttributeHandle {
	h := AttributeHandle{index: len(d.attributes), offset: d.size}
	d.attributes = append(d.attributes, Attribute{Name: name, Type: typ, Kind: kind, Offset: d.size})
	d.size += typ.Size()
	return h
}

// Size returns the size of one vertex in bytes.
func (d *RawDescription) Size() int { return d.size }

// Attributes returns a copy of the attributes in layout order.
func (d *RawDescription) Attributes() []Attribute {
	out := make([]Attribute, len(d.attributes))
	copy(out, d.attributes)
	return out
}

// Attribute returns the attribute h refers to.
func (d *RawDescription) Attribute(h AttributeHandle) Attribute { return d.attributes[h.index] }

// Layout returns the gputypes vertex buffer layout of the description.
// Shader locations follow attribute order. Matrix attributes have no
// vertex format and are rejected.
func (d *RawDescription) Layout(step gputypes.VertexStepMode) (gputypes.VertexBufferLayout, error) {
	layout := gputypes.VertexBufferLayout{
		ArrayStride: uint64(d.size), //nolint:gosec // sizes are small and non-negative
		StepMode:    step,
		Attributes:  make([]gputypes.VertexAttribute, 0, len(d.attributes)),
	}
	for i, a := range d.attributes {
		f, ok := a.Type.VertexFormat()
		if !ok {
			return gputypes.VertexBufferLayout{}, fmt.Errorf("vertex: attribute %q of type %v has no vertex format", a.Name, a.Type)
		}
		layout.Attributes = append(layout.Attributes, gputypes.VertexAttribute{
			Format:         f,
			Offset:         uint64(a.Offset), //nolint:gosec // see above
			ShaderLocation: uint32(i),        //nolint:gosec // see above
		})
	}
	return layout, nil
}
