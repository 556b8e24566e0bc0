// Package vertex packs CPU-side vertices into the byte layout a vertex
// shader reads.
//
// A vertex type comes with a description listing its attributes:
//
//	type quadDesc struct {
//	    vertex.RawDescription
//	    position vertex.AttributeHandle
//	    uv       vertex.AttributeHandle
//	}
//
//	func newQuadDesc() *quadDesc {
//	    d := &quadDesc{}
//	    d.position = d.AddAttribute("position", data.Vec2f, vertex.Position(1))
//	    d.uv = d.AddAttribute("uv", data.Vec2f, vertex.FloatTexCoords())
//	    return d
//	}
//
//	func (v quadVertex) Store(b *vertex.StoreBuilder, d *quadDesc) {
//	    b.PutVec2f(d.position, v.pos)
//	    b.PutVec2f(d.uv, v.uv)
//	}
//
//	store := vertex.NewStore(desc, vertices, vertex.WithDebugLevel(vertex.High))
//
// The debug level controls which sanity checks run. Issues are logged at
// warn level and kept in the store.
package vertex
