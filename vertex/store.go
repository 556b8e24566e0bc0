package vertex

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gridflow/data"
	"github.com/gogpu/gridflow/internal/logging"
)

// DebugLevel controls how much effort NewStore spends on checking vertex
// data. Higher levels include the checks of all lower levels.
type DebugLevel uint8

const (
	// Minimal only guards against writes that would corrupt the buffer.
	Minimal DebugLevel = iota
	// Low reports attributes a vertex never wrote.
	Low
	// Basic reports positions, texture coordinates and indices out of
	// their declared bounds.
	Basic
	// High reports normals that are not of unit length.
	High
	// All reports vertices sharing a position.
	All
)

func (l DebugLevel) String() string {
	switch l {
	case Minimal:
		return "minimal"
	case Low:
		return "low"
	case Basic:
		return "basic"
	case High:
		return "high"
	case All:
		return "all"
	default:
		return fmt.Sprintf("DebugLevel(%d)", uint8(l))
	}
}

// ParseDebugLevel is the inverse of DebugLevel.String.
func ParseDebugLevel(s string) (DebugLevel, bool) {
	for l := Minimal; l <= All; l++ {
		if l.String() == s {
			return l, true
		}
	}
	return 0, false
}

// Issue is a suspicious value found while storing vertices.
type Issue struct {
	Vertex    int
	Attribute string
	Message   string
}

func (i Issue) String() string {
	return fmt.Sprintf("vertex %d, %s: %s", i.Vertex, i.Attribute, i.Message)
}

// Vertex is implemented by CPU-side vertex types described by D.
type Vertex[D Description] interface {
	// Store writes the attributes of the vertex using the handles of d.
	Store(b *StoreBuilder, d D)
}

// StoreOption configures NewStore.
type StoreOption func(*storeOptions)

type storeOptions struct {
	level  DebugLevel
	logger *slog.Logger
}

// WithDebugLevel sets the debug level. The default is Low.
func WithDebugLevel(l DebugLevel) StoreOption {
	return func(o *storeOptions) { o.level = l }
}

// WithReportLogger sends issues to l instead of the shared gridflow
// logger.
func WithReportLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) { o.logger = l }
}

// StoreBuilder receives the attribute values of one vertex at a time.
type StoreBuilder struct {
	desc    *RawDescription
	level   DebugLevel
	buf     []byte
	vertex  int
	base    int
	written []bool
	issues  []Issue
}

func (b *StoreBuilder) issue(attr, format string, args ...any) {
	b.issues = append(b.issues, Issue{Vertex: b.vertex, Attribute: attr, Message: fmt.Sprintf(format, args...)})
}

// slot returns the bytes of attribute h for the current vertex, or nil
// when the value written does not match the attribute type.
func (b *StoreBuilder) slot(h AttributeHandle, kind data.Kind, components int) []byte {
	a := b.desc.attributes[h.index]
	if a.Type.Kind != kind || a.Type.Shape.Components() != components {
		b.issue(a.Name, "wrote %d %v components to a %v attribute", components, kind, a.Type)
		return nil
	}
	b.written[h.index] = true
	start := b.base + h.offset
	return b.buf[start : start+components*4]
}

func (b *StoreBuilder) putFloats(h AttributeHandle, v ...float32) {
	s := b.slot(h, data.KindFloat, len(v))
	if s == nil {
		return
	}
	for i, f := range v {
		binary.NativeEndian.PutUint32(s[i*4:], math.Float32bits(f))
	}
	if b.level >= Basic {
		b.checkFloats(h, v)
	}
}

// PutInt stores a 32-bit integer.
func (b *StoreBuilder) PutInt(h AttributeHandle, v int32) {
	s := b.slot(h, data.KindInt, 1)
	if s == nil {
		return
	}
	binary.NativeEndian.PutUint32(s, uint32(v)) //nolint:gosec // bit pattern
	if b.level >= Basic {
		b.checkInts(h, v)
	}
}

// PutVec2i stores two 32-bit integers.
func (b *StoreBuilder) PutVec2i(h AttributeHandle, v [2]int32) {
	s := b.slot(h, data.KindInt, 2)
	if s == nil {
		return
	}
	binary.NativeEndian.PutUint32(s, uint32(v[0]))     //nolint:gosec // bit pattern
	binary.NativeEndian.PutUint32(s[4:], uint32(v[1])) //nolint:gosec // bit pattern
	if b.level >= Basic {
		b.checkInts(h, v[0], v[1])
	}
}

// PutFloat stores a 32-bit float.
func (b *StoreBuilder) PutFloat(h AttributeHandle, v float32) { b.putFloats(h, v) }

// PutVec2f stores a two-component float vector.
func (b *StoreBuilder) PutVec2f(h AttributeHandle, v [2]float32) { b.putFloats(h, v[:]...) }

// PutVec3f stores a three-component float vector.
func (b *StoreBuilder) PutVec3f(h AttributeHandle, v [3]float32) { b.putFloats(h, v[:]...) }

// PutVec4f stores a four-component float vector.
func (b *StoreBuilder) PutVec4f(h AttributeHandle, v [4]float32) { b.putFloats(h, v[:]...) }

// PutBool stores a boolean as the 32-bit integer 1 or 0.
func (b *StoreBuilder) PutBool(h AttributeHandle, v bool) {
	s := b.slot(h, data.KindBool, 1)
	if s == nil {
		return
	}
	var u uint32
	if v {
		u = 1
	}
	binary.NativeEndian.PutUint32(s, u)
}

func (b *StoreBuilder) checkFloats(h AttributeHandle, v []float32) {
	a := b.desc.attributes[h.index]
	switch a.Kind.Role {
	case RolePosition:
		for _, f := range v {
			if math.Abs(float64(f)) > float64(a.Kind.Max) {
				b.issue(a.Name, "position component %g exceeds max %g", f, a.Kind.Max)
				return
			}
		}
	case RoleFloatTexCoords:
		for _, f := range v {
			if f < 0 || f > 1 {
				b.issue(a.Name, "texture coordinate %g outside [0, 1]", f)
				return
			}
		}
	case RoleNormal:
		if b.level < High {
			return
		}
		var sq float64
		for _, f := range v {
			sq += float64(f) * float64(f)
		}
		if l := math.Sqrt(sq); math.Abs(l-1) > 0.01 {
			b.issue(a.Name, "normal has length %.3f", l)
		}
	}
}

func (b *StoreBuilder) checkInts(h AttributeHandle, v ...int32) {
	a := b.desc.attributes[h.index]
	switch a.Kind.Role {
	case RoleIntTexCoords:
		for _, i := range v {
			if i < 0 || uint32(i) > a.Kind.TextureSize {
				b.issue(a.Name, "texel coordinate %d outside [0, %d]", i, a.Kind.TextureSize)
				return
			}
		}
	case RoleIndex:
		for _, i := range v {
			if i < 0 || uint32(i) >= a.Kind.Bound {
				b.issue(a.Name, "index %d outside [0, %d)", i, a.Kind.Bound)
				return
			}
		}
	}
}

// Store is the packed vertex data of a list of vertices, ready to be
// transferred to the GPU.
type Store struct {
	desc     *RawDescription
	data     []byte
	vertices int
	issues   []Issue
}

// NewStore packs vertices using desc. Issues found at the configured debug
// level are logged as warnings and kept in the store.
func NewStore[D Description, V Vertex[D]](desc D, vertices []V, opts ...StoreOption) *Store {
	o := storeOptions{level: Low}
	for _, opt := range opts {
		opt(&o)
	}
	raw := desc.Raw()
	b := &StoreBuilder{
		desc:    raw,
		level:   o.level,
		buf:     make([]byte, raw.size*len(vertices)),
		written: make([]bool, len(raw.attributes)),
	}

	for i, v := range vertices {
		b.vertex, b.base = i, i*raw.size
		clear(b.written)
		v.Store(b, desc)
		if o.level >= Low {
			for j, ok := range b.written {
				if !ok {
					b.issue(raw.attributes[j].Name, "attribute was not written")
				}
			}
		}
	}
	if o.level >= All {
		checkDuplicatePositions(b, len(vertices))
	}

	log := logging.Or(o.logger)
	for _, is := range b.issues {
		log.Warn("vertex: suspicious data",
			"vertex", is.Vertex, "attribute", is.Attribute, "issue", is.Message)
	}

	return &Store{desc: raw, data: b.buf, vertices: len(vertices), issues: b.issues}
}

func checkDuplicatePositions(b *StoreBuilder, n int) {
	for _, a := range b.desc.attributes {
		if a.Kind.Role != RolePosition {
			continue
		}
		size := a.Type.Size()
		first := make(map[string]int, n)
		for i := 0; i < n; i++ {
			start := i*b.desc.size + a.Offset
			key := string(b.buf[start : start+size])
			if j, ok := first[key]; ok {
				b.issues = append(b.issues, Issue{
					Vertex: i, Attribute: a.Name,
					Message: fmt.Sprintf("same position as vertex %d", j),
				})
				continue
			}
			first[key] = i
		}
	}
}

// Bytes returns the packed vertex data in native byte order. The slice is
// shared; do not modify it.
func (s *Store) Bytes() []byte { return s.data }

// NumVertices returns the number of stored vertices.
func (s *Store) NumVertices() int { return s.vertices }

// Description returns the layout of the stored vertices.
func (s *Store) Description() *RawDescription { return s.desc }

// Issues returns the problems found while storing.
func (s *Store) Issues() []Issue {
	out := make([]Issue, len(s.issues))
	copy(out, s.issues)
	return out
}
