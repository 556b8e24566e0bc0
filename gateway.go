package gridflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gridflow/vertex"
)

// ErrNilStore is returned when a nil vertex store is transferred.
var ErrNilStore = errors.New("gridflow: nil vertex store")

// Gateway moves data from the host into buffers a backend can draw from.
// A Gateway is safe for concurrent use.
type Gateway struct {
	log       *slog.Logger
	transfers atomic.Uint64
	bytes     atomic.Uint64
}

func newGateway(log *slog.Logger) *Gateway {
	return &Gateway{log: log}
}

// TransferVertices copies the vertices of store into a new buffer with the
// given usage. A HostBuffer is ready as soon as TransferVertices returns;
// backends that upload asynchronously report readiness through IsReady
// and AwaitReady instead. The store may be
// reused once TransferVertices returns.
func (g *Gateway) TransferVertices(ctx context.Context, store *vertex.Store, usage vertex.Usage) (vertex.Buffer, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if usage.Kind != vertex.WildCard {
		if err := usage.Topology.Validate(); err != nil {
			return nil, fmt.Errorf("gridflow: transfer vertices: %w", err)
		}
	}

	src := store.Bytes()
	buf := &HostBuffer{
		usage:    usage,
		vertices: store.NumVertices(),
		stride:   store.Description().Size(),
		ready:    make(chan struct{}),
	}
	buf.data = make([]byte, len(src))
	copy(buf.data, src)
	close(buf.ready)

	n := g.transfers.Add(1)
	g.bytes.Add(uint64(len(src)))
	g.log.Debug("gridflow: vertices transferred",
		"transfer", n, "vertices", buf.vertices, "bytes", len(src))
	return buf, nil
}

// Transfers returns the number of transfers and the total number of bytes
// transferred so far.
func (g *Gateway) Transfers() (count, bytes uint64) {
	return g.transfers.Load(), g.bytes.Load()
}

// HostBuffer is the vertex buffer returned by a Gateway. It keeps its data
// in host memory until a backend uploads it.
type HostBuffer struct {
	usage    vertex.Usage
	vertices int
	stride   int
	data     []byte
	ready    chan struct{}
}

var _ vertex.Buffer = (*HostBuffer)(nil)

// Usage returns the usage the buffer was created with.
func (b *HostBuffer) Usage() vertex.Usage { return b.usage }

// NumVertices returns the number of vertices in the buffer.
func (b *HostBuffer) NumVertices() int { return b.vertices }

// Stride returns the size of one vertex in bytes.
func (b *HostBuffer) Stride() int { return b.stride }

// IsReady reports whether the copy has completed.
func (b *HostBuffer) IsReady() bool {
	select {
	case <-b.ready:
		return true
	default:
		return false
	}
}

// AwaitReady blocks until the copy has completed or ctx is done.
func (b *HostBuffer) AwaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bytes waits for the copy and returns the buffer contents.
func (b *HostBuffer) Bytes(ctx context.Context) ([]byte, error) {
	if err := b.AwaitReady(ctx); err != nil {
		return nil, err
	}
	return b.data, nil
}
