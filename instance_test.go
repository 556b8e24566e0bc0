package gridflow

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/data"
	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/grid"
	"github.com/gogpu/gridflow/pipeline"
	"github.com/gogpu/gridflow/vertex"
)

type loggingDevice struct {
	NullDevice
	logger *slog.Logger
}

func (d *loggingDevice) SetLogger(l *slog.Logger) { d.logger = l }

func TestNullDevice(t *testing.T) {
	var d gpucontext.DeviceProvider = NullDevice{}
	if d.Device() != nil || d.Queue() != nil || d.Adapter() != nil {
		t.Error("NullDevice returned a non-nil handle")
	}
	info := d.AdapterInfo()
	if info.Name != "null" || info.Type != gpucontext.AdapterTypeSoftware {
		t.Errorf("AdapterInfo() = %+v, want null software adapter", info)
	}
	if got := d.SurfaceFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() = %v, want Undefined", got)
	}
}

func TestNewInstanceDefaults(t *testing.T) {
	inst := NewInstance()
	if _, ok := inst.Device().(NullDevice); !ok {
		t.Errorf("Device() = %T, want NullDevice", inst.Device())
	}
	if inst.ShaderManager() == nil || inst.Gateway() == nil {
		t.Fatal("instance is missing its shader manager or gateway")
	}
}

func TestInstanceLogger(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dev := &loggingDevice{NullDevice: NullDevice{Name: "test"}}

	inst := NewInstance(WithDevice(dev), WithLogger(l))
	if dev.logger != l {
		t.Error("logger was not propagated to the device")
	}
	if !strings.Contains(buf.String(), "adapter=test") {
		t.Errorf("instance creation was not logged: %s", buf.String())
	}

	group, ids, err := inst.DeclareGridGroup(&grid.GroupBuilder{
		ColorGrids:        []grid.ColorGridBuilder{{}},
		DepthStencilGrids: []grid.DepthStencilGridBuilder{{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b := inst.NewFlowBuilder(group)
	if _, err := b.AddGridNode(ids.Colors[0], false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "flow: grid node registered") {
		t.Errorf("builder does not log through the instance logger: %s", buf.String())
	}
}

func TestDeclareGridGroupSurfaceFormat(t *testing.T) {
	b := &grid.GroupBuilder{
		ColorGrids: []grid.ColorGridBuilder{
			{},
			{Format: gputypes.TextureFormatRGBA16Float},
		},
		DepthStencilGrids: []grid.DepthStencilGridBuilder{{}},
	}

	tests := []struct {
		name   string
		device NullDevice
		want   gputypes.TextureFormat
	}{
		{"headless", NullDevice{}, gputypes.TextureFormatRGBA8Unorm},
		{"surface", NullDevice{Format: gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatBGRA8Unorm},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := NewInstance(WithDevice(tt.device))
			group, ids, err := inst.DeclareGridGroup(b)
			if err != nil {
				t.Fatal(err)
			}
			d0, _ := group.Grid(ids.Colors[0])
			d1, _ := group.Grid(ids.Colors[1])
			if d0.Format != tt.want {
				t.Errorf("default color format = %v, want %v", d0.Format, tt.want)
			}
			if d1.Format != gputypes.TextureFormatRGBA16Float {
				t.Errorf("explicit color format = %v, want RGBA16Float", d1.Format)
			}
		})
	}
	if b.ColorGrids[0].Format != gputypes.TextureFormatUndefined {
		t.Error("DeclareGridGroup modified the caller's builder")
	}
}

func TestInstanceFlow(t *testing.T) {
	inst := NewInstance()
	group, ids, err := inst.DeclareGridGroup(&grid.GroupBuilder{
		ColorGrids:        []grid.ColorGridBuilder{{Purpose: grid.ColorDisplay}},
		DepthStencilGrids: []grid.DepthStencilGridBuilder{{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b := inst.NewFlowBuilder(group, flow.WithLabel("quad"))
	for _, d := range group.Grids() {
		if _, err := b.AddGridNode(d.ID, d.PreserveInitialContent); err != nil {
			t.Fatal(err)
		}
	}
	_, err = b.AddRenderTask(flow.TaskDeclaration{
		Inputs:       []flow.Input{flow.ModelInput("position")},
		Outputs:      []flow.Output{flow.GridOutput(ids.Colors[0], "color")},
		DepthStencil: ids.DepthStencils[0],
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := b.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if f.Label() != "quad" || f.MaxMoment() != 1 {
		t.Errorf("flow = %q with max moment %d, want quad with 1", f.Label(), f.MaxMoment())
	}

	// The builder checks kinds against the group.
	b = inst.NewFlowBuilder(group)
	for _, d := range group.Grids() {
		_, _ = b.AddGridNode(d.ID, false)
	}
	_, err = b.AddRenderTask(flow.TaskDeclaration{
		Outputs:      []flow.Output{flow.GridOutput(ids.DepthStencils[0], "color")},
		DepthStencil: ids.DepthStencils[0],
	})
	if !errors.Is(err, flow.ErrKindMismatch) {
		t.Errorf("AddRenderTask() error = %v, want ErrKindMismatch", err)
	}
}

type quadDesc struct {
	vertex.RawDescription
	position vertex.AttributeHandle
}

type quadVertex [2]float32

func (v quadVertex) Store(b *vertex.StoreBuilder, d *quadDesc) {
	b.PutVec2f(d.position, v)
}

func TestTransferVertices(t *testing.T) {
	d := &quadDesc{}
	d.position = d.AddAttribute("position", data.Vec2f, vertex.Position(1))
	store := vertex.NewStore(d, []quadVertex{{-1, -1}, {1, -1}, {0, 1}})

	gw := NewInstance().Gateway()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	usage := vertex.DrawnWithoutIndices(pipeline.TriangleList)
	vb, err := gw.TransferVertices(ctx, store, usage)
	if err != nil {
		t.Fatalf("TransferVertices() error = %v", err)
	}
	if !vb.IsReady() {
		t.Error("IsReady() = false after TransferVertices")
	}
	if err := vb.AwaitReady(ctx); err != nil {
		t.Fatalf("AwaitReady() error = %v", err)
	}
	if vb.NumVertices() != 3 || vb.Usage() != usage {
		t.Errorf("buffer = %d vertices, usage %+v", vb.NumVertices(), vb.Usage())
	}

	hb := vb.(*HostBuffer)
	raw, err := hb.Bytes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 3*hb.Stride() || hb.Stride() != 8 {
		t.Fatalf("len = %d, stride = %d", len(raw), hb.Stride())
	}
	if got := math.Float32frombits(binary.NativeEndian.Uint32(raw[16:])); got != 0 {
		t.Errorf("third vertex x = %v, want 0", got)
	}

	if count, n := gw.Transfers(); count != 1 || n != 24 {
		t.Errorf("Transfers() = %d, %d, want 1, 24", count, n)
	}
}

func TestTransferVerticesErrors(t *testing.T) {
	gw := NewInstance().Gateway()
	if _, err := gw.TransferVertices(context.Background(), nil, vertex.AnyUsage); !errors.Is(err, ErrNilStore) {
		t.Errorf("nil store error = %v, want ErrNilStore", err)
	}

	d := &quadDesc{}
	d.position = d.AddAttribute("position", data.Vec2f, vertex.Position(1))
	store := vertex.NewStore(d, []quadVertex{{0, 0}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := gw.TransferVertices(ctx, store, vertex.AnyUsage); !errors.Is(err, context.Canceled) {
		t.Errorf("canceled ctx error = %v, want context.Canceled", err)
	}

	bad := vertex.DrawnWithIndices(pipeline.PrimitiveTopology{Kind: pipeline.Points, PrimitiveRestart: true})
	if _, err := gw.TransferVertices(context.Background(), store, bad); !errors.Is(err, pipeline.ErrInvalidPipeline) {
		t.Errorf("bad topology error = %v, want ErrInvalidPipeline", err)
	}
}
