package pipeline

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gridflow/data"
	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/grid"
	"github.com/gogpu/gridflow/shader"
)

func TestTopology(t *testing.T) {
	tests := []struct {
		topo    PrimitiveTopology
		gpu     gputypes.PrimitiveTopology
		strip   bool
		wantErr bool
	}{
		{PointList, gputypes.PrimitiveTopologyPointList, false, false},
		{LineList, gputypes.PrimitiveTopologyLineList, false, false},
		{LineStrip(true), gputypes.PrimitiveTopologyLineStrip, true, false},
		{TriangleList, gputypes.PrimitiveTopologyTriangleList, false, false},
		{TriangleStrip(false), gputypes.PrimitiveTopologyTriangleStrip, false, false},
		{PrimitiveTopology{Kind: Triangles, PrimitiveRestart: true}, gputypes.PrimitiveTopologyTriangleList, false, true},
		{PrimitiveTopology{Kind: 42}, gputypes.PrimitiveTopologyTriangleList, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.topo.String(), func(t *testing.T) {
			if err := tt.topo.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := tt.topo.GPU(); got != tt.gpu {
				t.Errorf("GPU() = %v, want %v", got, tt.gpu)
			}
			state := tt.topo.PrimitiveState(gputypes.IndexFormatUint16)
			if (state.StripIndexFormat != nil) != tt.strip {
				t.Errorf("StripIndexFormat = %v, want set = %v", state.StripIndexFormat, tt.strip)
			}
			if tt.strip && *state.StripIndexFormat != gputypes.IndexFormatUint16 {
				t.Errorf("StripIndexFormat = %v, want Uint16", *state.StripIndexFormat)
			}
		})
	}
}

func TestParseTopologyKind(t *testing.T) {
	for k := Points; k <= TriangleStrips; k++ {
		got, ok := ParseTopologyKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseTopologyKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseTopologyKind("quads"); ok {
		t.Error("ParseTopologyKind(quads) ok = true")
	}
}

type fixture struct {
	group   *grid.Group
	ids     grid.GroupIDs
	builder *GraphicsPipelineBuilder
}

// lighting is a pipeline sampling a color grid and a depth grid and
// writing one color output.
func lighting(t *testing.T) fixture {
	t.Helper()
	g, ids, err := grid.Declare(&grid.GroupBuilder{
		ColorGrids:        []grid.ColorGridBuilder{{}, {}},
		DepthStencilGrids: []grid.DepthStencilGridBuilder{{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	vs, err := shader.NewVertexShader("light.vs", []shader.Variable{
		{Name: "position", DataType: data.Vec3f, Type: shader.Input},
		{Name: "mvp", DataType: data.Mat4f, Type: shader.UniformInput},
		{Name: "uv", DataType: data.Vec2f, Type: shader.Output},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := shader.NewFragmentShader("light.fs", []shader.Variable{
		{Name: "uv", DataType: data.Vec2f, Type: shader.Input},
		{Name: "albedo", DataType: data.Vec4f, Type: shader.ColorGridInput},
		{Name: "depth", DataType: data.Float, Type: shader.DepthStencilGridInput},
		{Name: "noise", DataType: data.Vec4f, Type: shader.TextureInput},
		{Name: "color", DataType: data.Vec4f, Type: shader.Output},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	pair, err := shader.Link(vs, fs)
	if err != nil {
		t.Fatal(err)
	}
	return fixture{g, ids, &GraphicsPipelineBuilder{Label: "light", Shaders: pair, Topology: TriangleList, Grids: g}}
}

func TestBuilderValidate(t *testing.T) {
	f := lighting(t)
	if err := f.builder.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	empty := &GraphicsPipelineBuilder{Label: "empty"}
	if err := empty.Validate(); !errors.Is(err, ErrInvalidPipeline) {
		t.Errorf("Validate() error = %v, want ErrInvalidPipeline", err)
	}
}

func TestBuilderTask(t *testing.T) {
	f := lighting(t)
	albedo, lit, depth := f.ids.Colors[0], f.ids.Colors[1], f.ids.DepthStencils[0]

	decl, err := f.builder.Task("light", map[string]grid.AbstractGridID{
		"albedo": albedo,
		"depth":  depth,
		"color":  lit,
	}, depth)
	if err != nil {
		t.Fatalf("Task() error = %v", err)
	}
	want := flow.TaskDeclaration{
		Label: "light",
		Inputs: []flow.Input{
			flow.UniformInput("mvp"),
			flow.GridInput(albedo, "albedo"),
			flow.GridInput(depth, "depth"),
			flow.TextureInput("noise"),
		},
		Outputs:      []flow.Output{flow.GridOutput(lit, "color")},
		DepthStencil: depth,
	}
	if diff := cmp.Diff(want, decl); diff != "" {
		t.Errorf("Task() mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.builder.Task("light", map[string]grid.AbstractGridID{"albedo": albedo}, depth); !errors.Is(err, ErrBinding) {
		t.Errorf("Task() with missing grids error = %v, want ErrBinding", err)
	}
}

func TestCheckTask(t *testing.T) {
	f := lighting(t)
	albedo, lit, depth := f.ids.Colors[0], f.ids.Colors[1], f.ids.DepthStencils[0]
	valid := func() flow.TaskDeclaration {
		return flow.TaskDeclaration{
			Inputs: []flow.Input{
				flow.UniformInput("mvp"),
				flow.GridInput(albedo, "albedo"),
				flow.GridInput(depth, "depth"),
				flow.TextureInput("noise"),
			},
			Outputs:      []flow.Output{flow.GridOutput(lit, "color")},
			DepthStencil: depth,
		}
	}

	tests := []struct {
		name   string
		mutate func(d *flow.TaskDeclaration)
	}{
		{"missing input", func(d *flow.TaskDeclaration) { d.Inputs = d.Inputs[:3] }},
		{"extra input", func(d *flow.TaskDeclaration) { d.Inputs = append(d.Inputs, flow.ModelInput("extra")) }},
		{"wrong source", func(d *flow.TaskDeclaration) { d.Inputs[0] = flow.TextureInput("mvp") }},
		{"depth grid as color", func(d *flow.TaskDeclaration) { d.Inputs[1] = flow.GridInput(depth, "albedo") }},
		{"color grid as depth", func(d *flow.TaskDeclaration) { d.Inputs[2] = flow.GridInput(albedo, "depth") }},
		{"unbound output", func(d *flow.TaskDeclaration) { d.Outputs[0].ShaderVariableName = "other" }},
		{"missing output", func(d *flow.TaskDeclaration) { d.Outputs = nil }},
	}
	base := valid()
	if err := f.builder.CheckTask(&base); err != nil {
		t.Fatalf("CheckTask(valid) error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(&d)
			if err := f.builder.CheckTask(&d); !errors.Is(err, ErrBinding) {
				t.Errorf("CheckTask() error = %v, want ErrBinding", err)
			}
		})
	}
}
