package gridflow

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gridflow/flow"
	"github.com/gogpu/gridflow/grid"
	"github.com/gogpu/gridflow/internal/logging"
	"github.com/gogpu/gridflow/shader"
)

// InstanceOption configures an Instance during creation.
//
// Example:
//
//	// Headless instance with the default null device
//	inst := gridflow.NewInstance()
//
//	// Instance bound to a window's device
//	inst := gridflow.NewInstance(gridflow.WithDevice(provider))
type InstanceOption func(*instanceOptions)

type instanceOptions struct {
	device          gpucontext.DeviceProvider
	validateShaders bool
	shaderCacheSize int
	logger          *slog.Logger
}

// WithDevice sets the device provider the instance hands to backends.
// The provider's surface format becomes the default format of color grids.
func WithDevice(d gpucontext.DeviceProvider) InstanceOption {
	return func(o *instanceOptions) {
		o.device = d
	}
}

// WithShaderValidation turns naga IR validation on or off for shaders
// created through the instance. Validation is on by default.
func WithShaderValidation(enabled bool) InstanceOption {
	return func(o *instanceOptions) {
		o.validateShaders = enabled
	}
}

// WithShaderCacheSize bounds the number of compiled shader modules kept by
// the shader manager.
func WithShaderCacheSize(n int) InstanceOption {
	return func(o *instanceOptions) {
		o.shaderCacheSize = n
	}
}

// WithLogger overrides the shared gridflow logger for this instance and
// everything it creates.
func WithLogger(l *slog.Logger) InstanceOption {
	return func(o *instanceOptions) {
		o.logger = l
	}
}

// Instance ties together the pieces a frontend needs to describe
// rendering: a device provider, a shader manager and a gateway for vertex
// data. An Instance is safe for concurrent use.
type Instance struct {
	device  gpucontext.DeviceProvider
	shaders *shader.Compiler
	gateway *Gateway
	log     *slog.Logger

	// override is the logger set with WithLogger, or nil.
	override *slog.Logger
}

// NewInstance creates an instance. Without WithDevice it uses a
// NullDevice.
func NewInstance(opts ...InstanceOption) *Instance {
	o := instanceOptions{validateShaders: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil {
		o.device = NullDevice{}
	}
	log := logging.Or(o.logger)

	compilerOpts := []shader.CompilerOption{
		shader.WithValidation(o.validateShaders),
		shader.WithLogger(log),
	}
	if o.shaderCacheSize > 0 {
		compilerOpts = append(compilerOpts, shader.WithCacheSize(o.shaderCacheSize))
	}

	inst := &Instance{
		device:   o.device,
		shaders:  shader.NewCompiler(compilerOpts...),
		gateway:  newGateway(log),
		log:      log,
		override: o.logger,
	}
	propagateLogger(o.device, log)

	info := o.device.AdapterInfo()
	log.Info("gridflow: instance created",
		"adapter", info.Name, "adapter_type", info.Type.String(),
		"surface_format", o.device.SurfaceFormat().String())
	return inst
}

// Device returns the device provider of the instance.
func (i *Instance) Device() gpucontext.DeviceProvider { return i.device }

// ShaderManager returns the shader manager of the instance.
func (i *Instance) ShaderManager() *shader.Compiler { return i.shaders }

// Gateway returns the gateway used to transfer vertex data.
func (i *Instance) Gateway() *Gateway { return i.gateway }

// DeclareGridGroup declares the grids of b. Color grids with an undefined
// format get the device's surface format when the device reports one.
// b itself is not modified.
func (i *Instance) DeclareGridGroup(b *grid.GroupBuilder) (*grid.Group, grid.GroupIDs, error) {
	surface := i.device.SurfaceFormat()
	if surface == gputypes.TextureFormatUndefined {
		return grid.Declare(b)
	}

	resolved := grid.GroupBuilder{
		ColorGrids:        make([]grid.ColorGridBuilder, len(b.ColorGrids)),
		DepthStencilGrids: b.DepthStencilGrids,
	}
	for j, cb := range b.ColorGrids {
		if cb.Format == gputypes.TextureFormatUndefined {
			cb.Format = surface
		}
		resolved.ColorGrids[j] = cb
	}
	return grid.Declare(&resolved)
}

// NewFlowBuilder creates a flow builder that checks bindings against g.
// A logger set with WithLogger is passed on; opts are applied after it.
func (i *Instance) NewFlowBuilder(g *grid.Group, opts ...flow.Option) *flow.Builder {
	if i.override != nil {
		opts = append([]flow.Option{flow.WithLogger(i.override)}, opts...)
	}
	return flow.ForGroup(g, opts...)
}
