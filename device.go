package gridflow

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// NullDevice is a device provider without a GPU. It lets flows, shaders and
// vertex data be prepared headless, e.g. in tests and offline tools.
type NullDevice struct {
	// Name is reported as the adapter name. Empty means "null".
	Name string

	// Format is reported as the surface format. Undefined means headless.
	Format gputypes.TextureFormat
}

var _ gpucontext.DeviceProvider = NullDevice{}

// Device returns nil: there is no device.
func (NullDevice) Device() gpucontext.Device { return nil }

// Queue returns nil: there is no queue.
func (NullDevice) Queue() gpucontext.Queue { return nil }

// Adapter returns nil: there is no adapter.
func (NullDevice) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns d.Format.
func (d NullDevice) SurfaceFormat() gputypes.TextureFormat { return d.Format }

// AdapterInfo reports a software adapter.
func (d NullDevice) AdapterInfo() gpucontext.AdapterInfo {
	name := d.Name
	if name == "" {
		name = "null"
	}
	return gpucontext.AdapterInfo{Name: name, Type: gpucontext.AdapterTypeSoftware}
}
