package ctl

import (
	"github.com/jezek/xgb/xproto"

	"bindbutton/internal/x11"
)

// noDevice marks an event which carries no device reference.
const noDevice = -1

// Device is one registered input device together with its interception
// state. The embedded identity is immutable; held is mutated only by the
// grab controller as presses and releases are observed.
type Device struct {
	x11.Device

	// The buttons currently pressed on this device. A device-level grab is
	// active iff held is non-empty (when grab-all mode is off).
	held map[xproto.Button]bool
}

// registry holds the enumerated set of extension devices for the lifetime
// of the controller. Events reference devices by index into the registry so
// no reference can outlive it.
type registry struct {
	devices []Device
	byId    map[byte]int
}

func newRegistry(devices []x11.Device) *registry {
	r := registry{
		devices: make([]Device, 0, len(devices)),
		byId:    make(map[byte]int, len(devices)),
	}
	for _, dev := range devices {
		r.byId[dev.Id] = len(r.devices)
		r.devices = append(r.devices, Device{
			Device: dev,
			held:   make(map[xproto.Button]bool),
		})
	}
	return &r
}

// lookup returns the registry index for an XInput device id, or noDevice if
// the id does not belong to a registered device.
func (r *registry) lookup(id byte) int {
	if idx, ok := r.byId[x11.SourceId(id)]; ok {
		return idx
	}
	return noDevice
}
