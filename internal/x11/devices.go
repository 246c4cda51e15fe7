package x11

import (
	"fmt"
	"strings"

	"bindbutton/internal/log"

	"github.com/jezek/xgb/xinput"
)

// Device type bit carried by extension device events alongside the id.
const deviceIdMask byte = 0x7f

// Device describes one extension input device capable of generating button
// events. The identity fields are immutable once discovered.
type Device struct {
	Id      byte   // XInput device id
	Name    string // Device name as reported by the server
	Buttons byte   // Number of buttons on the device

	// Extension event type codes recognizing this device's press/release
	// notifications.
	PressType   byte
	ReleaseType byte

	// The two event classes used when grabbing the device.
	Classes [2]xinput.EventClass
}

// ListDevices enumerates the extension devices which can generate button
// events, opens each one and registers its press/release event classes.
// The core pointer and keyboard are skipped; their events arrive on the
// core stream. A non-empty filter restricts the result to devices whose
// name contains it, case-insensitively.
func (c *Client) ListDevices(filter string) ([]Device, error) {
	reply, err := xinput.ListInputDevices(c.conn).Reply()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	var devices []Device
	for i, info := range reply.Devices {
		if info.DeviceUse == xinput.DeviceUseIsXKeyboard ||
			info.DeviceUse == xinput.DeviceUseIsXPointer {
			continue
		}
		var name string
		if i < len(reply.Names) {
			name = reply.Names[i].Name
		}
		if !matchName(name, filter) {
			continue
		}

		// Non-button devices answer GetDeviceButtonMapping with an error.
		mapping, err := xinput.GetDeviceButtonMapping(c.conn, info.DeviceId).Reply()
		if err != nil || mapping.MapSize == 0 {
			continue
		}

		dev := Device{
			Id:      info.DeviceId,
			Name:    name,
			Buttons: mapping.MapSize,
		}
		open, err := xinput.OpenDevice(c.conn, info.DeviceId).Reply()
		if err != nil {
			log.Warn("Opening device %s failed: %s", name, err)
			continue
		}
		if !dev.registerClasses(open.ClassInfo) {
			log.Warn("Device %s reported no button class", name)
			xinput.CloseDevice(c.conn, info.DeviceId)
			continue
		}
		devices = append(devices, dev)
		log.Debug("Found device %d (%s) with %d buttons", dev.Id, dev.Name, dev.Buttons)
	}
	return devices, nil
}

// registerClasses fills in the press/release event types and grab classes
// from an OpenDevice reply. It reports whether a button class was present.
func (d *Device) registerClasses(classes []xinput.InputClassInfo) bool {
	for _, class := range classes {
		if class.ClassId != xinput.InputClassButton {
			continue
		}
		// The button class event type base points at the device's press
		// notification; the release notification follows it.
		d.PressType = class.EventTypeBase
		d.ReleaseType = class.EventTypeBase + 1
		d.Classes = [2]xinput.EventClass{
			eventClass(d.Id, d.PressType),
			eventClass(d.Id, d.ReleaseType),
		}
		return true
	}
	return false
}

// SourceId strips the more-events bit from a device id carried by an
// extension event.
func SourceId(id byte) byte {
	return id & deviceIdMask
}

// eventClass packs a device id and event type code into the event class
// form used by grab requests.
func eventClass(deviceId byte, eventType byte) xinput.EventClass {
	return xinput.EventClass(uint32(deviceId)<<8 | uint32(eventType))
}

// matchName reports whether a device name passes the configured filter. An
// empty filter matches everything.
func matchName(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
