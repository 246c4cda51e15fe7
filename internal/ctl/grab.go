package ctl

import (
	"github.com/jezek/xgb/xproto"
	"golang.org/x/exp/slices"

	"bindbutton/internal/log"
)

// setupGrabs installs the startup grabs: a synchronous core grab for every
// bound button, and an asynchronous per-device grab for the same button on
// every device with enough buttons. In grab-all mode every device is
// additionally grabbed outright for the lifetime of the process.
//
// A failed grab is logged and skipped; events for that button or device are
// simply not intercepted.
func (c *Controller) setupGrabs() {
	buttons := make([]xproto.Button, 0, len(c.binds))
	for button := range c.binds {
		buttons = append(buttons, button)
	}
	slices.Sort(buttons)

	for _, button := range buttons {
		if err := c.x.GrabButton(button); err != nil {
			log.Error("Grab button %d: %s", button, err)
		}
		for i := range c.reg.devices {
			dev := &c.reg.devices[i]
			if button > xproto.Button(dev.Buttons) {
				continue
			}
			if err := c.x.GrabDeviceButton(&dev.Device, button); err != nil {
				log.Error("Grab button %d on device %s: %s", button, dev.Name, err)
			}
		}
	}

	if c.conf.GrabAll {
		for i := range c.reg.devices {
			dev := &c.reg.devices[i]
			if err := c.x.GrabDevice(&dev.Device); err != nil {
				log.Error("Grab device %s: %s", dev.Name, err)
			}
		}
	}
}

// pressButton records a press of a bound button on a device, grabbing the
// device if this is the first button held on it.
func (c *Controller) pressButton(dev *Device, button xproto.Button) {
	if !c.conf.GrabAll && len(dev.held) == 0 {
		if err := c.x.GrabDevice(&dev.Device); err != nil {
			log.Error("Grab device %s: %s", dev.Name, err)
		}
	}
	dev.held[button] = true
}

// releaseButton records a release on a device, releasing the device grab
// once no held buttons remain. A release with no matching press leaves the
// grab state untouched.
func (c *Controller) releaseButton(dev *Device, button xproto.Button) {
	if !dev.held[button] {
		return
	}
	delete(dev.held, button)
	if !c.conf.GrabAll && len(dev.held) == 0 {
		if err := c.x.UngrabDevice(&dev.Device); err != nil {
			log.Error("Ungrab device %s: %s", dev.Name, err)
		}
	}
}
