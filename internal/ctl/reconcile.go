package ctl

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xinput"
	"github.com/jezek/xgb/xproto"

	"bindbutton/internal/log"
)

// event is a transient record of one observed button action. The same
// physical click can surface twice, once on the core pointer stream and
// once on a device's extension stream; classification and merging collapse
// the pair before the handler runs.
type event struct {
	press  bool
	button xproto.Button
	device int // registry index, or noDevice
	core   bool
	time   xproto.Timestamp
}

// eventQueue buffers the classified events of one dispatch iteration. The
// dispatcher pulls at most two raw events per iteration, so two slots
// suffice.
type eventQueue struct {
	buf [2]event
	len int
}

func (q *eventQueue) push(ev event) {
	if q.len == len(q.buf) {
		panic("event queue overflow")
	}
	q.buf[q.len] = ev
	q.len++
}

// merge collapses the two buffered events into one if they describe the
// same physical action. With fewer than two events buffered there is
// nothing to do.
func (q *eventQueue) merge() {
	if q.len != 2 {
		return
	}
	if merged, ok := combine(q.buf[0], q.buf[1]); ok {
		q.buf[0] = merged
		q.len = 1
	}
}

// combine determines whether two classified events describe the same
// physical action arriving on both the core and extension streams, and
// returns the merged event if so. The pair must agree on direction, button
// and timestamp, and exactly one of the two must be a core event with no
// device while the other is a device event; the order they arrived in does
// not matter. The merged event carries the device reference and keeps the
// core flag so the handler can resolve the held core press.
func combine(first, second event) (event, bool) {
	if first.press != second.press ||
		first.button != second.button ||
		first.time != second.time {
		return event{}, false
	}
	if first.core && first.device == noDevice && !second.core && second.device != noDevice {
		merged := second
		merged.core = true
		return merged, true
	}
	if second.core && second.device == noDevice && !first.core && first.device != noDevice {
		merged := first
		merged.core = true
		return merged, true
	}
	return event{}, false
}

// classify turns one raw X event into a classified event. It reports false
// for event types bindbutton does not recognize and for extension events
// from devices that are not registered; neither reaches the handler.
func (c *Controller) classify(raw xgb.Event) (event, bool) {
	switch evt := raw.(type) {
	case xproto.ButtonPressEvent:
		return event{
			press:  true,
			button: evt.Detail,
			device: noDevice,
			core:   true,
			time:   evt.Time,
		}, true
	case xinput.DeviceButtonPressEvent:
		return c.classifyDevice(true, evt.Detail, evt.DeviceId, evt.Time)
	case xinput.DeviceButtonReleaseEvent:
		return c.classifyDevice(false, evt.Detail, evt.DeviceId, evt.Time)
	default:
		log.Warn("Unknown event %T", raw)
		return event{}, false
	}
}

func (c *Controller) classifyDevice(press bool, detail byte, deviceId byte, time xproto.Timestamp) (event, bool) {
	idx := c.reg.lookup(deviceId)
	if idx == noDevice {
		log.Warn("Event from unregistered device %d", deviceId)
		return event{}, false
	}
	return event{
		press:  press,
		button: xproto.Button(detail),
		device: idx,
		time:   time,
	}, true
}
