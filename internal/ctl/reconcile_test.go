package ctl

import (
	"testing"

	"github.com/jezek/xgb/xinput"
	"github.com/jezek/xgb/xproto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bindbutton/internal/cfg"
	"bindbutton/internal/x11"
)

func testDevices() []x11.Device {
	return []x11.Device{
		{Id: 2, Name: "Test Trackball", Buttons: 5, PressType: 66, ReleaseType: 67},
		{Id: 3, Name: "Test Mouse", Buttons: 12, PressType: 66, ReleaseType: 67},
	}
}

func testController(conf *cfg.Profile, srv *fakeServer, run CommandRunner) *Controller {
	if conf.Binds == nil {
		conf.Binds = cfg.Bindings{
			3: {Press: "echo press3", Release: "echo release3"},
		}
	}
	if run == nil {
		run = func(string) {}
	}
	return New(conf, srv, testDevices(), run)
}

func TestCombine(t *testing.T) {
	core := event{press: true, button: 3, device: noDevice, core: true, time: 100}
	dev := event{press: true, button: 3, device: 0, time: 100}

	tests := []struct {
		name          string
		first, second event
		merges        bool
	}{
		{"core then device", core, dev, true},
		{"device then core", dev, core, true},
		{"different timestamp", core, event{press: true, button: 3, device: 0, time: 101}, false},
		{"different button", core, event{press: true, button: 4, device: 0, time: 100}, false},
		{"press and release", core, event{press: false, button: 3, device: 0, time: 100}, false},
		{"two core events", core, core, false},
		{"two device events", dev, dev, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			merged, ok := combine(tc.first, tc.second)
			assert.Equal(t, tc.merges, ok)
			if tc.merges {
				// The merged event is a device event which still carries
				// the core flag so the handler resolves the held press.
				assert.Equal(t, 0, merged.device)
				assert.True(t, merged.core)
				assert.Equal(t, xproto.Timestamp(100), merged.time)
			}
		})
	}
}

func TestQueueMerge(t *testing.T) {
	var queue eventQueue
	queue.push(event{press: true, button: 3, device: noDevice, core: true, time: 100})
	queue.merge()
	assert.Equal(t, 1, queue.len, "single event should not merge")

	queue.push(event{press: true, button: 3, device: 1, time: 100})
	queue.merge()
	require.Equal(t, 1, queue.len)
	assert.Equal(t, 1, queue.buf[0].device)

	queue = eventQueue{}
	queue.push(event{press: true, button: 3, device: noDevice, core: true, time: 100})
	queue.push(event{press: true, button: 4, device: 1, time: 100})
	queue.merge()
	assert.Equal(t, 2, queue.len, "unrelated events should not merge")
}

func TestClassify(t *testing.T) {
	c := testController(&cfg.Profile{}, &fakeServer{}, nil)

	ev, ok := c.classify(xproto.ButtonPressEvent{Detail: 3, Time: 100})
	require.True(t, ok)
	assert.Equal(t, event{press: true, button: 3, device: noDevice, core: true, time: 100}, ev)

	ev, ok = c.classify(xinput.DeviceButtonPressEvent{Detail: 3, DeviceId: 2, Time: 100})
	require.True(t, ok)
	assert.Equal(t, event{press: true, button: 3, device: 0, time: 100}, ev)

	ev, ok = c.classify(xinput.DeviceButtonReleaseEvent{Detail: 3, DeviceId: 3, Time: 101})
	require.True(t, ok)
	assert.Equal(t, event{press: false, button: 3, device: 1, time: 101}, ev)

	// The server sets the high bit of the device id when more events
	// follow; it is not part of the id.
	ev, ok = c.classify(xinput.DeviceButtonPressEvent{Detail: 1, DeviceId: 2 | 0x80, Time: 102})
	require.True(t, ok)
	assert.Equal(t, 0, ev.device)

	_, ok = c.classify(xinput.DeviceButtonPressEvent{Detail: 1, DeviceId: 99, Time: 103})
	assert.False(t, ok, "events from unregistered devices are dropped")

	_, ok = c.classify(xproto.KeyPressEvent{Detail: 38, Time: 104})
	assert.False(t, ok, "unrecognized event types are dropped")
}
