// Package x11 provides a simple client for interacting with the X server to
// grab mouse buttons, receive core and extension button events, and send
// fake inputs.
package x11

import (
	"errors"
	"fmt"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xinput"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgb/xtest"
)

// Error types
var (
	ErrConnectionDied = errors.New("connection with X server closed")
)

// Grab error names, indexed by grab status.
var grabStatusNames = []string{
	"success",
	"already grabbed",
	"invalid time",
	"not viewable",
	"frozen",
}

// The XInput protocol encodes "use the core keyboard" as device 0xff in
// grab requests.
const coreKeyboard byte = 0xff

// Client maintains a connection with the X server and performs tasks like
// grabbing devices and sending fake inputs.
type Client struct {
	conn *xgb.Conn     // The X server connection
	root xproto.Window // Root window
}

// NewClient attempts to create a new Client. It fails if the XInput or
// XTEST extensions are not present on the server.
func NewClient() (Client, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return Client{}, err
	}
	if err := xinput.Init(conn); err != nil {
		conn.Close()
		return Client{}, fmt.Errorf("init XInput: %w", err)
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return Client{}, fmt.Errorf("init XTEST: %w", err)
	}
	root := xproto.Setup(conn).DefaultScreen(conn).Root
	return Client{conn, root}, nil
}

// Close closes the connection with the X server. Any active grabs are
// released by the server when the connection goes away.
func (c *Client) Close() {
	c.conn.Close()
}

// GetRootWindow returns the ID of the root window.
func (c *Client) GetRootWindow() xproto.Window {
	return c.root
}

// GrabButton installs a synchronous grab for the given button on the root
// window. Presses of the button freeze the core pointer stream until they
// are resolved with ReplayPointer or AllowBoth.
func (c *Client) GrabButton(button xproto.Button) error {
	return xproto.GrabButtonChecked(
		c.conn,
		false,
		c.root,
		uint16(xproto.EventMaskButtonPress),
		xproto.GrabModeSync,
		xproto.GrabModeAsync,
		xproto.WindowNone,
		xproto.CursorNone,
		byte(button),
		xproto.ModMaskAny,
	).Check()
}

// UngrabButton removes the core grab for the given button.
func (c *Client) UngrabButton(button xproto.Button) error {
	return xproto.UngrabButtonChecked(
		c.conn,
		byte(button),
		c.root,
		xproto.ModMaskAny,
	).Check()
}

// GrabDeviceButton installs an asynchronous grab for the given button on
// one extension device, restricted to the device's press/release event
// classes.
func (c *Client) GrabDeviceButton(dev *Device, button xproto.Button) error {
	return xinput.GrabDeviceButtonChecked(
		c.conn,
		c.root,
		dev.Id,
		coreKeyboard,
		uint16(len(dev.Classes)),
		xproto.ModMaskAny,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		byte(button),
		false,
		dev.Classes[:],
	).Check()
}

// GrabDevice grabs an entire extension device, diverting all of its
// configured button events to bindbutton.
func (c *Client) GrabDevice(dev *Device) error {
	reply, err := xinput.GrabDevice(
		c.conn,
		c.root,
		xproto.TimeCurrentTime,
		uint16(len(dev.Classes)),
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		false,
		dev.Id,
		dev.Classes[:],
	).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return errors.New(grabStatusName(reply.Status))
	}
	return nil
}

// UngrabDevice releases a device grab.
func (c *Client) UngrabDevice(dev *Device) error {
	return xinput.UngrabDeviceChecked(
		c.conn,
		xproto.TimeCurrentTime,
		dev.Id,
	).Check()
}

// ReplayPointer releases the core press currently held by the synchronous
// button grab, redelivering it to whatever window would normally have
// received it.
func (c *Client) ReplayPointer(time xproto.Timestamp) error {
	return xproto.AllowEventsChecked(c.conn, xproto.AllowReplayPointer, time).Check()
}

// AllowBoth releases the core press currently held by the synchronous
// button grab and resumes normal event processing without redelivery.
func (c *Client) AllowBoth(time xproto.Timestamp) error {
	return xproto.AllowEventsChecked(c.conn, xproto.AllowAsyncBoth, time).Check()
}

// FakeButtonPress synthesizes a core button press indistinguishable from a
// real hardware event for receiving applications.
func (c *Client) FakeButtonPress(button xproto.Button) error {
	return xtest.FakeInputChecked(
		c.conn,
		xproto.ButtonPress,
		byte(button),
		uint32(xproto.TimeCurrentTime),
		c.root,
		0,
		0,
		0,
	).Check()
}

// NextEvent blocks until the next event arrives on the connection. X
// protocol errors are returned as regular errors; a closed connection is
// reported as ErrConnectionDied.
func (c *Client) NextEvent() (xgb.Event, error) {
	evt, err := c.conn.WaitForEvent()
	if evt == nil && err == nil {
		return nil, ErrConnectionDied
	}
	if err != nil {
		return nil, err
	}
	return evt, nil
}

// PollEvent returns the next event only if one is already queued on the
// connection. It never blocks; (nil, nil) means no event was pending.
func (c *Client) PollEvent() (xgb.Event, error) {
	evt, err := c.conn.PollForEvent()
	if err != nil {
		return nil, err
	}
	return evt, nil
}

// grabStatusName returns a readable name for a grab reply status.
func grabStatusName(status byte) string {
	if int(status) >= len(grabStatusNames) {
		return fmt.Sprintf("unknown grab status %d", status)
	}
	return grabStatusNames[status]
}
