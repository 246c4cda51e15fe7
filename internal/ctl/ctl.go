// Package ctl implements the main event loop for bindbutton: it reconciles
// core and extension button events, keeps per-device grab state up to date,
// and dispatches the user's commands.
package ctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"bindbutton/internal/cfg"
	"bindbutton/internal/log"
	"bindbutton/internal/x11"
)

// xserver is the subset of the X client the controller uses. Tests
// substitute a fake implementation that records calls.
type xserver interface {
	GrabButton(button xproto.Button) error
	GrabDeviceButton(dev *x11.Device, button xproto.Button) error
	GrabDevice(dev *x11.Device) error
	UngrabDevice(dev *x11.Device) error
	ReplayPointer(time xproto.Timestamp) error
	AllowBoth(time xproto.Timestamp) error
	FakeButtonPress(button xproto.Button) error
	NextEvent() (xgb.Event, error)
	PollEvent() (xgb.Event, error)
}

// CommandRunner executes one configured command. Implementations must not
// block; command completion is unordered with respect to later events.
type CommandRunner func(cmd string)

// Controller owns the device registry and binding table and runs the event
// loop. All of its state is mutated on the loop goroutine only.
type Controller struct {
	conf  *cfg.Profile
	x     xserver
	reg   *registry
	binds cfg.Bindings
	run   CommandRunner
}

// New creates a controller over the given devices and bindings.
func New(conf *cfg.Profile, x xserver, devices []x11.Device, run CommandRunner) *Controller {
	return &Controller{
		conf:  conf,
		x:     x,
		reg:   newRegistry(devices),
		binds: conf.Binds,
		run:   run,
	}
}

// Run connects to the X server, discovers devices, installs grabs and
// processes events until the process is signalled or the connection dies.
func Run(conf *cfg.Profile) error {
	x, err := x11.NewClient()
	if err != nil {
		return fmt.Errorf("connect to X server: %w", err)
	}
	defer x.Close()

	devices, err := x.ListDevices(conf.Device)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errors.New("no usable input devices found")
	}

	c := New(conf, &x, devices, RunShell)
	c.setupGrabs()

	errch := make(chan error, 1)
	go c.loop(errch)

	signals := make(chan os.Signal, 8)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	log.Info("Ready.")
	select {
	case sig := <-signals:
		log.Info("Received %s. Shutting down.", sig)
		return nil
	case err := <-errch:
		return err
	}
}

// RunShell executes the given command with the system shell without waiting
// for it to finish. A spawn failure is logged, never fatal.
func RunShell(cmd string) {
	go func() {
		if err := exec.Command("/bin/sh", "-c", cmd).Run(); err != nil {
			log.Error("Command %q failed: %s", cmd, err)
		}
	}()
}

// loop runs dispatch iterations until a fatal connection error occurs.
func (c *Controller) loop(errch chan<- error) {
	for {
		if err := c.tick(); err != nil {
			errch <- err
			return
		}
	}
}

// tick runs one dispatch iteration: pull one event, pull a second only if
// one is already queued, merge the pair if they describe the same physical
// action, then handle whatever remains.
func (c *Controller) tick() error {
	raw, err := c.x.NextEvent()
	if err != nil {
		if errors.Is(err, x11.ErrConnectionDied) {
			return err
		}
		log.Error("X error: %s", err)
		return nil
	}

	var queue eventQueue
	if ev, ok := c.classify(raw); ok {
		queue.push(ev)
	}

	// A device event for the same click may already be waiting behind the
	// core event (or vice versa). Pulling it now gives the merge step a
	// chance to pair them before any handler runs. An event arriving after
	// this check is handled on its own in the next iteration.
	raw, err = c.x.PollEvent()
	if err != nil {
		log.Error("X error: %s", err)
	} else if raw != nil {
		if ev, ok := c.classify(raw); ok {
			queue.push(ev)
		}
	}

	queue.merge()
	for i := 0; i < queue.len; i++ {
		c.handle(queue.buf[i])
	}
	return nil
}

// handle processes one classified event.
func (c *Controller) handle(ev event) {
	if ev.core && ev.press {
		if ev.device != noDevice {
			// The real press was captured together with its device event.
			// Give the application a synthesized click and resume event
			// processing.
			if err := c.x.FakeButtonPress(ev.button); err != nil {
				log.Error("Fake press for button %d: %s", ev.button, err)
			}
			if err := c.x.AllowBoth(ev.time); err != nil {
				log.Error("Allow events: %s", err)
			}
		} else {
			// No device event was paired with this press. Put it back so
			// the click reaches the window that would normally receive it.
			if err := c.x.ReplayPointer(ev.time); err != nil {
				log.Error("Replay pointer: %s", err)
			}
		}
	}
	if ev.device == noDevice {
		return
	}

	dev := &c.reg.devices[ev.device]
	if bind, ok := c.binds[ev.button]; ok {
		if ev.press {
			log.Debug("Press %d on %s: %s", ev.button, dev.Name, bind.Press)
			c.run(bind.Press)
		} else {
			log.Debug("Release %d on %s: %s", ev.button, dev.Name, bind.Release)
			c.run(bind.Release)
		}
	} else {
		// The button was grabbed on this device by number but has no
		// configured action.
		log.Debug("Button %d on %s has no binding", ev.button, dev.Name)
	}

	if ev.press {
		c.pressButton(dev, ev.button)
	} else {
		c.releaseButton(dev, ev.button)
	}
}
