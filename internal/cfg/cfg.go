// Package cfg allows for reading the user's configuration.
package cfg

import (
	"errors"
	"fmt"
	"os"

	"bindbutton/internal/res"

	"github.com/BurntSushi/toml"
	"github.com/jezek/xgb/xproto"
)

// Environment variables read once at startup.
const (
	envConfig  = "BINDBUTTON_CONFIG"
	envDebug   = "BINDBUTTON_DEBUG"
	envDevice  = "BINDBUTTON_DEVICE"
	envGrabAll = "BINDBUTTON_GRAB_ALL"
)

// Profile contains an entire configuration profile.
type Profile struct {
	Debug   bool   `toml:"debug"`    // Raise log verbosity to debug
	GrabAll bool   `toml:"grab_all"` // Grab whole devices for their lifetime
	Device  string `toml:"device"`   // Case-insensitive device name filter

	Binds Bindings `toml:"-"`
}

// bind is the on-disk form of a single binding.
type bind struct {
	Button  int    `toml:"button"`
	Press   string `toml:"press"`
	Release string `toml:"release"`
}

// fileProfile is the on-disk form of a Profile.
type fileProfile struct {
	Profile
	Binds []bind `toml:"bind"`
}

// FromEnv builds a Profile from the environment toggles alone.
func FromEnv() Profile {
	var conf Profile
	conf.applyEnv()
	return conf
}

// GetDirectory returns the path to the user's configuration directory.
func GetDirectory() (string, error) {
	// UserConfigDir automatically checks for $XDG_CONFIG_HOME and falls back
	// to $HOME/.config, so we don't need to do any special checks ourselves.
	xdgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return xdgDir + "/bindbutton/", nil
}

// GetPath returns the path of the configuration file to read: the
// BINDBUTTON_CONFIG environment variable if set, the default location
// otherwise.
func GetPath() (string, error) {
	if path, ok := os.LookupEnv(envConfig); ok {
		return path, nil
	}
	dir, err := GetDirectory()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}
	return dir + "bindbutton.toml", nil
}

// GetProfile returns the parsed configuration profile at the given path.
// Environment toggles override the file's settings.
func GetProfile(path string) (Profile, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read config file: %w", err)
	}
	profile, err := ParseProfile(file)
	if err != nil {
		return Profile{}, fmt.Errorf("parse config file: %w", err)
	}
	profile.applyEnv()
	return profile, nil
}

// MakeProfile writes the default configuration to the default location.
func MakeProfile() (string, error) {
	dir, err := GetDirectory()
	if err != nil {
		return "", fmt.Errorf("get config directory: %w", err)
	}
	stat, err := os.Stat(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("stat config directory: %w", err)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("create config directory: %w", err)
		}
	} else if !stat.IsDir() {
		return "", fmt.Errorf("config directory (%s) is not a directory", dir)
	}
	path := dir + "bindbutton.toml"
	return path, os.WriteFile(path, res.DefaultConfig, 0644)
}

// ParseProfile parses a configuration profile.
func ParseProfile(data []byte) (Profile, error) {
	var file fileProfile
	if err := toml.Unmarshal(data, &file); err != nil {
		return Profile{}, err
	}
	profile := file.Profile
	profile.Binds = make(Bindings, len(file.Binds))
	for _, b := range file.Binds {
		if b.Button < 1 || b.Button > 255 {
			return Profile{}, fmt.Errorf("button %d out of range (1-255)", b.Button)
		}
		button := xproto.Button(b.Button)
		if _, ok := profile.Binds[button]; ok {
			return Profile{}, fmt.Errorf("duplicate binding for button %d", b.Button)
		}
		profile.Binds[button] = Command{Press: b.Press, Release: b.Release}
	}
	if len(profile.Binds) == 0 {
		return Profile{}, errors.New("no bindings configured")
	}
	return profile, nil
}

// applyEnv applies the environment toggles on top of the profile.
func (p *Profile) applyEnv() {
	if os.Getenv(envDebug) != "" {
		p.Debug = true
	}
	if os.Getenv(envGrabAll) != "" {
		p.GrabAll = true
	}
	if device := os.Getenv(envDevice); device != "" {
		p.Device = device
	}
}
