package main

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"bindbutton/internal/cfg"
	"bindbutton/internal/ctl"
	"bindbutton/internal/log"
	"bindbutton/internal/ui"
	"bindbutton/internal/x11"
)

//go:embed .version
var version string

func main() {
	logPath, ok := os.LookupEnv("BINDBUTTON_LOG_PATH")
	if !ok {
		logPath = "/tmp/bindbutton.log"
	}
	conf := cfg.FromEnv()
	level := log.INFO
	if conf.Debug {
		level = log.DEBUG
	}
	if err := log.Setup(level, logPath); err != nil {
		fmt.Printf("Failed to set up logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printHelp()
	case "--version", "version":
		fmt.Println("bindbutton", strings.TrimSpace(version))
	case "devices":
		cmdDevices(conf, len(os.Args) > 2 && os.Args[2] == "--plain")
	case "new":
		path, err := cfg.MakeProfile()
		if err != nil {
			log.Error("Failed to make config: %s", err)
			os.Exit(1)
		}
		log.Info("Wrote default config to %s", path)
	case "run":
		cmdRunConfig(os.Args[2:])
	default:
		cmdRun(conf, os.Args[1:])
	}
}

// cmdDevices lists the usable button devices, interactively unless plain
// output was requested.
func cmdDevices(conf cfg.Profile, plain bool) {
	x, err := x11.NewClient()
	if err != nil {
		log.Error("Failed to connect to X server: %s", err)
		os.Exit(1)
	}
	defer x.Close()
	devices, err := x.ListDevices(conf.Device)
	if err != nil {
		log.Error("Failed to list devices: %s", err)
		os.Exit(1)
	}
	if len(devices) == 0 {
		log.Error("No usable input devices found")
		os.Exit(1)
	}
	if plain {
		fmt.Printf("%-5s %-8s %s\n", "ID", "Buttons", "Name")
		for _, dev := range devices {
			fmt.Printf("%-5d %-8d %s\n", dev.Id, dev.Buttons, dev.Name)
		}
		return
	}
	if err := tea.NewProgram(ui.NewModel(devices)).Start(); err != nil {
		log.Error("Failed to run device browser: %s", err)
		os.Exit(1)
	}
}

// cmdRun runs the binder with bindings parsed from the command line.
func cmdRun(conf cfg.Profile, args []string) {
	binds, err := cfg.ParseArgs(args)
	if err != nil {
		fmt.Println("Error:", err)
		printHelp()
		os.Exit(1)
	}
	conf.Binds = binds
	runBinder(&conf)
}

// cmdRunConfig runs the binder with bindings read from the configuration
// file.
func cmdRunConfig(args []string) {
	var path string
	var err error
	if len(args) == 2 && args[0] == "--config" {
		path = args[1]
	} else if len(args) == 0 {
		path, err = cfg.GetPath()
		if err != nil {
			log.Error("Failed to locate config: %s", err)
			os.Exit(1)
		}
	} else {
		printHelp()
		os.Exit(1)
	}
	conf, err := cfg.GetProfile(path)
	if err != nil {
		log.Error("Failed to get config: %s", err)
		os.Exit(1)
	}
	if conf.Debug {
		log.SetLevel(log.DEBUG)
	}
	runBinder(&conf)
}

func runBinder(conf *cfg.Profile) {
	if err := ctl.Run(conf); err != nil {
		log.Error("Failed to run: %s", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`
    bindbutton - bind shell commands to mouse buttons

    USAGE:
        bindbutton BUTTON PRESS-CMD RELEASE-CMD [BUTTON PRESS-CMD RELEASE-CMD ...]
                                Run PRESS-CMD when BUTTON is pressed and
                                RELEASE-CMD when it is released. Unbound
                                buttons keep their normal behavior.

    SUBCOMMANDS:
        bindbutton run [--config PATH]
                                Run with bindings from the config file.
        bindbutton devices [--plain]
                                List the usable input devices.
        bindbutton new          Write the default config file.
        bindbutton help         Print this message.
        bindbutton version      Get the version of bindbutton installed.

    ENVIRONMENT:
        BINDBUTTON_DEBUG        Raise log verbosity.
        BINDBUTTON_GRAB_ALL     Grab devices for the whole session.
        BINDBUTTON_DEVICE       Only intercept devices matching this name.
        BINDBUTTON_CONFIG       Config file path for the run subcommand.
        BINDBUTTON_LOG_PATH     Log file path (default /tmp/bindbutton.log).
    `)
}
