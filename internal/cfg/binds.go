package cfg

import (
	"fmt"
	"strconv"

	"github.com/jezek/xgb/xproto"
)

// Command contains the pair of commands to run when a bound button is
// pressed and released.
type Command struct {
	Press   string `toml:"press"`
	Release string `toml:"release"`
}

// Bindings maps a button number to its command pair. It is built once at
// startup and never modified afterwards.
type Bindings map[xproto.Button]Command

// ParseArgs builds a binding table from a flat list of command-line
// arguments of the form: BUTTON PRESS-CMD RELEASE-CMD [...]. A repeated
// button keeps the last pair given.
func ParseArgs(args []string) (Bindings, error) {
	if len(args) == 0 || len(args)%3 != 0 {
		return nil, fmt.Errorf("expected one or more BUTTON PRESS-CMD RELEASE-CMD triples, got %d arguments", len(args))
	}
	binds := make(Bindings, len(args)/3)
	for i := 0; i < len(args); i += 3 {
		button, err := parseButton(args[i])
		if err != nil {
			return nil, err
		}
		binds[button] = Command{
			Press:   args[i+1],
			Release: args[i+2],
		}
	}
	return binds, nil
}

// parseButton parses a button number. X button numbers fit in one byte and
// button 0 does not exist.
func parseButton(str string) (xproto.Button, error) {
	num, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid button %q", str)
	}
	if num < 1 || num > 255 {
		return 0, fmt.Errorf("button %d out of range (1-255)", num)
	}
	return xproto.Button(num), nil
}
