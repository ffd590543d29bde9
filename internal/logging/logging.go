// Package logging builds the root hclog logger; components derive named sub-loggers from it.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// RootName is the name of the root logger.
const RootName = "zync"

// New returns the root logger writing to out (stderr when nil). Unknown level names fall back to info.
func New(level string, json bool, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       RootName,
		Level:      lvl,
		JSONFormat: json,
		Output:     out,
	})
}
