// Package logging builds the zerolog logger used across worklog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/worklog/internal/config"
)

// New returns a logger writing to out at the configured level. Format "text"
// uses zerolog's console writer; "auto" picks it when out is a terminal.
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level := ParseLevel(cfg.Level)

	var w io.Writer = out
	if useConsole(cfg.Format, out) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a config level name onto zerolog, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func useConsole(format string, out io.Writer) bool {
	switch format {
	case "text":
		return true
	case "json":
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
