// Package logging builds the zerolog loggers used across loopviz.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string
	// File, when set, receives JSON lines and takes precedence over Console.
	File string
	// Console receives human-readable lines. Nil with no File discards logs.
	Console io.Writer
	NoColor bool
}

// New returns a logger for opts and a closer for any file it opened.
func New(opts Options) (zerolog.Logger, func() error, error) {
	nop := func() error { return nil }

	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), nop, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = l
	}

	var w io.Writer
	closer := nop
	switch {
	case opts.File != "":
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nop, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	case opts.Console != nil:
		w = zerolog.ConsoleWriter{Out: opts.Console, NoColor: opts.NoColor, TimeFormat: time.Kitchen}
	default:
		return zerolog.Nop(), nop, nil
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger(), closer, nil
}
