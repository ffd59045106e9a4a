// Package logging builds the zerolog logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0o664

// Build collects logger settings. The zero value logs JSON to stderr at
// info level.
type Build struct {
	writer  io.Writer
	path    string
	level   string
	console bool
}

// Output is a built logger plus the file it writes to, if any.
type Output struct {
	Logger zerolog.Logger
	file   *os.File
}

// Close releases the log file.
func (o *Output) Close() error {
	if o == nil || o.file == nil {
		return nil
	}
	return o.file.Close()
}

// New starts a build.
func New() *Build {
	return &Build{}
}

// FromPath appends log lines to the file at path.
func (b *Build) FromPath(path string) *Build {
	b.path = strings.TrimSpace(path)
	return b
}

// FromWriter logs to w. A path set with FromPath wins.
func (b *Build) FromWriter(w io.Writer) *Build {
	b.writer = w
	return b
}

// Level sets the minimum level by name ("debug", "info", ...).
func (b *Build) Level(level string) *Build {
	b.level = level
	return b
}

// Console switches to human readable output.
func (b *Build) Console(enabled bool) *Build {
	b.console = enabled
	return b
}

// Make opens the output and returns the logger.
func (b *Build) Make() (*Output, error) {
	out := &Output{}
	writer := b.writer
	if writer == nil {
		writer = os.Stderr
	}
	if b.path != "" {
		file, err := os.OpenFile(b.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", b.path, err)
		}
		out.file = file
		writer = zerolog.SyncWriter(file)
	}
	if b.console && out.file == nil {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}

	level, err := ParseLevel(b.level)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.Logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return out, nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", name)
	}
	return level, nil
}
