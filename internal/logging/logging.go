// Package logging sets up the file logger. The terminal belongs to the UI, so
// nothing is ever written to stdout or stderr from here.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	File  string
	Level string
}

// ParseLevel accepts zerolog level names case-insensitively and falls back to
// info for anything unknown.
func ParseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// New returns a logger writing JSON lines to a rotated file. The returned
// closer flushes and closes the file.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	if opts.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Nop(), io.NopCloser(nil), errors.Errorf("create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	return NewWithWriter(file, opts.Level), file, nil
}

func NewWithWriter(writer io.Writer, level string) zerolog.Logger {
	return zerolog.New(writer).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", "panefm").
		Logger()
}
