package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/xerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string
	Format string

	// File enables a size-rotated copy of the log stream.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var levelVar = new(slog.LevelVar)

// Setup builds the process logger and installs it as the slog default. The
// returned closer flushes the rotated file, if any.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	return setup(os.Stdout, opts)
}

func setup(stdout io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	normalized := strings.ToLower(strings.TrimSpace(opts.Level))
	if normalized == "" {
		normalized = "info"
	}
	if err := levelVar.UnmarshalText([]byte(normalized)); err != nil {
		return nil, nil, xerrors.Errorf("parse log level: %w", err)
	}

	out := stdout
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, rotated)
		closer = rotated
	}

	handlerOpts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
