package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported backends and formats.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatJSON = "json"
	FormatText = "text"
)

// Options selects and tunes a Logger implementation.
type Options struct {
	Backend string // slog | zap
	Format  string // json | text
	Level   string // debug | info | warn | error
}

// New builds a Logger writing to w according to opts.
func New(opts Options, w io.Writer) (Logger, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		return newSlog(opts, w)
	case BackendZap:
		return newZap(opts, w)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

// Nop returns a Logger that discards everything. Handy for tests and for
// components constructed without an explicit logger.
func Nop() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSlog(opts Options, w io.Writer) (Logger, error) {
	var level slog.Level
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}
	ho := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
		h = slog.NewJSONHandler(w, ho)
	case FormatText:
		h = slog.NewTextHandler(w, ho)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	return NewSlogLogger(slog.New(h)), nil
}

func newZap(opts Options, w io.Writer) (Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(opts.Format) {
	case "", FormatJSON:
		enc = zapcore.NewJSONEncoder(ec)
	case FormatText:
		enc = zapcore.NewConsoleEncoder(ec)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), level)
	return NewZapLogger(zap.New(core)), nil
}
