package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// Options select the level and output of the service logger. An empty Format
// picks JSON inside Kubernetes and for the prod and dev environments.
type Options struct {
	Level   string
	Format  string
	Env     string
	Service string
	Version string
}

func New(opts Options) *slog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

func NewWithWriter(w io.Writer, opts Options) *slog.Logger {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	var handler slog.Handler
	switch resolveFormat(opts) {
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: highlightErrors,
		})
	}

	log := slog.New(&spanHandler{next: handler})
	if opts.Service != "" {
		log = log.With(
			slog.String("service", opts.Service),
			slog.String("version", opts.Version),
			slog.String("environment", opts.Env),
		)
	}
	if err != nil {
		log.Warn("unknown log level, using info", "level", opts.Level)
	}
	return log
}

// ParseLevel accepts debug, info, warn and error in any case. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func resolveFormat(opts Options) string {
	switch strings.ToLower(opts.Format) {
	case FormatJSON:
		return FormatJSON
	case FormatText:
		return FormatText
	}
	if _, inK8s := os.LookupEnv("KUBERNETES_SERVICE_HOST"); inK8s {
		return FormatJSON
	}
	if opts.Env == "prod" || opts.Env == "dev" {
		return FormatJSON
	}
	return FormatText
}

// highlightErrors paints the level of ERROR records red on a terminal.
func highlightErrors(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level >= slog.LevelError {
		a.Value = slog.StringValue("\x1b[31m" + level.String() + "\x1b[0m")
	}
	return a
}

// spanHandler copies trace_id and span_id of the active span onto records.
type spanHandler struct {
	next slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{next: h.next.WithGroup(name)}
}
