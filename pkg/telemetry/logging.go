// Copyright 2026 © The Kairos Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Log record keys added from the active span.
const (
	LogKeyTraceID = "trace_id"
	LogKeySpanID  = "span_id"
)

// ConfigureSlog installs the default logger for a gitagent run. Records
// logged with a span in their context carry its trace and span ids;
// attrs are attached to every record (typically the command name).
func ConfigureSlog(output io.Writer, level, format string, attrs ...slog.Attr) *slog.Logger {
	opts := &slog.HandlerOptions{Level: logLevel(level)}

	var base slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		base = slog.NewJSONHandler(output, opts)
	} else {
		base = slog.NewTextHandler(output, opts)
	}
	if len(attrs) > 0 {
		base = base.WithAttrs(attrs)
	}

	logger := slog.New(spanHandler{next: base})
	slog.SetDefault(logger)
	return logger
}

// logLevel maps a config level to slog; unknown values log at info.
func logLevel(level string) slog.Level {
	var l slog.Level
	name := strings.TrimSpace(level)
	if strings.EqualFold(name, "warning") {
		name = "warn"
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// spanHandler decorates records with the ids of the span in ctx.
type spanHandler struct {
	next slog.Handler
}

func (h spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h spanHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			present := recordKeys(r)
			if !present[LogKeyTraceID] {
				r.AddAttrs(slog.String(LogKeyTraceID, sc.TraceID().String()))
			}
			if !present[LogKeySpanID] {
				r.AddAttrs(slog.String(LogKeySpanID, sc.SpanID().String()))
			}
		}
	}
	return h.next.Handle(ctx, r)
}

func (h spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h spanHandler) WithGroup(name string) slog.Handler {
	return spanHandler{next: h.next.WithGroup(name)}
}

func recordKeys(r slog.Record) map[string]bool {
	keys := make(map[string]bool, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		keys[a.Key] = true
		return true
	})
	return keys
}
