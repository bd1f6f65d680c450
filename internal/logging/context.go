package logging

import (
	"context"
	"log/slog"

	"astrofiler/internal/faults"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldFrameID is the standardized structured logging key for frame identifiers.
	FieldFrameID = "frame_id"
	// FieldFrameKind is the standardized structured logging key for frame kinds.
	FieldFrameKind = "frame_kind"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to try next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := faults.FrameIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFrameID, id))
	}
	if kind, ok := faults.FrameKindFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldFrameKind, kind))
	}
	if rid, ok := faults.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
