package faults

import "context"

type contextKey string

const (
	frameIDKey   contextKey = "frame_id"
	frameKindKey contextKey = "frame_kind"
	requestIDKey contextKey = "request_id"
)

// WithFrameID annotates context with the frame identifier being processed.
func WithFrameID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, frameIDKey, id)
}

// FrameIDFromContext extracts the frame identifier if present.
func FrameIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(frameIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFrameKind annotates context with the frame kind (light, dark, bias, flat).
func WithFrameKind(ctx context.Context, kind string) context.Context {
	if kind == "" {
		return ctx
	}
	return context.WithValue(ctx, frameKindKey, kind)
}

// FrameKindFromContext returns the frame kind if present.
func FrameKindFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(frameKindKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
