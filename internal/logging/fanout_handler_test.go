package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestTeeHandlerNilHandlers(t *testing.T) {
	h := TeeHandler(nil, nil)
	if _, ok := h.(NoopHandler); !ok {
		t.Errorf("expected NoopHandler for all nil handlers, got %T", h)
	}
}

func TestTeeHandlerSingleHandlerUnwrapped(t *testing.T) {
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)

	if h := TeeHandler(nil, inner, nil); h != inner {
		t.Error("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerEnabled(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h1 := slog.NewJSONHandler(&buf1, &slog.HandlerOptions{Level: slog.LevelWarn})
	h2 := slog.NewJSONHandler(&buf2, &slog.HandlerOptions{Level: slog.LevelInfo})

	h := TeeHandler(h1, h2)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected info enabled through second handler")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected debug disabled for both handlers")
	}
}

func TestTeeHandlerRespectsPerHandlerLevel(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	console := slog.NewJSONHandler(&consoleBuf, &slog.HandlerOptions{Level: slog.LevelWarn})
	file := slog.NewJSONHandler(&fileBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	logger := slog.New(TeeHandler(console, file))
	logger.Debug("copy started", slog.String("file", "m31_0001.fits"))
	logger.Warn("copy failed")

	if bytes.Contains(consoleBuf.Bytes(), []byte("copy started")) {
		t.Error("debug record leaked to warn handler")
	}
	if !bytes.Contains(consoleBuf.Bytes(), []byte("copy failed")) {
		t.Error("expected warn record on console handler")
	}
	if !bytes.Contains(fileBuf.Bytes(), []byte("copy started")) {
		t.Error("expected debug record on file handler")
	}
}

func TestTeeHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := TeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("frame_id", "light-1")}).WithGroup("copy"))
	logger.Info("done", slog.Int("files", 3))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		if !bytes.Contains(buf.Bytes(), []byte(`"frame_id":"light-1"`)) {
			t.Errorf("handler %d missing attr: %s", i, buf.String())
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"copy":{"files":3}`)) {
			t.Errorf("handler %d missing group: %s", i, buf.String())
		}
	}
}
