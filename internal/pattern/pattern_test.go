package pattern_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"astrofiler/internal/pattern"
)

func TestResolveSubstitutesKnownTokens(t *testing.T) {
	lookup := pattern.Table(map[string]string{
		"TARGET":    "M31",
		"DATE":      "2024-09-14",
		"SUBLENGTH": pattern.FormatFloat(300),
	})
	got := pattern.Resolve("/archive", "Lights/{TARGET}/{DATE}/{SUBLENGTH}s", lookup)
	assert.Equal(t, filepath.Join("/archive", "Lights", "M31", "2024-09-14", "300s"), got)
}

func TestResolveKeepsUnknownTokensVerbatim(t *testing.T) {
	lookup := pattern.Table(map[string]string{"CAMERA": "ASI2600MM"})
	got := pattern.Resolve("/archive", "{CAMERA}/{WHATEVER}/{lower}", lookup)
	assert.Equal(t, filepath.Join("/archive", "ASI2600MM", "{WHATEVER}", "{lower}"), got)
}

func TestResolveFallsBackToPlaceholder(t *testing.T) {
	lookup := pattern.Table(map[string]string{"CAMERA": "", "TARGET": "NGC 7000"})
	got := pattern.Resolve("/archive", "{CAMERA}/{TARGET}", lookup)
	assert.Equal(t, filepath.Join("/archive", "None", "NGC 7000"), got)
}

func TestResolveKeepsValuesInsideOneSegment(t *testing.T) {
	lookup := pattern.Table(map[string]string{"TARGET": "Sh2-155/Cave", "FILTER": ".."})
	got := pattern.Resolve("/archive", "{TARGET}/{FILTER}", lookup)
	assert.Equal(t, filepath.Join("/archive", "Sh2-155-Cave", "None"), got)
}

func TestResolveNormalizesUnicode(t *testing.T) {
	decomposed := "Me\u0301sier"
	lookup := pattern.Table(map[string]string{"TARGET": decomposed})
	got := pattern.Expand("{TARGET}", lookup)
	assert.Equal(t, "M\u00e9sier", got)
}

func TestExpandWithNilLookup(t *testing.T) {
	assert.Equal(t, "{CAMERA}/x", pattern.Expand("{CAMERA}/x", nil))
}

func TestTokens(t *testing.T) {
	got := pattern.Tokens("{CAMERA}/{DATE}/{CAMERA}_{GAIN}g/{bad}")
	assert.Equal(t, []string{"CAMERA", "DATE", "GAIN"}, got)
	assert.Empty(t, pattern.Tokens("plain/path"))
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "300", pattern.FormatFloat(300))
	assert.Equal(t, "0.5", pattern.FormatFloat(0.5))
	assert.Equal(t, "-10", pattern.FormatFloat(-10))
	assert.Equal(t, "-12.5", pattern.FormatFloat(-12.5))
	assert.Equal(t, "120", pattern.FormatInt(120))
	assert.Equal(t, "None", pattern.FormatDate(time.Time{}))
	assert.Equal(t, "2024-01-02", pattern.FormatDate(time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "None", pattern.Text("  "))
	assert.Equal(t, "M42", pattern.Text("M42"))
}
