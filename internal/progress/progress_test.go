package progress_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrofiler/internal/progress"
)

func TestTrackerAdvanceClamps(t *testing.T) {
	tr := progress.New("M31 lights", 2, true)
	require.NotEmpty(t, tr.ID)
	assert.False(t, tr.Done())

	tr.Advance()
	tr.Advance()
	tr.Advance()
	assert.Equal(t, 2, tr.Step)
	assert.True(t, tr.Done())
	assert.Equal(t, float64(100), tr.Percent())
}

func TestEmptyTrackerIsDone(t *testing.T) {
	tr := progress.New("empty", 0, false)
	assert.True(t, tr.Done())
	tr.Advance()
	assert.Zero(t, tr.Step)
}

func TestSnapshotIsIndependent(t *testing.T) {
	tr := progress.New("batch", 3, false)
	snap := tr.Snapshot()
	tr.Advance()
	assert.Zero(t, snap.Step)
}

func TestJSONObserverWritesLines(t *testing.T) {
	var buf bytes.Buffer
	obs := progress.JSONObserver(&buf)
	tr := progress.New("darks", 2, true)
	tr.Advance()
	obs.Push(tr.Snapshot())
	tr.Advance()
	obs.Push(tr.Snapshot())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &decoded))
	assert.Equal(t, tr.ID, decoded["id"])
	assert.Equal(t, "darks", decoded["name"])
	assert.Equal(t, true, decoded["modal"])
	assert.Equal(t, float64(2), decoded["step"])
	assert.Equal(t, float64(2), decoded["total"])
}

func TestMultiAndRecorder(t *testing.T) {
	var a, b progress.Recorder
	obs := progress.Multi(&a, nil, &b, progress.Nop)
	obs.Push(progress.Tracker{Name: "x", Step: 1, Total: 1})

	assert.Len(t, a.Snapshots(), 1)
	assert.Len(t, b.Snapshots(), 1)
}

func TestLogObserverSamples(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	obs := progress.LogObserver(logger)

	tr := progress.New("flats", 100, false)
	for range 100 {
		tr.Advance()
		obs.Push(tr.Snapshot())
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 11, "first bucket plus one line per 10%")
	assert.Contains(t, lines[len(lines)-1], `"step":100`)
}
