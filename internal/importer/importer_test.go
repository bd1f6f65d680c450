package importer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrofiler/internal/faults"
	"astrofiler/internal/importer"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestScanMatchesNestedCaptures(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "DCIM", "100CANON", "IMG_0002.CR2"))
	touch(t, filepath.Join(dir, "DCIM", "100CANON", "IMG_0001.CR2"))
	touch(t, filepath.Join(dir, "Light_M31_300s.fits"))
	touch(t, filepath.Join(dir, "DCIM", "100CANON", "._IMG_0001.CR2"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty.fits"), 0o755))

	paths, err := importer.Scan(dir, "**/*.{fits,CR2}")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "DCIM", "100CANON", "IMG_0001.CR2"),
		filepath.Join(dir, "DCIM", "100CANON", "IMG_0002.CR2"),
		filepath.Join(dir, "Light_M31_300s.fits"),
	}, paths)
}

func TestScanNoMatches(t *testing.T) {
	paths, err := importer.Scan(t.TempDir(), "**/*.fits")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestScanRejectsBadInput(t *testing.T) {
	_, err := importer.Scan(t.TempDir(), "[")
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))

	_, err = importer.Scan(filepath.Join(t.TempDir(), "missing"), "*")
	require.Error(t, err)
	assert.True(t, errors.Is(err, faults.ErrValidation))
}
