// Package importer finds raw capture files in a directory tree so they can be
// queued on a frame.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"astrofiler/internal/faults"
)

// Scan returns the absolute paths of files under dir whose slash-separated
// relative path matches pattern, sorted. AppleDouble companions ("._name")
// are skipped.
func Scan(dir, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, faults.Wrap(faults.ErrValidation, "importer", "scan",
			fmt.Sprintf("invalid import pattern %q", pattern), nil)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve capture directory: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrValidation, "importer", "scan", "capture directory", err)
	}
	if !info.IsDir() {
		return nil, faults.Wrap(faults.ErrValidation, "importer", "scan",
			fmt.Sprintf("%s is not a directory", root), nil)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	paths := make([]string, 0, len(matches))
	for _, match := range matches {
		if strings.HasPrefix(filepath.Base(match), "._") {
			continue
		}
		paths = append(paths, filepath.Join(root, filepath.FromSlash(match)))
	}
	sort.Strings(paths)
	return paths, nil
}
