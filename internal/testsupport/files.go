package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(min(chunkSize, remaining))
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// RawFrames creates count capture files named <prefix>_NNNN.fits under dir
// and returns their absolute paths in order.
func RawFrames(t testing.TB, dir, prefix string, count int) []string {
	t.Helper()

	paths := make([]string, 0, count)
	for i := range count {
		path := filepath.Join(dir, prefix+"_"+pad4(i+1)+".fits")
		WriteFile(t, path, int64(512+i))
		paths = append(paths, path)
	}
	return paths
}

func pad4(n int) string {
	digits := []byte("0000")
	for i := 3; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits)
}
