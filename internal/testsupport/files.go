package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
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
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteIdentityCube writes a 3D identity .cube table of the given dimension.
// Applying the result leaves colors unchanged, which makes it a convenient
// fixture for parser and transform tests.
func WriteIdentityCube(t testing.TB, path string, dim int) {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "TITLE \"identity %d\"\n", dim)
	fmt.Fprintf(&sb, "LUT_3D_SIZE %d\n\n", dim)
	scale := float64(dim - 1)
	for b := 0; b < dim; b++ {
		for g := 0; g < dim; g++ {
			for r := 0; r < dim; r++ {
				fmt.Fprintf(&sb, "%.6f %.6f %.6f\n",
					float64(r)/scale, float64(g)/scale, float64(b)/scale)
			}
		}
	}
	writeText(t, path, sb.String())
}

// WriteLinearCurve writes a 1D .cube file whose three channels are straight
// identity ramps of the given size.
func WriteLinearCurve(t testing.TB, path string, size int) {
	t.Helper()

	var sb strings.Builder
	fmt.Fprintf(&sb, "LUT_1D_SIZE %d\n", size)
	scale := float64(size - 1)
	for i := 0; i < size; i++ {
		v := float64(i) / scale
		fmt.Fprintf(&sb, "%.6f %.6f %.6f\n", v, v, v)
	}
	writeText(t, path, sb.String())
}

func writeText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
