// Package testutil builds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteSized creates a file of exactly size bytes.
func WriteSized(t testing.TB, path string, size int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0644))
}

// FakeGhostscript writes an executable shell script standing in for gs and
// returns its path. body sees $out (the -sOutputFile value) and $in (the
// last argument).
func FakeGhostscript(t testing.TB, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ghostscript needs /bin/sh")
	}
	script := `#!/bin/sh
out=""
in=""
for a in "$@"; do
  case "$a" in
    -sOutputFile=*) out="${a#-sOutputFile=}" ;;
  esac
  in="$a"
done
` + body + "\n"
	path := filepath.Join(t.TempDir(), "gs")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

// WriteSamplePDF writes a one page PDF with an uncompressed content stream
// and a document information dictionary carrying title.
func WriteSamplePDF(t testing.TB, path, title string) {
	t.Helper()

	content := strings.Repeat("0 0 m 100 100 l S\n", 2000)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		fmt.Sprintf("<< /Title (%s) /Author (Jane Roe) /Subject (Testing) >>", title),
	}

	writePDF(t, path, objects, "/Info 5 0 R ")
}

// WriteTwoPagePDF writes a PDF whose pages have MediaBoxes of 100 and 200
// points square. Each page draws its own copy of a byte identical image.
func WriteTwoPagePDF(t testing.TB, path string) {
	t.Helper()

	pixels := strings.Repeat("\x80\x40\x20\x10", 64)
	image := fmt.Sprintf("<< /Type /XObject /Subtype /Image /Width 16 /Height 16 /ColorSpace /DeviceGray /BitsPerComponent 8 /Length %d >>\nstream\n%s\nendstream", len(pixels), pixels)
	draw := func(size int) string {
		c := fmt.Sprintf("q %d 0 0 %d 0 0 cm /Im0 Do Q\n", size, size)
		return fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(c), c)
	}
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 100 100] /Resources << /XObject << /Im0 5 0 R >> >> /Contents 7 0 R >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << /XObject << /Im0 6 0 R >> >> /Contents 8 0 R >>",
		image,
		image,
		draw(100),
		draw(200),
	}
	writePDF(t, path, objects, "")
}

// writePDF serializes objects numbered from 1 with a classic xref table.
// Object 1 is the catalog.
func writePDF(t testing.TB, path string, objects []string, trailer string) {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, trailer, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}
