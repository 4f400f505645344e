package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresetFor(t *testing.T) {
	a := assert.New(t)

	tests := []struct {
		level      int
		name       string
		resolution int
		high       bool
	}{
		{1, "printer", 200, true},
		{2, "ebook", 200, false},
		{3, "screen", 150, false},
		{4, "screen", 150, false},
	}
	for _, tt := range tests {
		p, err := PresetFor(tt.level)
		a.NoError(err)
		a.Equal(tt.level, p.Level)
		a.Equal(tt.name, p.Name)
		a.Equal(tt.resolution, p.Resolution)
		a.Equal(tt.high, p.HighFidelity())
	}
}

func TestPresetForRejectsUnknownLevels(t *testing.T) {
	for _, level := range []int{-1, 0, 5, 42} {
		_, err := PresetFor(level)
		assert.ErrorIs(t, err, ErrInvalidQuality, "level %d", level)
	}
}

func TestResultReduction(t *testing.T) {
	a := assert.New(t)

	a.InDelta(40.0, Result{InputSize: 1_000_000, OutputSize: 600_000}.Reduction(), 1e-9)
	a.InDelta(0.0, Result{InputSize: 10, OutputSize: 10}.Reduction(), 1e-9)
	a.InDelta(-50.0, Result{InputSize: 100, OutputSize: 150}.Reduction(), 1e-9)

	r := Result{InputSize: 3, OutputSize: 2}
	a.Equal(float64(3-2)/float64(3)*100, r.Reduction())
}

func TestIsPDF(t *testing.T) {
	a := assert.New(t)

	a.True(IsPDF("doc.pdf"))
	a.True(IsPDF("DOC.PDF"))
	a.True(IsPDF("/tmp/scan.Pdf"))
	a.False(IsPDF("doc.pdf.txt"))
	a.False(IsPDF("doc"))
	a.False(IsPDF("pdf"))
}

func TestDefaultOutputPath(t *testing.T) {
	a := assert.New(t)

	a.Equal("sample_compressed.pdf", DefaultOutputPath("sample.pdf", DefaultOutputSuffix))
	a.Equal("/data/in/report_compressed.PDF", DefaultOutputPath("/data/in/report.PDF", DefaultOutputSuffix))
	a.Equal("/data/a.b_small.pdf", DefaultOutputPath("/data/a.b.pdf", "_small"))
}
