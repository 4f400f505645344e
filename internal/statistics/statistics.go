package statistics

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"pdfo/internal/compressor"

	"github.com/sirupsen/logrus"
)

// Report renders the user visible progress and summary of one compression.
type Report struct {
	InputPath string
	Method    string
	Quality   int
	InputSize int64
}

// NewReport returns a Report for a prepared request and its chosen backend.
func NewReport(req compressor.Request, backend compressor.Backend, inputSize int64) *Report {
	return &Report{
		InputPath: req.InputPath,
		Method:    backend.Name(),
		Quality:   req.Quality,
		InputSize: inputSize,
	}
}

// MethodLabel describes the backend; ghostscript also shows the quality level.
func (r *Report) MethodLabel() string {
	if r.Method == "Ghostscript" {
		return fmt.Sprintf("%s (quality=%d)", r.Method, r.Quality)
	}
	return r.Method
}

// GetHeader returns the lines printed before the backend runs.
func (r *Report) GetHeader() string {
	return fmt.Sprintf(`🔄 Compressing: %s
   Method: %s
   Before: %s`,
		filepath.Base(r.InputPath),
		r.MethodLabel(),
		formatSize(r.InputSize))
}

// GetSummary returns the lines printed after a successful compression.
func (r *Report) GetSummary(res compressor.Result) string {
	return fmt.Sprintf(`✅ Success!
   After:  %s
   Saved:  %s%% reduction
   File:   %s`,
		formatSize(res.OutputSize),
		FormatPercent(res.Reduction()),
		res.OutputPath)
}

// LogFields returns the sizes of a finished run for a structured log entry.
func (r *Report) LogFields(res compressor.Result) logrus.Fields {
	return logrus.Fields{
		"method":      r.MethodLabel(),
		"input_size":  FormatBytes(res.InputSize),
		"output_size": FormatBytes(res.OutputSize),
		"saved":       FormatBytes(res.InputSize - res.OutputSize),
		"reduction":   FormatPercent(res.Reduction()) + "%",
	}
}

// FormatPercent renders a reduction with one decimal place.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// FormatCount renders n with comma thousands separators.
func FormatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatBytes returns a human-readable string for a byte count.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatSize(bytes int64) string {
	return fmt.Sprintf("%s bytes (%.2f MB)", FormatCount(bytes), float64(bytes)/1024/1024)
}
