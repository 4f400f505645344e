package compressor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInput   = errors.New("input must be a PDF file")
	ErrOutputExists   = errors.New("output file already exists")
	ErrEmptyInput     = errors.New("input file is empty")
	ErrInvalidQuality = errors.New("invalid quality level")
	ErrExternalTool   = errors.New("ghostscript failed")
	ErrLibraryBackend = errors.New("pdfcpu failed")
)

// Request describes a single compression run. It is built once from flags
// and configuration.
type Request struct {
	InputPath       string
	OutputPath      string
	Quality         int
	Force           bool
	DisableExternal bool
}

// Result describes the outcome of compressing a single file.
type Result struct {
	Method     string
	InputPath  string
	OutputPath string
	InputSize  int64
	OutputSize int64
	StartedAt  time.Time
	FinishedAt time.Time
}

// Reduction returns the size reduction in percent. It is negative when the
// output grew. Callers must not ask for the reduction of an empty input.
func (r Result) Reduction() float64 {
	return float64(r.InputSize-r.OutputSize) / float64(r.InputSize) * 100
}

// Duration returns how long the backend ran.
func (r Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Backend compresses one PDF into another.
type Backend interface {
	Name() string
	Compress(ctx context.Context, inputPath, outputPath string, preset QualityPreset) (Result, error)
}

// QualityPreset maps a user facing quality level to ghostscript settings.
type QualityPreset struct {
	Level      int
	Name       string
	Resolution int
}

// HighFidelity reports whether the preset keeps print grade images.
func (p QualityPreset) HighFidelity() bool {
	return p.Name == "printer"
}

var qualityPresets = map[int]QualityPreset{
	1: {Level: 1, Name: "printer", Resolution: 200},
	2: {Level: 2, Name: "ebook", Resolution: 200},
	3: {Level: 3, Name: "screen", Resolution: 150},
	4: {Level: 4, Name: "screen", Resolution: 150},
}

// DefaultQuality is used when neither flags nor config choose a level.
const DefaultQuality = 2

// PresetFor returns the preset for a quality level.
func PresetFor(level int) (QualityPreset, error) {
	p, ok := qualityPresets[level]
	if !ok {
		return QualityPreset{}, fmt.Errorf("%w: %d (valid: 1, 2, 3, 4)", ErrInvalidQuality, level)
	}
	return p, nil
}
