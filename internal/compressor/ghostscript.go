package compressor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultGhostscriptBinary is the executable probed on PATH.
const DefaultGhostscriptBinary = "gs"

// LookupFunc resolves an executable name, like exec.LookPath.
type LookupFunc func(file string) (string, error)

// HasExternalTool reports whether binary resolves to an executable.
func HasExternalTool(lookup LookupFunc, binary string) bool {
	if lookup == nil || binary == "" {
		return false
	}
	_, err := lookup(binary)
	return err == nil
}

// ExternalToolError is returned when ghostscript exits with a non-zero status.
type ExternalToolError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", ErrExternalTool, msg)
}

func (e *ExternalToolError) Unwrap() []error {
	return []error{ErrExternalTool, e.Err}
}

// Ghostscript compresses by running the gs pdfwrite device.
type Ghostscript struct {
	binary string
}

// NewGhostscript returns a Ghostscript backend running binary.
func NewGhostscript(binary string) *Ghostscript {
	if binary == "" {
		binary = DefaultGhostscriptBinary
	}
	return &Ghostscript{binary: binary}
}

// Name returns the display name of the backend.
func (g *Ghostscript) Name() string {
	return "Ghostscript"
}

// Args builds the gs command line for one conversion.
func (g *Ghostscript) Args(inputPath, outputPath string, preset QualityPreset) []string {
	return []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dPDFSETTINGS=/" + preset.Name,
		"-dNOPAUSE",
		"-dQUIET",
		"-dBATCH",
		"-dDetectDuplicateImages=true",
		"-dCompressFonts=true",
		"-dDownsampleColorImages=true",
		"-dDownsampleGrayImages=true",
		"-dDownsampleMonoImages=true",
		fmt.Sprintf("-dColorImageResolution=%d", preset.Resolution),
		"-sOutputFile=" + outputPath,
		inputPath,
	}
}

// Compress runs gs synchronously and reports the file sizes on success.
func (g *Ghostscript) Compress(ctx context.Context, inputPath, outputPath string, preset QualityPreset) (Result, error) {
	res := Result{
		Method:     g.Name(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}

	cmd := exec.CommandContext(ctx, g.binary, g.Args(inputPath, outputPath, preset)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		res.FinishedAt = time.Now()
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return res, &ExternalToolError{ExitCode: exitCode, Stderr: stderr.String(), Err: err}
	}
	res.FinishedAt = time.Now()

	in, out, err := fileSizes(inputPath, outputPath)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrExternalTool, err)
	}
	res.InputSize = in
	res.OutputSize = out
	return res, nil
}

// fileSizes stats both ends of a conversion.
func fileSizes(inputPath, outputPath string) (int64, int64, error) {
	inInfo, err := os.Stat(inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("stat input: %w", err)
	}
	outInfo, err := os.Stat(outputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("stat output: %w", err)
	}
	return inInfo.Size(), outInfo.Size(), nil
}
