package compressor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pdfo/internal/logger"

	"github.com/sirupsen/logrus"
)

// DefaultOutputSuffix is inserted before the extension of derived output paths.
const DefaultOutputSuffix = "_compressed"

// Options configures a Dispatcher. Zero values fall back to defaults.
type Options struct {
	GhostscriptBinary string
	OutputSuffix      string
	LookPath          LookupFunc
	External          Backend
	Library           Backend
}

// Dispatcher validates a request, picks exactly one backend and runs it.
type Dispatcher struct {
	logger   *logrus.Logger
	binary   string
	suffix   string
	lookPath LookupFunc
	external Backend
	library  Backend
}

// NewDispatcher returns a Dispatcher using the given options.
func NewDispatcher(log *logrus.Logger, opts Options) *Dispatcher {
	if log == nil {
		log = logrus.New()
	}
	if opts.GhostscriptBinary == "" {
		opts.GhostscriptBinary = DefaultGhostscriptBinary
	}
	if opts.OutputSuffix == "" {
		opts.OutputSuffix = DefaultOutputSuffix
	}
	if opts.LookPath == nil {
		opts.LookPath = exec.LookPath
	}
	if opts.External == nil {
		opts.External = NewGhostscript(opts.GhostscriptBinary)
	}
	if opts.Library == nil {
		opts.Library = NewLibrary(log)
	}
	return &Dispatcher{
		logger:   log,
		binary:   opts.GhostscriptBinary,
		suffix:   opts.OutputSuffix,
		lookPath: opts.LookPath,
		external: opts.External,
		library:  opts.Library,
	}
}

// IsPDF reports whether path has a .pdf extension, ignoring case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// DefaultOutputPath places <stem><suffix><ext> next to the input.
func DefaultOutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	return filepath.Join(filepath.Dir(inputPath), stem+suffix+ext)
}

// Prepare validates req and returns it with the output path resolved.
// Nothing on disk is touched.
func (d *Dispatcher) Prepare(req Request) (Request, error) {
	if _, err := PresetFor(req.Quality); err != nil {
		return req, err
	}

	if !IsPDF(req.InputPath) {
		return req, fmt.Errorf("%w: %s", ErrInvalidInput, req.InputPath)
	}

	info, err := os.Stat(req.InputPath)
	if err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.Mode().IsRegular() {
		return req, fmt.Errorf("%w: %s is not a regular file", ErrInvalidInput, req.InputPath)
	}
	if info.Size() == 0 {
		return req, fmt.Errorf("%w: %s", ErrEmptyInput, req.InputPath)
	}

	if req.OutputPath == "" {
		req.OutputPath = DefaultOutputPath(req.InputPath, d.suffix)
	}

	if sameFile(req.InputPath, req.OutputPath) {
		return req, fmt.Errorf("%w: output '%s' is the input file", ErrInvalidInput, req.OutputPath)
	}

	if _, err := os.Stat(req.OutputPath); err == nil && !req.Force {
		return req, fmt.Errorf("%w: '%s'. Use -f to overwrite", ErrOutputExists, req.OutputPath)
	}

	return req, nil
}

// ExternalAvailable reports whether the ghostscript binary can be run.
func (d *Dispatcher) ExternalAvailable() bool {
	return HasExternalTool(d.lookPath, d.binary)
}

// Select returns the backend for req: ghostscript when it is installed and
// not disabled, pdfcpu otherwise.
func (d *Dispatcher) Select(req Request) Backend {
	if !req.DisableExternal && d.ExternalAvailable() {
		return d.external
	}
	return d.library
}

// Execute runs backend on an already prepared request.
func (d *Dispatcher) Execute(ctx context.Context, req Request, backend Backend) (Result, error) {
	preset, err := PresetFor(req.Quality)
	if err != nil {
		return Result{}, err
	}

	log := logger.WithFileOperation(d.logger, req.InputPath, "compress").WithFields(logrus.Fields{
		"method":        backend.Name(),
		"preset":        preset.Name,
		"high_fidelity": preset.HighFidelity(),
	})
	log.Info("Starting compression")

	res, err := backend.Compress(ctx, req.InputPath, req.OutputPath, preset)
	if err != nil {
		log.WithError(err).Debug("Compression failed")
		return res, err
	}
	if res.InputSize == 0 {
		return res, fmt.Errorf("%w: %s", ErrEmptyInput, req.InputPath)
	}

	log.WithFields(logrus.Fields{
		"output":      res.OutputPath,
		"input_size":  res.InputSize,
		"output_size": res.OutputSize,
		"duration":    res.Duration().String(),
	}).Infof("Compression finished, %.1f%% reduction", res.Reduction())
	return res, nil
}

// Run prepares req, selects a backend and executes it.
func (d *Dispatcher) Run(ctx context.Context, req Request) (Result, error) {
	prepared, err := d.Prepare(req)
	if err != nil {
		return Result{}, err
	}
	return d.Execute(ctx, prepared, d.Select(prepared))
}

// sameFile reports whether a and b name the same file, either by path or
// by inode when both exist.
func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, err := os.Stat(a)
	if err != nil {
		return false
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(infoA, infoB)
}
