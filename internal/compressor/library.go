package compressor

import (
	"context"
	"fmt"
	"time"

	"pdfo/internal/logger"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/filter"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/sirupsen/logrus"
)

// Library compresses in process with pdfcpu. The quality preset is ignored:
// pdfcpu does not resample images.
//
// Compressing clears the document information dictionary and drops the XMP
// metadata stream.
type Library struct {
	logger *logrus.Logger
}

// NewLibrary returns a pdfcpu backed compressor.
func NewLibrary(log *logrus.Logger) *Library {
	api.DisableConfigDir()
	if log == nil {
		log = logrus.New()
	}
	return &Library{logger: log}
}

// Name returns the display name of the backend.
func (l *Library) Name() string {
	return "pdfcpu"
}

// Compress rewrites inputPath into outputPath.
func (l *Library) Compress(ctx context.Context, inputPath, outputPath string, _ QualityPreset) (Result, error) {
	res := Result{
		Method:     l.Name(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		StartedAt:  time.Now(),
	}
	log := logger.WithFileOperation(l.logger, inputPath, "library_compress")

	if err := ctx.Err(); err != nil {
		return res, err
	}

	doc, err := api.ReadContextFile(inputPath)
	if err != nil {
		return res, fmt.Errorf("%w: read %s: %v", ErrLibraryBackend, inputPath, err)
	}
	pages := doc.PageCount
	if pages == 0 {
		return res, fmt.Errorf("%w: %s has no pages", ErrLibraryBackend, inputPath)
	}

	compressed, err := compressStreams(doc)
	if err != nil {
		return res, fmt.Errorf("%w: compress streams: %v", ErrLibraryBackend, err)
	}
	log.WithField("streams", compressed).Debug("Flate encoded uncompressed streams")

	if err := clearMetadata(doc); err != nil {
		return res, fmt.Errorf("%w: clear metadata: %v", ErrLibraryBackend, err)
	}

	if err := api.OptimizeContext(doc); err != nil {
		return res, fmt.Errorf("%w: optimize: %v", ErrLibraryBackend, err)
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if err := api.WriteContextFile(doc, outputPath); err != nil {
		return res, fmt.Errorf("%w: write %s: %v", ErrLibraryBackend, outputPath, err)
	}
	res.FinishedAt = time.Now()

	written, err := api.PageCountFile(outputPath)
	if err != nil {
		return res, fmt.Errorf("%w: reread %s: %v", ErrLibraryBackend, outputPath, err)
	}
	if written != pages {
		return res, fmt.Errorf("%w: wrote %d pages, expected %d", ErrLibraryBackend, written, pages)
	}

	in, out, err := fileSizes(inputPath, outputPath)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrLibraryBackend, err)
	}
	res.InputSize = in
	res.OutputSize = out

	log.WithFields(logrus.Fields{"pages": pages, "input_size": in, "output_size": out}).Debug("Library compression finished")
	return res, nil
}

// compressStreams flate encodes every stream that carries no filter,
// page content streams included. It returns the number of streams encoded.
func compressStreams(doc *model.Context) (int, error) {
	n := 0
	for objNr, entry := range doc.Table {
		if entry == nil || entry.Free || entry.Object == nil {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok || len(sd.FilterPipeline) > 0 || len(sd.Raw) == 0 {
			continue
		}
		if _, found := sd.Find("Filter"); found {
			continue
		}

		sd.Content = sd.Raw
		sd.FilterPipeline = []types.PDFFilter{{Name: filter.Flate}}
		sd.InsertName("Filter", filter.Flate)
		if err := sd.Encode(); err != nil {
			return n, fmt.Errorf("object %d: %w", objNr, err)
		}
		entry.Object = sd
		n++
	}
	return n, nil
}

// clearMetadata empties the info dictionary and removes the catalog's XMP
// metadata stream.
func clearMetadata(doc *model.Context) error {
	if doc.Info != nil {
		info, err := doc.DereferenceDict(*doc.Info)
		if err != nil {
			return err
		}
		for key := range info {
			delete(info, key)
		}
	}

	root, err := doc.Catalog()
	if err != nil {
		return err
	}
	root.Delete("Metadata")
	return nil
}
