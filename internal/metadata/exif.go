package metadata

import (
	"fmt"
	"strconv"

	"pdfo/internal/compressor"
	"pdfo/internal/logger"

	"github.com/barasher/go-exiftool"
	"github.com/sirupsen/logrus"
)

// DefaultExiftoolBinary is used when no binary path is configured.
const DefaultExiftoolBinary = "exiftool"

// ExiftoolInspector reads PDF document information with exiftool.
type ExiftoolInspector struct {
	logger *logrus.Logger
	binary string
}

// NewExiftoolInspector returns an inspector running binary.
func NewExiftoolInspector(log *logrus.Logger, binary string) *ExiftoolInspector {
	if binary == "" {
		binary = DefaultExiftoolBinary
	}
	return &ExiftoolInspector{logger: log, binary: binary}
}

// Inspect returns the document information of a PDF file.
func (e *ExiftoolInspector) Inspect(filePath string) (*DocumentInfo, error) {
	if !compressor.IsPDF(filePath) {
		return nil, fmt.Errorf("%w: %s", compressor.ErrInvalidInput, filePath)
	}

	et, err := exiftool.NewExiftool(exiftool.SetExiftoolBinaryPath(e.binary))
	if err != nil {
		return nil, fmt.Errorf("failed to start exiftool: %w", err)
	}
	defer et.Close()

	files := et.ExtractMetadata(filePath)
	if len(files) == 0 {
		return nil, fmt.Errorf("exiftool returned no metadata for %s", filePath)
	}
	if files[0].Err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", files[0].Err)
	}

	info := documentInfoFromFields(files[0].Fields)
	logger.WithFile(e.logger, filePath).Debugf("Read document info: %d pages, version %s", info.PageCount, info.PDFVersion)
	return info, nil
}

// documentInfoFromFields maps exiftool's JSON fields onto DocumentInfo.
func documentInfoFromFields(fields map[string]interface{}) *DocumentInfo {
	return &DocumentInfo{
		Title:      stringField(fields, "Title"),
		Author:     stringField(fields, "Author"),
		Subject:    stringField(fields, "Subject"),
		Keywords:   stringField(fields, "Keywords"),
		Creator:    stringField(fields, "Creator"),
		Producer:   stringField(fields, "Producer"),
		PageCount:  intField(fields, "PageCount"),
		PDFVersion: stringField(fields, "PDFVersion"),
	}
}

func stringField(fields map[string]interface{}, key string) string {
	switch v := fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func intField(fields map[string]interface{}, key string) int {
	switch v := fields[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}
