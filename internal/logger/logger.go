package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig defines the configuration for the logger.
type LoggerConfig struct {
	Level      string    // debug, info, warn or error
	FilePath   string    // optional rotated log file; empty keeps logs on the console
	MaxSize    int       // megabytes before the log file is rotated
	MaxBackups int       // rotated files to keep
	MaxAge     int       // days to keep rotated files
	Compress   bool      // gzip rotated files
	Console    bool      // also write to Output when FilePath is set
	Output     io.Writer // console writer, os.Stderr when nil
}

// NewLogger returns a JSON logger for one command run.
// The console is stderr: stdout carries the compression report.
func NewLogger(config LoggerConfig) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		return nil, err
	}

	var writers []io.Writer

	if config.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
			return nil, err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.FilePath,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	if config.Console || config.FilePath == "" {
		writers = append(writers, consoleWriter(config.Output))
	}

	logger := newJSONLogger(level)
	if len(writers) > 1 {
		logger.SetOutput(io.MultiWriter(writers...))
	} else {
		logger.SetOutput(writers[0])
	}
	return logger, nil
}

// Fallback returns a warn level console logger, used when the configured
// one cannot be built.
func Fallback(output io.Writer) *logrus.Logger {
	logger := newJSONLogger(logrus.WarnLevel)
	logger.SetOutput(consoleWriter(output))
	return logger
}

// ResolveLevel applies the --verbose and --quiet flags to the configured
// level. Quiet wins.
func ResolveLevel(level string, verbose, quiet bool) string {
	switch {
	case quiet:
		return "error"
	case verbose:
		return "debug"
	}
	return level
}

func newJSONLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
			logrus.FieldKeyFunc:  "function",
		},
	})
	return logger
}

func consoleWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// WithFile returns a logger entry with the specified file context.
func WithFile(logger *logrus.Logger, filePath string) *logrus.Entry {
	return logger.WithField("file", filePath)
}

// WithOperation returns a logger entry with the specified operation context.
func WithOperation(logger *logrus.Logger, operation string) *logrus.Entry {
	return logger.WithField("operation", operation)
}

// WithFileOperation returns a logger entry with both file and operation context.
func WithFileOperation(logger *logrus.Logger, filePath, operation string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"file":      filePath,
		"operation": operation,
	})
}

// DefaultConfig returns the settings of a plain pdfo run: warnings and
// errors only, on the console. Rotation values apply once a file is set.
func DefaultConfig() LoggerConfig {
	return LoggerConfig{
		Level:      "warn",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
		Console:    true,
	}
}
