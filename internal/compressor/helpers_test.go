package compressor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"
)

// fakeBackend records calls and writes outSize bytes to the output path.
type fakeBackend struct {
	name    string
	outSize int
	err     error
	calls   int
	preset  QualityPreset
}

func (f *fakeBackend) Name() string {
	return f.name
}

func (f *fakeBackend) Compress(_ context.Context, inputPath, outputPath string, preset QualityPreset) (Result, error) {
	f.calls++
	f.preset = preset
	res := Result{Method: f.name, InputPath: inputPath, OutputPath: outputPath, StartedAt: time.Now()}
	if f.err != nil {
		return res, f.err
	}
	if err := os.WriteFile(outputPath, bytes.Repeat([]byte{'y'}, f.outSize), 0644); err != nil {
		return res, err
	}
	res.FinishedAt = time.Now()
	in, out, err := fileSizes(inputPath, outputPath)
	res.InputSize, res.OutputSize = in, out
	return res, err
}

func lookupFound(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

func lookupMissing(file string) (string, error) {
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", file)
}
