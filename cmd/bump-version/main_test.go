package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestBumpMinor(t *testing.T) {
	path := writeManifest(t, "[project]\nname = \"pdfo\"\nversion = \"1.2.3\"\n")

	code, stdout, stderr := run("--file", path, "--bump", "minor")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "1.3.0\n", stdout)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = \"1.3.0\"")
}

func TestCurrent(t *testing.T) {
	path := writeManifest(t, "version = \"0.4.1\"\n")

	code, stdout, _ := run("--file", path, "--current")
	assert.Equal(t, 0, code)
	assert.Equal(t, "0.4.1\n", stdout)

	data, _ := os.ReadFile(path)
	assert.Equal(t, "version = \"0.4.1\"\n", string(data))
}

func TestBumpRequired(t *testing.T) {
	path := writeManifest(t, "version = \"0.4.1\"\n")

	code, _, stderr := run("--file", path)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: --bump is required unless --current is set\n", stderr)
}

func TestUnknownBump(t *testing.T) {
	path := writeManifest(t, "version = \"0.4.1\"\n")

	code, _, stderr := run("--file", path, "--bump", "build")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown bump type")
}

func TestVersionNotFound(t *testing.T) {
	path := writeManifest(t, "[project]\nname = \"pdfo\"\n")

	code, _, stderr := run("--file", path, "--bump", "patch")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: could not find version in pyproject.toml\n", stderr)
}

func TestMissingFile(t *testing.T) {
	code, _, _ := run("--file", filepath.Join(t.TempDir(), "absent.toml"), "--current")
	assert.Equal(t, 1, code)
}

func TestBumpTypeIsCaseSensitive(t *testing.T) {
	path := writeManifest(t, "version = \"0.4.1\"\n")

	code, stdout, stderr := run("--file", path, "--bump", "MINOR")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "unknown bump type: MINOR")

	data, _ := os.ReadFile(path)
	assert.Equal(t, "version = \"0.4.1\"\n", string(data))
}
