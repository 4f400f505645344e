package config

import (
	"os"
	"path/filepath"
	"testing"

	"pdfo/internal/compressor"
	"pdfo/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	a := assert.New(t)
	a.Equal(2, cfg.Compression.Quality)
	a.Equal("_compressed", cfg.Compression.Suffix)
	a.Equal("gs", cfg.Compression.GhostscriptBinary)
	a.Equal("exiftool", cfg.Metadata.ExiftoolBinary)
	a.Equal("warn", cfg.Logging.Level)

	logging := logger.DefaultConfig()
	a.Equal(logging.MaxSize, cfg.Logging.MaxSize)
	a.Equal(logging.MaxBackups, cfg.Logging.MaxBackups)
	a.Equal(logging.MaxAge, cfg.Logging.MaxAge)
	a.Empty(cfg.Logging.FilePath)
}

func TestValidate(t *testing.T) {
	t.Run("quality", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Compression.Quality = 5
		assert.ErrorIs(t, cfg.Validate(), compressor.ErrInvalidQuality)
	})
	t.Run("suffix with separator", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Compression.Suffix = "/out"
		assert.Error(t, cfg.Validate())
	})
	t.Run("log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "chatty"
		assert.Error(t, cfg.Validate())
	})
	t.Run("binaries fall back to defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Compression.GhostscriptBinary = ""
		cfg.Metadata.ExiftoolBinary = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "gs", cfg.Compression.GhostscriptBinary)
		assert.Equal(t, "exiftool", cfg.Metadata.ExiftoolBinary)
	})
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`compression:
  quality: 3
  suffix: _small
  ghostscript_binary: /opt/gs/bin/gs
logging:
  level: debug
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	a := assert.New(t)
	a.Equal(3, cfg.Compression.Quality)
	a.Equal("_small", cfg.Compression.Suffix)
	a.Equal("/opt/gs/bin/gs", cfg.Compression.GhostscriptBinary)
	a.False(cfg.Compression.DisableGhostscript)
	a.Equal("debug", cfg.Logging.Level)
	a.Equal(3, cfg.Logging.MaxBackups)
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PDFO_COMPRESSION_QUALITY", "4")
	t.Setenv("PDFO_COMPRESSION_DISABLE_GHOSTSCRIPT", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Compression.Quality)
	assert.True(t, cfg.Compression.DisableGhostscript)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compression:\n  quality: 9\n"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorIs(t, err, compressor.ErrInvalidQuality)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
