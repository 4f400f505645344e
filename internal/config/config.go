package config

import (
	"fmt"
	"strings"

	"pdfo/internal/compressor"
	"pdfo/internal/logger"
	"pdfo/internal/metadata"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. PDFO_COMPRESSION_QUALITY.
const EnvPrefix = "PDFO"

// Config represents the main configuration structure
type Config struct {
	Compression CompressionConfig `mapstructure:"compression"`
	Metadata    MetadataConfig    `mapstructure:"metadata"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// CompressionConfig contains defaults for a compression run
type CompressionConfig struct {
	Quality            int    `mapstructure:"quality"`
	Suffix             string `mapstructure:"suffix"`
	GhostscriptBinary  string `mapstructure:"ghostscript_binary"`
	DisableGhostscript bool   `mapstructure:"disable_ghostscript"`
}

// MetadataConfig contains settings for the inspect command
type MetadataConfig struct {
	ExiftoolBinary string `mapstructure:"exiftool_binary"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	logging := logger.DefaultConfig()
	return &Config{
		Compression: CompressionConfig{
			Quality:            compressor.DefaultQuality,
			Suffix:             compressor.DefaultOutputSuffix,
			GhostscriptBinary:  compressor.DefaultGhostscriptBinary,
			DisableGhostscript: false,
		},
		Metadata: MetadataConfig{
			ExiftoolBinary: metadata.DefaultExiftoolBinary,
		},
		Logging: LoggingConfig{
			Level:      logging.Level,
			FilePath:   logging.FilePath,
			MaxSize:    logging.MaxSize,
			MaxBackups: logging.MaxBackups,
			MaxAge:     logging.MaxAge,
			Compress:   logging.Compress,
		},
	}
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches the default locations; a missing file there
// is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pdfo")
		v.AddConfigPath("/etc/pdfo")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("compression.quality", d.Compression.Quality)
	v.SetDefault("compression.suffix", d.Compression.Suffix)
	v.SetDefault("compression.ghostscript_binary", d.Compression.GhostscriptBinary)
	v.SetDefault("compression.disable_ghostscript", d.Compression.DisableGhostscript)
	v.SetDefault("metadata.exiftool_binary", d.Metadata.ExiftoolBinary)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := compressor.PresetFor(c.Compression.Quality); err != nil {
		return fmt.Errorf("compression.quality: %w", err)
	}

	if c.Compression.Suffix == "" {
		return fmt.Errorf("compression.suffix must not be empty")
	}
	if strings.ContainsAny(c.Compression.Suffix, `/\`) {
		return fmt.Errorf("compression.suffix must not contain path separators: %s", c.Compression.Suffix)
	}

	if c.Compression.GhostscriptBinary == "" {
		c.Compression.GhostscriptBinary = compressor.DefaultGhostscriptBinary
	}
	if c.Metadata.ExiftoolBinary == "" {
		c.Metadata.ExiftoolBinary = metadata.DefaultExiftoolBinary
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.MaxSize <= 0 {
		c.Logging.MaxSize = logger.DefaultConfig().MaxSize
	}

	return nil
}
