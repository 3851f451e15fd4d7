// Package config defines the configuration for chunkstore. A single
// StorageConfig carries the table settings along with the logging, metrics
// and export sections used by the CLI.
//
// Example usage:
//
//	cfg, err := config.Load("chunkstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	table, err := storage.NewTable(cfg.MaxChunkSize)
package config

import (
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/chunkstore/pkg/compression"
	"github.com/ajitpratap0/chunkstore/pkg/errors"
	"github.com/ajitpratap0/chunkstore/pkg/logger"
	"github.com/ajitpratap0/chunkstore/pkg/observability"
)

// DefaultMaxChunkSize is the chunk capacity used when none is configured.
const DefaultMaxChunkSize uint32 = 65535

// StorageConfig is the top-level configuration.
type StorageConfig struct {
	// MaxChunkSize is the row capacity of every chunk in new tables
	MaxChunkSize uint32 `yaml:"max_chunk_size" json:"max_chunk_size" mapstructure:"max_chunk_size"`

	// Logging configures the global zap logger
	Logging logger.Config `yaml:"logging" json:"logging" mapstructure:"logging"`

	// Metrics controls Prometheus collection
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`

	// Export configures Arrow file output
	Export ExportConfig `yaml:"export" json:"export" mapstructure:"export"`

	// Tracing configures OpenTelemetry span output
	Tracing observability.TracingConfig `yaml:"tracing" json:"tracing" mapstructure:"tracing"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled registers the storage collector with the default registry
	Enabled bool `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
}

// ExportConfig contains export settings.
type ExportConfig struct {
	// Compression selects the stream codec (none, gzip, snappy, lz4, zstd, s2)
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
	// Level sets compression ratio vs speed (1-9)
	Level int `yaml:"level" json:"level" mapstructure:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *StorageConfig {
	return &StorageConfig{
		MaxChunkSize: DefaultMaxChunkSize,
		Logging:      logger.DefaultConfig(),
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Export: ExportConfig{
			Compression: string(compression.Zstd),
			Level:       int(compression.Default),
		},
		Tracing: observability.DefaultTracingConfig(),
	}
}

// Validate checks ranges and names. It returns a config error describing
// the first problem found.
func (c *StorageConfig) Validate() error {
	if c.MaxChunkSize == 0 {
		return errors.New(errors.ErrorTypeConfig, "max_chunk_size must be positive")
	}
	if c.Logging.Level != "" {
		if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "invalid logging.level")
		}
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}
	if _, err := compression.ParseAlgorithm(c.Export.Compression); err != nil {
		return err
	}
	if c.Export.Level < 0 || c.Export.Level > int(compression.Best) {
		return errors.Newf(errors.ErrorTypeConfig, "export.level must be between 0 and %d", compression.Best)
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return errors.New(errors.ErrorTypeConfig, "tracing.sampling_rate must be within [0, 1]")
	}
	return nil
}

// CompressionConfig converts the export section for compression.NewCompressor.
func (e ExportConfig) CompressionConfig() (*compression.Config, error) {
	algorithm, err := compression.ParseAlgorithm(e.Compression)
	if err != nil {
		return nil, err
	}
	level := compression.Level(e.Level)
	if level == 0 {
		level = compression.Default
	}
	return &compression.Config{Algorithm: algorithm, Level: level}, nil
}
