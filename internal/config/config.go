// Package config assembles odbcconv configuration from defaults, an
// optional YAML file and ODBCCONV_* environment variables. Command line
// flags are layered on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/markb/odbcconv/internal/convert"
	"github.com/markb/odbcconv/internal/log"
	"github.com/markb/odbcconv/internal/observability"
)

// EngineConfig holds the conversion engine limits.
type EngineConfig struct {
	// MaxLiteralBytes caps the statement buffer built by a store.
	MaxLiteralBytes int `yaml:"max_literal_bytes"`
	// WideStageBytes is the narrow staging size for wide character fetches.
	WideStageBytes int `yaml:"wide_stage_bytes"`
}

// Config is the complete odbcconv configuration.
type Config struct {
	Log       log.Config           `yaml:"log"`
	Telemetry observability.Config `yaml:"telemetry"`
	Engine    EngineConfig         `yaml:"engine"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:       *log.DefaultConfig(),
		Telemetry: *observability.NewConfig(),
		Engine: EngineConfig{
			MaxLiteralBytes: convert.DefaultMaxLiteralBytes,
			WideStageBytes:  convert.DefaultWideStageBytes,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path, when path
// is not empty, and then with the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from ODBCCONV_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(name string, dst *int) {
		if v, ok := lookup(name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}

	str("ODBCCONV_LOG_MODE", &c.Log.Mode)
	str("ODBCCONV_LOG_LEVEL", &c.Log.Level)
	str("ODBCCONV_LOG_FORMAT", &c.Log.Format)
	str("ODBCCONV_LOG_DB", &c.Log.DBPath)
	num("ODBCCONV_LOG_RETENTION_DAYS", &c.Log.RetentionDays)
	num("ODBCCONV_LOG_BUFFER_LINES", &c.Log.BufferLines)

	str("ODBCCONV_OTEL_EXPORTER", &c.Telemetry.Exporter)
	str("ODBCCONV_OTEL_SERVICE_NAME", &c.Telemetry.ServiceName)
	flag("ODBCCONV_OTEL_METRICS", &c.Telemetry.MetricsEnabled)
	flag("ODBCCONV_OTEL_TRACES", &c.Telemetry.TracesEnabled)

	num("ODBCCONV_MAX_LITERAL_BYTES", &c.Engine.MaxLiteralBytes)
	num("ODBCCONV_WIDE_STAGE_BYTES", &c.Engine.WideStageBytes)

	return errors.Join(errs...)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Log.Mode {
	case "console", "trace":
	default:
		return fmt.Errorf("log mode must be console or trace, got %q", c.Log.Mode)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return err
	}
	if c.Engine.MaxLiteralBytes <= 0 {
		return fmt.Errorf("max literal bytes must be positive, got %d", c.Engine.MaxLiteralBytes)
	}
	if c.Engine.WideStageBytes <= 0 {
		return fmt.Errorf("wide stage bytes must be positive, got %d", c.Engine.WideStageBytes)
	}
	return nil
}
