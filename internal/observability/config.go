package observability

import "fmt"

// Exporter names accepted in Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// Config selects which conversion telemetry is produced and where it goes.
type Config struct {
	// Exporter is ExporterNone or ExporterStdout. Stdout output is written
	// to the writer handed to Init.
	Exporter    string `yaml:"exporter"`
	ServiceName string `yaml:"service_name"`
	// SampleRate is the fraction of conversion spans kept, 0 through 1.
	SampleRate float64 `yaml:"sample_rate"`

	MetricsEnabled bool `yaml:"metrics"`
	TracesEnabled  bool `yaml:"traces"`
}

// NewConfig returns the defaults: no exporter, everything off.
func NewConfig() *Config {
	return &Config{
		Exporter:    ExporterNone,
		ServiceName: "odbcconv",
		SampleRate:  1.0,
	}
}

// ShouldEnable reports whether Init builds any providers.
func (c *Config) ShouldEnable() bool {
	return c.Exporter != ExporterNone
}

// Validate rejects unknown exporters and out of range sample rates.
func (c *Config) Validate() error {
	switch c.Exporter {
	case ExporterNone, ExporterStdout:
	default:
		return fmt.Errorf("telemetry exporter must be none or stdout, got %q", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be between 0 and 1, got %g", c.SampleRate)
	}
	return nil
}
