package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source" yaml:"source"`
	Manifest ManifestConfig `mapstructure:"manifest" yaml:"manifest"`
	Build    BuildConfig    `mapstructure:"build" yaml:"build"`
	Notify   NotifyConfig   `mapstructure:"notify" yaml:"notify"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// SourceConfig describes where documents are discovered
type SourceConfig struct {
	Root        string   `mapstructure:"root" yaml:"root"`
	Extensions  []string `mapstructure:"extensions" yaml:"extensions"`
	Exclude     []string `mapstructure:"exclude" yaml:"exclude"`
	MaxFileSize string   `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// ManifestConfig describes the emitted artifact
type ManifestConfig struct {
	Output      string `mapstructure:"output" yaml:"output"`
	Version     string `mapstructure:"version" yaml:"version"`
	SchemaRef   string `mapstructure:"schema_ref" yaml:"schema_ref"`
	EmitSchema  bool   `mapstructure:"emit_schema" yaml:"emit_schema"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	StableOrder bool   `mapstructure:"stable_order" yaml:"stable_order"`
}

// BuildConfig contains pipeline execution settings
type BuildConfig struct {
	Concurrency int  `mapstructure:"concurrency" yaml:"concurrency"`
	Progress    bool `mapstructure:"progress" yaml:"progress"`
}

// NotifyConfig contains webhook notification settings
type NotifyConfig struct {
	URL        string        `mapstructure:"url" yaml:"url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and repairs out-of-range values
func (c *Config) Validate() error {
	if c.Source.Root == "" {
		c.Source.Root = DefaultRoot
	}
	if len(c.Source.Extensions) == 0 {
		c.Source.Extensions = append([]string{}, DefaultExtensions...)
	}
	if c.Source.MaxFileSize == "" {
		c.Source.MaxFileSize = DefaultMaxFileSize
	} else {
		if _, err := ParseSize(c.Source.MaxFileSize); err != nil {
			return fmt.Errorf("invalid source.max_file_size: %w", err)
		}
	}
	if c.Manifest.Output == "" {
		c.Manifest.Output = DefaultOutput
	}
	if c.Manifest.Version == "" {
		c.Manifest.Version = DefaultManifestVersion
	}
	if c.Manifest.SchemaRef == "" {
		c.Manifest.SchemaRef = DefaultSchemaRef
	}
	if c.Build.Concurrency < 1 {
		c.Build.Concurrency = DefaultConcurrency
	}
	if c.Notify.Timeout < time.Second {
		c.Notify.Timeout = DefaultNotifyTimeout
	}
	if c.Notify.MaxRetries < 0 {
		c.Notify.MaxRetries = DefaultNotifyRetries
	}
	return nil
}

// MaxFileSizeBytes returns source.max_file_size in bytes. Validate must have
// accepted the configuration first.
func (c *Config) MaxFileSizeBytes() int64 {
	n, err := ParseSize(c.Source.MaxFileSize)
	if err != nil {
		n, _ = ParseSize(DefaultMaxFileSize)
	}
	return n
}

func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	var multiplier int64 = 1
	if strings.HasSuffix(s, "GB") {
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	} else if strings.HasSuffix(s, "MB") {
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	} else if strings.HasSuffix(s, "KB") {
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no numeric value in size string")
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value: %w", err)
	}

	if n < 0 {
		return 0, fmt.Errorf("negative size not allowed")
	}

	return n * multiplier, nil
}
