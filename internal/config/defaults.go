package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Source defaults
	DefaultRoot        = "./docs"
	DefaultMaxFileSize = "10MB"

	// Manifest defaults
	DefaultOutput          = "./public/manifest.json"
	DefaultManifestVersion = "1.0.0"
	DefaultSchemaRef       = "./manifest.schema.json"

	// Build defaults
	DefaultConcurrency = 4

	// Notify defaults
	DefaultNotifyTimeout = 10 * time.Second
	DefaultNotifyRetries = 3

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "auto"
)

// DefaultExtensions lists the document extensions scanned by default
var DefaultExtensions = []string{".md", ".mdx"}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docsmith"
	}
	return filepath.Join(home, ".docsmith")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Root:        DefaultRoot,
			Extensions:  append([]string{}, DefaultExtensions...),
			Exclude:     nil,
			MaxFileSize: DefaultMaxFileSize,
		},
		Manifest: ManifestConfig{
			Output:    DefaultOutput,
			Version:   DefaultManifestVersion,
			SchemaRef: DefaultSchemaRef,
		},
		Build: BuildConfig{
			Concurrency: DefaultConcurrency,
		},
		Notify: NotifyConfig{
			Timeout:    DefaultNotifyTimeout,
			MaxRetries: DefaultNotifyRetries,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
