package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (DOCSMITH_*)
	v.SetEnvPrefix("DOCSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate and apply defaults for invalid values
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithViper loads configuration on a fresh viper instance and returns
// both. Useful in tests that must not touch global state.
func LoadWithViper() (*Config, *viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, err
		}
	}

	v.SetEnvPrefix("DOCSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.root", DefaultRoot)
	v.SetDefault("source.extensions", DefaultExtensions)
	v.SetDefault("source.exclude", []string{})
	v.SetDefault("source.max_file_size", DefaultMaxFileSize)

	// Manifest defaults
	v.SetDefault("manifest.output", DefaultOutput)
	v.SetDefault("manifest.version", DefaultManifestVersion)
	v.SetDefault("manifest.schema_ref", DefaultSchemaRef)
	v.SetDefault("manifest.emit_schema", false)
	v.SetDefault("manifest.compress", false)
	v.SetDefault("manifest.stable_order", false)

	// Build defaults
	v.SetDefault("build.concurrency", DefaultConcurrency)
	v.SetDefault("build.progress", false)

	// Notify defaults
	v.SetDefault("notify.url", "")
	v.SetDefault("notify.timeout", DefaultNotifyTimeout)
	v.SetDefault("notify.max_retries", DefaultNotifyRetries)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	dir := ConfigDir()
	return os.MkdirAll(dir, 0755)
}
