package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultConfigPath is the canonical tuning file, kept in sync with Default.
const DefaultConfigPath = "config/defaults.yaml"

// Load reads a tuning file (YAML, JSON or TOML, by extension) on top of
// Default. Keys missing from the file keep their default values, so partial
// files are safe. The result is validated before it is returned.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	// mapstructure decodes into the existing slice without shrinking it.
	if v.IsSet("grid.sizes") {
		cfg.Grid.Sizes = nil
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault returns Default when path is empty and Load(path) otherwise.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
