// Package config reads the optional yaml configuration controlling which
// backends are enabled and how the conversion engine behaves by default.
package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Backends enabled for CLI listings and registration checks. Empty
	// means all compiled-in backends.
	Backends []string `yaml:"backends"`
	// ConversionMode is "strict" or "lenient".
	ConversionMode string `yaml:"conversionMode"`
	// LogLevel is a zap level name; empty disables logging.
	LogLevel string `yaml:"logLevel"`
}

func Default() *Config {
	return &Config{ConversionMode: "strict"}
}

// DefaultPath is ~/.remora/config.yml.
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "couldn't resolve home directory")
	}
	return filepath.Join(home, ".remora", "config.yml"), nil
}

// Read loads a config file. A missing file yields the defaults.
func Read(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, "couldn't open config file")
	}
	defer f.Close()

	config := Default()
	if err := yaml.NewDecoder(f).Decode(config); err != nil {
		return nil, errors.Wrap(err, "couldn't decode yaml configuration")
	}
	if config.ConversionMode != "strict" && config.ConversionMode != "lenient" {
		return nil, errors.Errorf("invalid conversionMode %q, expected strict or lenient", config.ConversionMode)
	}
	return config, nil
}
