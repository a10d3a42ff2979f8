// Package config loads the YAML settings of the griffdump command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the reader settings. Zero values select the defaults.
type Config struct {
	LogLevel         string `yaml:"log_level"`
	LoopCount        int    `yaml:"loop_count"`
	AllowSetupChange bool   `yaml:"allow_setup_change"`
	VerifyIntegrity  bool   `yaml:"verify_integrity"`
	MaxEvents        int    `yaml:"max_events"`
}

// Default returns the settings used without a config file.
func Default() Config {
	return Config{LogLevel: "warn", LoopCount: 1}
}

// Load reads path. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes data on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the log level and that the counters are not negative.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config log_level: %w", err)
	}
	if c.LoopCount < 0 {
		return fmt.Errorf("config loop_count must be >= 0, got %d", c.LoopCount)
	}
	if c.MaxEvents < 0 {
		return fmt.Errorf("config max_events must be >= 0, got %d", c.MaxEvents)
	}

	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}

	return level
}
