package blockdct

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the file-based configuration of the blockdct tool.
type Config struct {
	Threshold   float64       `yaml:"threshold"`
	Workers     int           `yaml:"workers"`
	JPEGQuality int           `yaml:"jpeg_quality"`
	Figure      FigureOptions `yaml:"figure"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:   defaultThreshold,
		JPEGQuality: defaultJPEGQuality,
		Figure:      DefaultFigureOptions(),
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrIO, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML config data on top of DefaultConfig.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
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

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", c.Workers)
	}
	if c.JPEGQuality < 0 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality out of range: %d", c.JPEGQuality)
	}
	switch c.Figure.Layout {
	case "", LayoutSideBySide, LayoutSeparate:
	default:
		return fmt.Errorf("unknown figure layout: %q", c.Figure.Layout)
	}
	return nil
}

// CompressOption applies the config to pipeline options.
func (c Config) CompressOption() func(o *CompressOptions) {
	return func(o *CompressOptions) {
		o.Threshold = c.Threshold
		o.Workers = c.Workers
	}
}
