// Package config loads the optional YAML file read by the command line tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	rustdocjson "github.com/reoring/rustdocjson"
)

// Output formats accepted by the load command.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config mirrors the load command's flags. Flags given on the command line
// override values read from the file.
type Config struct {
	Strategy    rustdocjson.Strategy `yaml:"strategy"`
	Concurrency int                  `yaml:"concurrency"`
	FailFast    bool                 `yaml:"fail_fast"`
	Output      string               `yaml:"output"`
	LogLevel    string               `yaml:"log_level"`
	Paths       []string             `yaml:"paths"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Strategy:    rustdocjson.StrategyStandard,
		Concurrency: 4,
		Output:      OutputText,
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	switch strings.ToLower(c.Output) {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	return nil
}
