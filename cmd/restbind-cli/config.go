package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration file format. Every field is
// optional; explicit command-line flags take precedence.
type FileConfig struct {
	BaseURL     string            `yaml:"base_url"`
	Resource    string            `yaml:"resource"`
	IDAttribute string            `yaml:"id_attribute"`
	Journal     string            `yaml:"journal"`
	LogLevel    string            `yaml:"log_level"`
	Timeout     string            `yaml:"timeout"`
	Headers     map[string]string `yaml:"headers"`

	// Resources maps short names to resource paths, so the use command
	// accepts "use todos" instead of "use /api/v2/todos".
	Resources map[string]string `yaml:"resources"`
}

// LoadFileConfig reads and parses a YAML configuration file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// ParseTimeout converts the timeout field into a duration. An empty
// field reports ok=false so the flag default survives.
func (c *FileConfig) ParseTimeout() (time.Duration, bool, error) {
	if c.Timeout == "" {
		return 0, false, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, false, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, true, nil
}
