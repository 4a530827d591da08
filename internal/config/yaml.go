package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the top-level eddmcp configuration file.
type YAMLConfig struct {
	BaseURL   string        `yaml:"base_url"`
	PublicKey string        `yaml:"public_key"`
	Token     string        `yaml:"token"`
	Serve     ServeConfig   `yaml:"serve"`
	Logging   LoggingConfig `yaml:"logging"`
}

// ServeConfig controls the MCP transport.
type ServeConfig struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultYAMLConfig returns a YAMLConfig pre-filled with sensible
// defaults. Credentials are intentionally left empty; they normally
// come from the environment.
func DefaultYAMLConfig() *YAMLConfig {
	return &YAMLConfig{
		Serve: ServeConfig{
			Transport: "stdio",
			Port:      3001,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// WriteDefaultConfig writes the default configuration to a YAML file.
// It refuses to overwrite an existing file.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := yaml.Marshal(DefaultYAMLConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
