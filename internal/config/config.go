// Package config loads the tvdump configuration.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned when no config file is found. Callers fall back
// to Default(); tvdump works with no config file at all.
var ErrNoConfig = errors.New("no tvdump config file found")

// Config is the parsed tvdump configuration.
type Config struct {
	// State selects the stamp backend: "file" or "sqlite". Default: file.
	State string `yaml:"state" toml:"state" json:"state"`

	// Journal configures the journal exporter.
	Journal JournalConfig `yaml:"journal" toml:"journal" json:"journal"`

	// Cargo configures the cargo exporter.
	Cargo CargoConfig `yaml:"cargo" toml:"cargo" json:"cargo"`

	// R2, if present, mirrors written files to an R2/S3 bucket.
	R2 *R2Config `yaml:"r2" toml:"r2" json:"r2"`
}

// JournalConfig configures the journal exporter.
type JournalConfig struct {
	// Binary overrides the journalctl binary.
	Binary string `yaml:"binary" toml:"binary" json:"binary"`
}

// CargoConfig configures the cargo exporter.
type CargoConfig struct {
	// Dir is the cargo workspace to read. Default: current directory.
	Dir string `yaml:"dir" toml:"dir" json:"dir"`
}

// R2Config holds credentials for the remote mirror.
type R2Config struct {
	AccountID       string `yaml:"account_id" toml:"account_id" json:"account_id"`
	AccessKeyID     string `yaml:"access_key_id" toml:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" toml:"secret_access_key" json:"secret_access_key"`
	Bucket          string `yaml:"bucket" toml:"bucket" json:"bucket"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load finds and parses a tvdump config file from the given directory.
func Load(dir string) (*Config, string, error) {
	candidates := []struct {
		name   string
		parser func([]byte, *Config) error
	}{
		{"tvdump.yaml", parseYAML},
		{"tvdump.yml", parseYAML},
		{"tvdump.toml", parseTOML},
		{"tvdump.json", parseJSON},
	}

	for _, c := range candidates {
		path := filepath.Join(dir, c.name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue // File doesn't exist, try next
		}

		var cfg Config
		if err := c.parser(data, &cfg); err != nil {
			return nil, c.name, fmt.Errorf("parse %s: %w", c.name, err)
		}

		if err := cfg.Validate(); err != nil {
			return nil, c.name, fmt.Errorf("validate %s: %w", c.name, err)
		}

		cfg.applyDefaults()

		return &cfg, c.name, nil
	}

	return nil, "", ErrNoConfig
}

func parseYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict: error on unknown fields
	return decoder.Decode(cfg)
}

func parseTOML(data []byte, cfg *Config) error {
	_, err := toml.Decode(string(data), cfg)
	return err
}

func parseJSON(data []byte, cfg *Config) error {
	return json.Unmarshal(data, cfg)
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	switch c.State {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("state must be \"file\" or \"sqlite\", got %q", c.State)
	}

	if c.R2 != nil {
		if c.R2.AccountID == "" || c.R2.AccessKeyID == "" || c.R2.SecretAccessKey == "" || c.R2.Bucket == "" {
			return errors.New("r2 requires account_id, access_key_id, secret_access_key, and bucket")
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.State == "" {
		c.State = "file"
	}
	if c.Journal.Binary == "" {
		c.Journal.Binary = "journalctl"
	}
	if c.Cargo.Dir == "" {
		c.Cargo.Dir = "."
	}
}
