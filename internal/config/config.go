// Package config provides configuration loading for accessioner.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables prefixed with ACCESSIONER_ (ACCESSIONER_STORE_PATH -> store.path)
//  2. YAML config file passed with --config
//  3. Built-in defaults
//
// CLI flags are applied on top of the loaded Config by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is stripped from environment variable names before mapping.
	EnvPrefix = "ACCESSIONER_"

	maxConfigFileSize = 1024 * 1024
)

// defaults is loaded before any file or environment source.
var defaults = []byte(`
store:
  path: library_records_updated.csv
catalog:
  accession_column: Acc_No
  title_column: Ttitle
  canonical_keys: true
server:
  port: 8888
  max_upload_mb: 10
log:
  level: info
`)

// Config holds the complete accessioner configuration.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	Catalog CatalogConfig `koanf:"catalog"`
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
}

// StoreConfig locates the append-only output dataset.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// CatalogConfig declares the columns the uploaded dataset must carry.
type CatalogConfig struct {
	AccessionColumn string `koanf:"accession_column"`
	TitleColumn     string `koanf:"title_column"`
	// CanonicalKeys zero-pads the accession column at ingestion so numeric
	// values like 123 match the key 000123.
	CanonicalKeys bool `koanf:"canonical_keys"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port        int `koanf:"port"`
	MaxUploadMB int `koanf:"max_upload_mb"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Load reads defaults, then the optional YAML file at path, then environment
// overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaults), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// envKey maps ACCESSIONER_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		return errors.New("store path must not be empty")
	}
	if c.Catalog.AccessionColumn == "" || c.Catalog.TitleColumn == "" {
		return errors.New("catalog accession and title columns must be set")
	}
	if c.Catalog.AccessionColumn == c.Catalog.TitleColumn {
		return fmt.Errorf("catalog accession and title columns must differ (both %q)", c.Catalog.AccessionColumn)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("invalid max upload size: %dMB", c.Server.MaxUploadMB)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q (must be debug, info, warn or error)", c.Log.Level)
	}
	return nil
}
