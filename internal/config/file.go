package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cozy-creator/hubuser/internal/timex"
)

// FileConfig is the on-disk shape of the config file. Durations use
// timex.Duration so they can be written as "30s" or as nanoseconds.
// Only fields present in the file override the current Config.
type FileConfig struct {
	HubURL        string         `json:"hub_url" yaml:"hub_url"`
	DatabaseDSN   string         `json:"database_dsn" yaml:"database_dsn"`
	Mode          string         `json:"mode" yaml:"mode"`
	HTTPTimeout   timex.Duration `json:"http_timeout" yaml:"http_timeout"`
	MigrateSchema *bool          `json:"migrate_schema" yaml:"migrate_schema"`
	LogLevel      string         `json:"log_level" yaml:"log_level"`
	LogFormat     string         `json:"log_format" yaml:"log_format"`
	LogBackend    string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile overlays cfg with values from path. An empty path is a no-op.
func parseFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.HubURL != "" {
		cfg.HubURL = fc.HubURL
	}
	if fc.DatabaseDSN != "" {
		cfg.DatabaseDSN = fc.DatabaseDSN
	}
	if fc.Mode != "" {
		cfg.Mode = Mode(fc.Mode)
	}
	if fc.HTTPTimeout.Duration != 0 {
		cfg.HTTPTimeout = fc.HTTPTimeout.Duration
	}
	if fc.MigrateSchema != nil {
		cfg.MigrateSchema = *fc.MigrateSchema
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogFormat != "" {
		cfg.LogFormat = fc.LogFormat
	}
	if fc.LogBackend != "" {
		cfg.LogBackend = fc.LogBackend
	}
}
