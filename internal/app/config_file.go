package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and keep the file readable.
type FileConfig struct {
	Fetch struct {
		UA string `yaml:"ua"`
		// Timeout is a Go duration string, e.g. "10s".
		Timeout         string `yaml:"timeout"`
		RedirectMaxHops int    `yaml:"redirectMaxHops"`
		MaxConcurrent   int    `yaml:"maxConcurrent"`
	} `yaml:"fetch"`

	Extract struct {
		Mode     string `yaml:"mode"`
		MaxChars int    `yaml:"maxChars"`
	} `yaml:"extract"`

	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads YAML into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags should already have been parsed; this
// lets file config supply defaults while preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.UserAgent == "" && fc.Fetch.UA != "" {
		cfg.UserAgent = fc.Fetch.UA
	}
	if cfg.Timeout == 0 && fc.Fetch.Timeout != "" {
		if d, err := time.ParseDuration(fc.Fetch.Timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if cfg.RedirectMaxHops == 0 && fc.Fetch.RedirectMaxHops > 0 {
		cfg.RedirectMaxHops = fc.Fetch.RedirectMaxHops
	}
	if cfg.MaxConcurrent == 0 && fc.Fetch.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.Fetch.MaxConcurrent
	}
	if cfg.ExtractMode == "" && fc.Extract.Mode != "" {
		cfg.ExtractMode = fc.Extract.Mode
	}
	if cfg.MaxChars == 0 && fc.Extract.MaxChars > 0 {
		cfg.MaxChars = fc.Extract.MaxChars
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
