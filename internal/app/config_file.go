package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to the flag names.
type FileConfig struct {
	Input     string   `yaml:"input" json:"input"`
	Output    string   `yaml:"output" json:"output"`
	OutputPDF string   `yaml:"outputPDF" json:"outputPDF"`
	URLs      []string `yaml:"urls" json:"urls"`

	UserAgent   string        `yaml:"userAgent" json:"userAgent"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	MaxAttempts int           `yaml:"maxAttempts" json:"maxAttempts"`

	Delay struct {
		Min time.Duration `yaml:"min" json:"min"`
		Max time.Duration `yaml:"max" json:"max"`
	} `yaml:"delay" json:"delay"`

	Robots bool `yaml:"robots" json:"robots"`

	Cache struct {
		Dir    string        `yaml:"dir" json:"dir"`
		MaxAge time.Duration `yaml:"maxAge" json:"maxAge"`
		Clear  bool          `yaml:"clear" json:"clear"`
	} `yaml:"cache" json:"cache"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields the
// flags left at their defaults. Flags should already have been parsed; this
// lets file config supply defaults while explicit flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.OutputPath == "" || cfg.OutputPath == DefaultOutputPath) && fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if cfg.OutputPDFPath == "" && fc.OutputPDF != "" {
		cfg.OutputPDFPath = fc.OutputPDF
	}
	if len(cfg.URLs) == 0 && len(fc.URLs) > 0 {
		cfg.URLs = append([]string{}, fc.URLs...)
	}

	if cfg.UserAgent == "" && fc.UserAgent != "" {
		cfg.UserAgent = fc.UserAgent
	}
	if (cfg.Timeout == 0 || cfg.Timeout == DefaultTimeout) && fc.Timeout > 0 {
		cfg.Timeout = fc.Timeout
	}
	if cfg.MaxAttempts == 0 && fc.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.MaxAttempts
	}

	if (cfg.DelayMin == 0 || cfg.DelayMin == DefaultDelayMin) && fc.Delay.Min > 0 {
		cfg.DelayMin = fc.Delay.Min
	}
	if (cfg.DelayMax == 0 || cfg.DelayMax == DefaultDelayMax) && fc.Delay.Max > 0 {
		cfg.DelayMax = fc.Delay.Max
	}
	if !cfg.RespectRobots && fc.Robots {
		cfg.RespectRobots = true
	}

	if cfg.CacheDir == "" && fc.Cache.Dir != "" {
		cfg.CacheDir = fc.Cache.Dir
	}
	if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = fc.Cache.MaxAge
	}
	if !cfg.CacheClear && fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" && len(cfg.URLs) == 0 {
		return errors.New("config: an input file or at least one URL is required")
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return errors.New("config: output path is required")
	}
	if cfg.Timeout < 0 || cfg.DelayMin < 0 || cfg.DelayMax < 0 {
		return errors.New("config: negative durations are not allowed")
	}
	if cfg.DelayMax > 0 && cfg.DelayMin > cfg.DelayMax {
		return errors.New("config: delay.min must not exceed delay.max")
	}
	return nil
}
