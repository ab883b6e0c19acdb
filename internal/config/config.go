// Package config loads formweight settings.
//
// Settings come from four layers, later ones winning: built-in defaults,
// an optional YAML file, an optional .env file, and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDataDir             = "FORMWEIGHT_DATA_DIR"
	EnvLogLevel            = "FORMWEIGHT_LOG_LEVEL"
	EnvResolveDependencies = "FORMWEIGHT_RESOLVE_DEPENDENCIES"
	EnvDebounceMS          = "FORMWEIGHT_DEBOUNCE_MS"
)

// Config is the full application configuration.
type Config struct {
	DataDir  string         `yaml:"data_dir"`
	Logging  LoggingConfig  `yaml:"logging"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Edit     EditConfig     `yaml:"edit"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

// AnalysisConfig controls the weighting pipeline.
type AnalysisConfig struct {
	ResolveDependencies bool `yaml:"resolve_dependencies"`
}

// EditConfig controls manual weight edits.
type EditConfig struct {
	// DebounceMS delays persisting a burst of edits to one question.
	// 0 writes every edit immediately.
	DebounceMS int `yaml:"debounce_ms"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:  filepath.Join(home, ".formweight"),
		Logging:  LoggingConfig{Level: "info"},
		Analysis: AnalysisConfig{ResolveDependencies: true},
		Edit:     EditConfig{DebounceMS: 300},
	}
}

// DefaultPath is where Load looks for a YAML file when none is given.
func DefaultPath() string {
	return filepath.Join(DefaultConfig().DataDir, "config.yaml")
}

// Load reads the YAML file at path (DefaultPath when empty; a missing file
// is fine), then .env in the working directory, then the environment.
func Load(path string) (Config, error) {
	return load(path, ".env")
}

func load(path, envFile string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	dotenv := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if dotenv, err = godotenv.Read(envFile); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", envFile, err)
			}
		}
	}
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	cfg.DataDir = expandHome(cfg.DataDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvResolveDependencies); ok && v != "" {
		b, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvResolveDependencies, err)
		}
		cfg.Analysis.ResolveDependencies = b
	}
	if v, ok := lookup(EnvDebounceMS); ok && v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvDebounceMS, err)
		}
		cfg.Edit.DebounceMS = n
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir is empty")
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("config: unknown log level %q", c.Logging.Level)
	}
	if c.Edit.DebounceMS < 0 {
		return fmt.Errorf("config: debounce_ms must not be negative, got %d", c.Edit.DebounceMS)
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
