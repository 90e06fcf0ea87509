package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Backend modes.
const (
	ModeRelay  = "relay"
	ModeDirect = "direct"
)

// ErrMissingAPIKey is returned when direct mode is configured without a key.
var ErrMissingAPIKey = errors.New("direct mode requires an API key (set it with 'gyst config --api-key <key>' or ANTHROPIC_API_KEY)")

// Config represents the gyst configuration.
type Config struct {
	Mode             string `json:"mode"`
	APIKey           string `json:"apiKey,omitempty"`
	Model            string `json:"model"`
	RelayURL         string `json:"relayUrl"`
	MaxDiffSize      int    `json:"maxDiffSize"`
	MaxSubjectLength int    `json:"maxSubjectLength"`
	PushDefault      bool   `json:"pushDefault"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Mode:             ModeRelay,
		Model:            "claude-3-5-haiku-20241022",
		RelayURL:         "https://api.gyst.sh",
		MaxDiffSize:      1000,
		MaxSubjectLength: 72,
	}
}

// Validate checks constraints that must hold before any network call.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeRelay, ModeDirect:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", c.Mode, ModeRelay, ModeDirect)
	}
	if c.Mode == ModeDirect && c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.MaxDiffSize <= 0 {
		return fmt.Errorf("maxDiffSize must be positive, got %d", c.MaxDiffSize)
	}
	if c.MaxSubjectLength <= 0 {
		return fmt.Errorf("maxSubjectLength must be positive, got %d", c.MaxSubjectLength)
	}
	return nil
}

// ConfigDir returns the platform-appropriate config directory for gyst.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gyst"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "gyst"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "gyst"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "gyst"), nil
	default:
		return filepath.Join(home, ".config", "gyst"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file. The file is created 0600
// because it may hold an API key.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Mode != "" {
		dst.Mode = src.Mode
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.RelayURL != "" {
		dst.RelayURL = src.RelayURL
	}
	if src.MaxDiffSize > 0 {
		dst.MaxDiffSize = src.MaxDiffSize
	}
	if src.MaxSubjectLength > 0 {
		dst.MaxSubjectLength = src.MaxSubjectLength
	}
	dst.PushDefault = src.PushDefault || dst.PushDefault
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("GYST_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("GYST_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GYST_RELAY_URL"); v != "" {
		cfg.RelayURL = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("GYST_MAX_DIFF_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffSize = n
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["mode"]; ok && v != "" {
		cfg.Mode = v
	}
	if v, ok := overrides["apiKey"]; ok && v != "" {
		cfg.APIKey = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["relayUrl"]; ok && v != "" {
		cfg.RelayURL = v
	}
	if v, ok := overrides["maxDiffSize"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDiffSize = n
		}
	}
	if v, ok := overrides["maxSubjectLength"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSubjectLength = n
		}
	}
}

// Redacted returns a copy safe for display: the API key is masked.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}
