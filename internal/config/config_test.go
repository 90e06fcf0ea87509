package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Mode != ModeRelay {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeRelay)
	}
	if cfg.MaxDiffSize != 1000 {
		t.Errorf("MaxDiffSize = %d, want 1000", cfg.MaxDiffSize)
	}
	if cfg.MaxSubjectLength != 72 {
		t.Errorf("MaxSubjectLength = %d, want 72", cfg.MaxSubjectLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_DirectRequiresKey(t *testing.T) {
	cfg := Default()
	cfg.Mode = ModeDirect
	if err := cfg.Validate(); err != ErrMissingAPIKey {
		t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
	}

	cfg.APIKey = "sk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with key = %v, want nil", err)
	}
}

func TestValidate_UnknownMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLoad_FileAndEnvMerge(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("GYST_MODE", "")
	t.Setenv("GYST_MODEL", "")
	t.Setenv("GYST_RELAY_URL", "")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GYST_MAX_DIFF_SIZE", "")

	if err := os.MkdirAll(filepath.Join(dir, "gyst"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := `{"mode":"direct","apiKey":"from-file","maxDiffSize":500}`
	if err := os.WriteFile(filepath.Join(dir, "gyst", "config.json"), []byte(file), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Mode != ModeDirect {
		t.Errorf("Mode = %q, want direct", cfg.Mode)
	}
	if cfg.APIKey != "from-file" {
		t.Errorf("APIKey = %q, want from-file", cfg.APIKey)
	}
	if cfg.MaxDiffSize != 500 {
		t.Errorf("MaxDiffSize = %d, want 500", cfg.MaxDiffSize)
	}
	// File silent on these: defaults survive
	if cfg.MaxSubjectLength != 72 {
		t.Errorf("MaxSubjectLength = %d, want default 72", cfg.MaxSubjectLength)
	}

	// Env beats file
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	cfg, err = Load(nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.APIKey)
	}

	// Overrides beat env
	cfg, err = Load(map[string]string{"apiKey": "from-flag", "maxSubjectLength": "50"})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.APIKey != "from-flag" {
		t.Errorf("APIKey = %q, want from-flag", cfg.APIKey)
	}
	if cfg.MaxSubjectLength != 50 {
		t.Errorf("MaxSubjectLength = %d, want 50", cfg.MaxSubjectLength)
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := Default()
	cfg.APIKey = "secret"
	if err := Save(cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.APIKey != "secret" {
		t.Errorf("APIKey = %q, want secret", loaded.APIKey)
	}

	path, _ := ConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("expected zero Config for missing file, got %+v", cfg)
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "sk-secret"
	if got := cfg.Redacted().APIKey; got != "********" {
		t.Errorf("Redacted APIKey = %q", got)
	}
	cfg.APIKey = ""
	if got := cfg.Redacted().APIKey; got != "" {
		t.Errorf("Redacted empty APIKey = %q, want empty", got)
	}
}
