package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetAppConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_PATH", "CONFIG_PATH", "DATA_DIR", "OLLAMA_HOST"} {
		t.Setenv(key, "")
	}

	cfg, err := GetAppConfig()
	if err != nil {
		t.Fatalf("GetAppConfig failed: %v", err)
	}
	if cfg.DBPath != "./local-data/bierdata.db" {
		t.Errorf("DBPath default wrong: %q", cfg.DBPath)
	}
	if cfg.ConfigPath != "config.yaml" {
		t.Errorf("ConfigPath default wrong: %q", cfg.ConfigPath)
	}
	if cfg.OllamaHost != "http://localhost:11434" {
		t.Errorf("OllamaHost default wrong: %q", cfg.OllamaHost)
	}
}

func TestGetAppConfigEnvWins(t *testing.T) {
	t.Setenv("DB_PATH", "/tmp/other.db")

	cfg, err := GetAppConfig()
	if err != nil {
		t.Fatalf("GetAppConfig failed: %v", err)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("Env var should win: got %q", cfg.DBPath)
	}
}

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	if cfg.Rankings.FetchMode != "http" {
		t.Errorf("Rankings fetch mode default wrong: %q", cfg.Rankings.FetchMode)
	}
	if cfg.Directory.TableMarker != "#E8E8E8" {
		t.Errorf("Directory table marker default wrong: %q", cfg.Directory.TableMarker)
	}
	if cfg.Directory.DelaySeconds != 1.0 {
		t.Errorf("Directory delay default wrong: %v", cfg.Directory.DelaySeconds)
	}
	if cfg.Datasets.MinQualityScore != 40 {
		t.Errorf("Min quality score default wrong: %d", cfg.Datasets.MinQualityScore)
	}
	if len(cfg.Cleaning.Aliases) == 0 || !cfg.Cleaning.Aliases[0].Exact {
		t.Errorf("Cleaning aliases default wrong: %+v", cfg.Cleaning.Aliases)
	}
	if len(cfg.Cleaning.Separators) != 11 {
		t.Errorf("Expected 11 separator patterns, got %d", len(cfg.Cleaning.Separators))
	}
	if cfg.Geocode.Country != "Belgium" {
		t.Errorf("Geocode country default wrong: %q", cfg.Geocode.Country)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("LLM provider default wrong: %q", cfg.LLM.Provider)
	}
}

func TestLoadPipelineConfigPartialFile(t *testing.T) {
	// A partial file overrides what it names and defaults the rest.
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
directory:
  max_pages: 3
  delay_seconds: 0.5
llm:
  provider: gemini
  model: gemini-1.5-flash
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	cfg, err := LoadPipelineConfig(path)
	if err != nil {
		t.Fatalf("LoadPipelineConfig failed: %v", err)
	}
	if cfg.Directory.MaxPages != 3 {
		t.Errorf("MaxPages override lost: %d", cfg.Directory.MaxPages)
	}
	if cfg.Directory.DelaySeconds != 0.5 {
		t.Errorf("DelaySeconds override lost: %v", cfg.Directory.DelaySeconds)
	}
	if cfg.Directory.BaseURL == "" {
		t.Error("Unset fields should still default")
	}
	if cfg.LLM.Provider != "gemini" || cfg.LLM.Model != "gemini-1.5-flash" {
		t.Errorf("LLM overrides lost: %+v", cfg.LLM)
	}
}

func TestLoadPipelineConfigMissingFile(t *testing.T) {
	if _, err := LoadPipelineConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestRawDirCreatesNestedDirs(t *testing.T) {
	cfg := AppConfig{DataDir: filepath.Join(t.TempDir(), "data")}

	dir, err := cfg.RawDir("rankings")
	if err != nil {
		t.Fatalf("RawDir failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("RawDir did not create %s: %v", dir, err)
	}
}
