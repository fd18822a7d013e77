// loader_test.go — Tests for configuration loading cascade.
// Tests priority: defaults < .sitelens.json < env vars < flags.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sitelens/sitelens/internal/timeline"
)

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := Defaults()

	if cfg.Format != "human" {
		t.Errorf("expected default format 'human', got %q", cfg.Format)
	}
	if cfg.Sort != "start_time" {
		t.Errorf("expected default sort 'start_time', got %q", cfg.Sort)
	}
	if cfg.PageSize != "A4" || cfg.MarginMm != 10 {
		t.Errorf("expected A4 with 10mm margin, got %s/%g", cfg.PageSize, cfg.MarginMm)
	}
	if cfg.SurfaceWidthPx != 1200 {
		t.Errorf("expected surface width 1200, got %d", cfg.SurfaceWidthPx)
	}
	if cfg.ListenAddr != "127.0.0.1:7420" {
		t.Errorf("expected listen addr 127.0.0.1:7420, got %q", cfg.ListenAddr)
	}
	if cfg.Verbose {
		t.Error("expected verbose to be false by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, ".sitelens.json"), []byte(`{
		"format": "json",
		"sort": "size",
		"page_size": "Letter",
		"margin_mm": 0,
		"verbose": true
	}`), 0o644)
	if err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg := Defaults()
	if err := loadProjectConfig(&cfg, dir); err != nil {
		t.Fatalf("loadProjectConfig failed: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("expected format 'json', got %q", cfg.Format)
	}
	if cfg.SortKey() != timeline.SortBySize {
		t.Errorf("expected sort size, got %q", cfg.Sort)
	}
	if cfg.PageSize != "Letter" {
		t.Errorf("expected page size Letter, got %q", cfg.PageSize)
	}
	if cfg.MarginMm != 0 {
		t.Errorf("explicit zero margin should override the default, got %g", cfg.MarginMm)
	}
	if !cfg.Verbose {
		t.Error("expected verbose true")
	}
	if cfg.SurfaceWidthPx != 1200 {
		t.Errorf("unset field should keep default, got %d", cfg.SurfaceWidthPx)
	}
}

func TestLoadProjectConfigMissing(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	if err := loadProjectConfig(&cfg, t.TempDir()); err != nil {
		t.Fatalf("missing config should not error: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("missing config changed values: %+v", cfg)
	}
}

func TestLoadProjectConfigInvalidJSON(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, ".sitelens.json"), []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg := Defaults()
	if err := loadProjectConfig(&cfg, dir); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestEnvOverridesProject(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".sitelens.json"), []byte(`{"format": "json", "margin_mm": 5}`), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SITELENS_FORMAT", "csv")
	t.Setenv("SITELENS_SURFACE_WIDTH", "800")
	t.Setenv("SITELENS_VERBOSE", "1")

	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "csv" {
		t.Errorf("env should override project format, got %q", cfg.Format)
	}
	if cfg.MarginMm != 5 {
		t.Errorf("project margin should survive, got %g", cfg.MarginMm)
	}
	if cfg.SurfaceWidthPx != 800 || !cfg.Verbose {
		t.Errorf("env width/verbose not applied: %+v", cfg)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SITELENS_SORT", "total_time")
	t.Setenv("SITELENS_PAGE_SIZE", "Legal")

	sort := "size"
	margin := 2.5
	cfg, err := Load(t.TempDir(), &FlagOverrides{Sort: &sort, MarginMm: &margin})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sort != "size" {
		t.Errorf("flag should override env sort, got %q", cfg.Sort)
	}
	if cfg.PageSize != "Legal" {
		t.Errorf("env page size should apply, got %q", cfg.PageSize)
	}
	if cfg.MarginMm != 2.5 {
		t.Errorf("flag margin not applied, got %g", cfg.MarginMm)
	}
}

func TestGlobalConfigBelowProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".sitelens"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(home, ".sitelens", "config.json"), []byte(`{"format": "csv", "listen_addr": ":9000"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, ".sitelens.json"), []byte(`{"format": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(project, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("project should override global format, got %q", cfg.Format)
	}
	if cfg.ListenAddr != ":9000" {
		t.Errorf("global listen addr should apply, got %q", cfg.ListenAddr)
	}
}

func TestBadEnvNumber(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SITELENS_MARGIN_MM", "ten")

	if _, err := Load(t.TempDir(), nil); err == nil {
		t.Error("expected error for non-numeric SITELENS_MARGIN_MM")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"bad sort", func(c *Config) { c.Sort = "alphabetical" }},
		{"bad page size", func(c *Config) { c.PageSize = "A3" }},
		{"negative margin", func(c *Config) { c.MarginMm = -1 }},
		{"narrow surface", func(c *Config) { c.SurfaceWidthPx = 100 }},
		{"empty addr", func(c *Config) { c.ListenAddr = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %+v", cfg)
			}
		})
	}

	cfg := Defaults()
	cfg.Sort = "bogus"
	if err := cfg.Validate(); !errors.Is(err, timeline.ErrUnknownSortKey) {
		t.Errorf("sort error should wrap ErrUnknownSortKey, got %v", err)
	}
	cfg = Defaults()
	cfg.PageSize = "letter"
	if err := cfg.Validate(); err != nil {
		t.Errorf("page size should be case-insensitive: %v", err)
	}
}
