// loader.go — Configuration loading with priority cascade.
// Priority: defaults < global config < project config < env vars < flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sitelens/sitelens/internal/render"
	"github.com/sitelens/sitelens/internal/timeline"
)

// Config holds all resolved configuration values.
type Config struct {
	Format         string  `json:"format"`
	Sort           string  `json:"sort"`
	PageSize       string  `json:"page_size"`
	MarginMm       float64 `json:"margin_mm"`
	SurfaceWidthPx int     `json:"surface_width_px"`
	ListenAddr     string  `json:"listen_addr"`
	Verbose        bool    `json:"verbose"`
}

// FlagOverrides holds values explicitly set via command-line flags.
// Nil pointer means the flag was not set (so lower-priority values are kept).
type FlagOverrides struct {
	Format         *string
	Sort           *string
	PageSize       *string
	MarginMm       *float64
	SurfaceWidthPx *int
	ListenAddr     *string
	Verbose        *bool
}

// Defaults returns the base configuration.
func Defaults() Config {
	return Config{
		Format:         "human",
		Sort:           string(timeline.SortByStartTime),
		PageSize:       "A4",
		MarginMm:       10,
		SurfaceWidthPx: render.DefaultWidthPx,
		ListenAddr:     "127.0.0.1:7420",
	}
}

// Load builds the final configuration by applying the priority cascade:
// defaults < global (~/.sitelens/config.json) < project (.sitelens.json) < env vars < flags.
func Load(projectDir string, flags *FlagOverrides) (Config, error) {
	cfg := Defaults()

	home, err := os.UserHomeDir()
	if err == nil {
		if err := loadGlobalConfig(&cfg, filepath.Join(home, ".sitelens")); err != nil {
			return cfg, fmt.Errorf("global config: %w", err)
		}
	}

	if err := loadProjectConfig(&cfg, projectDir); err != nil {
		return cfg, fmt.Errorf("project config: %w", err)
	}

	if err := loadEnvVars(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if flags != nil {
		applyFlags(&cfg, flags)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadGlobalConfig reads ~/.sitelens/config.json if it exists.
func loadGlobalConfig(cfg *Config, dir string) error {
	return loadJSONFile(cfg, filepath.Join(dir, "config.json"))
}

// loadProjectConfig reads .sitelens.json from the given directory if it exists.
func loadProjectConfig(cfg *Config, dir string) error {
	return loadJSONFile(cfg, filepath.Join(dir, ".sitelens.json"))
}

// fileConfig uses pointers to distinguish "not set" from zero values.
type fileConfig struct {
	Format         *string  `json:"format"`
	Sort           *string  `json:"sort"`
	PageSize       *string  `json:"page_size"`
	MarginMm       *float64 `json:"margin_mm"`
	SurfaceWidthPx *int     `json:"surface_width_px"`
	ListenAddr     *string  `json:"listen_addr"`
	Verbose        *bool    `json:"verbose"`
}

// loadJSONFile reads a JSON config file and merges the fields it sets into cfg.
func loadJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config paths are fixed locations
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	applyFlags(cfg, &FlagOverrides{
		Format:         fc.Format,
		Sort:           fc.Sort,
		PageSize:       fc.PageSize,
		MarginMm:       fc.MarginMm,
		SurfaceWidthPx: fc.SurfaceWidthPx,
		ListenAddr:     fc.ListenAddr,
		Verbose:        fc.Verbose,
	})
	return nil
}

// loadEnvVars applies SITELENS_* overrides. Malformed numbers are errors
// rather than silently ignored.
func loadEnvVars(cfg *Config) error {
	if v := os.Getenv("SITELENS_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SITELENS_SORT"); v != "" {
		cfg.Sort = v
	}
	if v := os.Getenv("SITELENS_PAGE_SIZE"); v != "" {
		cfg.PageSize = v
	}
	if v := os.Getenv("SITELENS_MARGIN_MM"); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SITELENS_MARGIN_MM: %w", err)
		}
		cfg.MarginMm = m
	}
	if v := os.Getenv("SITELENS_SURFACE_WIDTH"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SITELENS_SURFACE_WIDTH: %w", err)
		}
		cfg.SurfaceWidthPx = w
	}
	if v := os.Getenv("SITELENS_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if os.Getenv("SITELENS_VERBOSE") == "1" {
		cfg.Verbose = true
	}
	return nil
}

// applyFlags applies command-line flag overrides (highest priority).
func applyFlags(cfg *Config, flags *FlagOverrides) {
	if flags.Format != nil {
		cfg.Format = *flags.Format
	}
	if flags.Sort != nil {
		cfg.Sort = *flags.Sort
	}
	if flags.PageSize != nil {
		cfg.PageSize = *flags.PageSize
	}
	if flags.MarginMm != nil {
		cfg.MarginMm = *flags.MarginMm
	}
	if flags.SurfaceWidthPx != nil {
		cfg.SurfaceWidthPx = *flags.SurfaceWidthPx
	}
	if flags.ListenAddr != nil {
		cfg.ListenAddr = *flags.ListenAddr
	}
	if flags.Verbose != nil {
		cfg.Verbose = *flags.Verbose
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c Config) Validate() error {
	validFormats := map[string]bool{"human": true, "json": true, "csv": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be human, json, or csv, got %q", c.Format)
	}
	if _, err := timeline.ParseSortKey(c.Sort); err != nil {
		return err
	}
	if !render.ValidPageSize(c.PageSize) {
		return fmt.Errorf("page_size must be one of %s, got %q", strings.Join(render.PageSizes, ", "), c.PageSize)
	}
	if c.MarginMm < 0 {
		return fmt.Errorf("margin_mm must not be negative, got %g", c.MarginMm)
	}
	if c.SurfaceWidthPx < render.MinWidthPx {
		return fmt.Errorf("surface_width_px must be at least %d, got %d", render.MinWidthPx, c.SurfaceWidthPx)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	return nil
}

// SortKey returns the validated sort key.
func (c Config) SortKey() timeline.SortKey {
	k, err := timeline.ParseSortKey(c.Sort)
	if err != nil {
		return timeline.SortByStartTime
	}
	return k
}
