package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
)

// Config holds all service settings, populated from environment variables
// plus an optional YAML layout file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Dataset file locations. The per-file paths default to well-known
	// names under DataDir.
	DataDir       string
	MeteoritesCSV string
	BolidesCSV    string
	NEOsCSV       string

	// Rendering defaults.
	DefaultTheme  chart.Theme
	Palettes      map[chart.Theme]chart.Palette
	TopClasses    int
	HistogramBins int
}

// LogLevelValue implements observability.LoggerConfig.
func (c *Config) LogLevelValue() string { return c.LogLevel }

// LogFormatValue implements observability.LoggerConfig.
func (c *Config) LogFormatValue() string { return c.LogFormat }

// layoutFile is the YAML shape of the optional dashboard layout config.
type layoutFile struct {
	Themes        map[string]chart.Palette `yaml:"themes"`
	TopClasses    int                      `yaml:"top_classes"`
	HistogramBins int                      `yaml:"histogram_bins"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and merges the optional layout file named by LAYOUT_CONFIG.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	theme, err := chart.ParseTheme(os.Getenv("DEFAULT_THEME"), chart.ThemeLight)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_THEME: %w", err)
	}

	dataDir := envOrDefault("DATA_DIR", "data")

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:       dataDir,
		MeteoritesCSV: envOrDefault("METEORITES_CSV", filepath.Join(dataDir, "meteorite_landings.csv")),
		BolidesCSV:    envOrDefault("BOLIDES_CSV", filepath.Join(dataDir, "fireball_and_bolide_reports.csv")),
		NEOsCSV:       envOrDefault("NEOS_CSV", filepath.Join(dataDir, "nearest_earth_objects.csv")),

		DefaultTheme:  theme,
		Palettes:      chart.DefaultPalettes(),
		TopClasses:    10,
		HistogramBins: 50,
	}

	if err := applyIntEnv("TOP_CLASSES", &cfg.TopClasses); err != nil {
		return nil, err
	}
	if err := applyIntEnv("HISTOGRAM_BINS", &cfg.HistogramBins); err != nil {
		return nil, err
	}

	if path := os.Getenv("LAYOUT_CONFIG"); path != "" {
		if err := cfg.applyLayoutFile(path); err != nil {
			return nil, fmt.Errorf("LAYOUT_CONFIG: %w", err)
		}
	}

	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.TopClasses <= 0 {
		return nil, errors.New("TOP_CLASSES must be positive")
	}
	if cfg.HistogramBins <= 0 {
		return nil, errors.New("HISTOGRAM_BINS must be positive")
	}

	return cfg, nil
}

// applyLayoutFile merges a YAML layout file over the built-in defaults.
// Unknown theme names are rejected; omitted fields keep their defaults.
func (c *Config) applyLayoutFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var layout layoutFile
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for name, palette := range layout.Themes {
		t := chart.Theme(name)
		if t != chart.ThemeLight && t != chart.ThemeDark {
			return fmt.Errorf("unknown theme %q in %s", name, path)
		}
		merged := c.Palettes[t]
		if palette.Background != "" {
			merged.Background = palette.Background
		}
		if palette.Text != "" {
			merged.Text = palette.Text
		}
		if palette.Card != "" {
			merged.Card = palette.Card
		}
		if palette.Template != "" {
			merged.Template = palette.Template
		}
		c.Palettes[t] = merged
	}

	if layout.TopClasses > 0 {
		c.TopClasses = layout.TopClasses
	}
	if layout.HistogramBins > 0 {
		c.HistogramBins = layout.HistogramBins
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func applyIntEnv(key string, dst *int) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}
