package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/skyfall-dashboard/internal/chart"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "meteorite_landings.csv"), cfg.MeteoritesCSV)
	assert.Equal(t, filepath.Join("data", "fireball_and_bolide_reports.csv"), cfg.BolidesCSV)
	assert.Equal(t, filepath.Join("data", "nearest_earth_objects.csv"), cfg.NEOsCSV)
	assert.Equal(t, chart.ThemeLight, cfg.DefaultTheme)
	assert.Equal(t, 10, cfg.TopClasses)
	assert.Equal(t, 50, cfg.HistogramBins)
	assert.Equal(t, chart.DefaultPalettes(), cfg.Palettes)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DATA_DIR", "/srv/datasets")
	t.Setenv("NEOS_CSV", "/tmp/neo.csv")
	t.Setenv("DEFAULT_THEME", "dark")
	t.Setenv("TOP_CLASSES", "5")
	t.Setenv("HISTOGRAM_BINS", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, filepath.Join("/srv/datasets", "meteorite_landings.csv"), cfg.MeteoritesCSV)
	assert.Equal(t, "/tmp/neo.csv", cfg.NEOsCSV)
	assert.Equal(t, chart.ThemeDark, cfg.DefaultTheme)
	assert.Equal(t, 5, cfg.TopClasses)
	assert.Equal(t, 25, cfg.HistogramBins)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad shutdown timeout", key: "SHUTDOWN_TIMEOUT", value: "soon"},
		{name: "negative shutdown timeout", key: "SHUTDOWN_TIMEOUT", value: "-5s"},
		{name: "bad theme", key: "DEFAULT_THEME", value: "sepia"},
		{name: "bad top classes", key: "TOP_CLASSES", value: "many"},
		{name: "zero top classes", key: "TOP_CLASSES", value: "0"},
		{name: "negative histogram bins", key: "HISTOGRAM_BINS", value: "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLoadLayoutFile(t *testing.T) {
	layout := `themes:
  dark:
    background: "#101418"
    template: custom_dark
top_classes: 15
`
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(layout), 0o600))
	t.Setenv("LAYOUT_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)

	dark := cfg.Palettes[chart.ThemeDark]
	assert.Equal(t, "#101418", dark.Background)
	assert.Equal(t, "custom_dark", dark.Template)
	// Omitted fields keep their defaults.
	assert.Equal(t, "#fafafa", dark.Text)
	assert.Equal(t, chart.DefaultPalettes()[chart.ThemeLight], cfg.Palettes[chart.ThemeLight])
	assert.Equal(t, 15, cfg.TopClasses)
	assert.Equal(t, 50, cfg.HistogramBins)
}

func TestLoadLayoutFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("LAYOUT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown theme name", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout.yaml")
		require.NoError(t, os.WriteFile(path, []byte("themes:\n  sepia:\n    text: \"#333\"\n"), 0o600))
		t.Setenv("LAYOUT_CONFIG", path)
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown theme")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "layout.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n\t-"), 0o600))
		t.Setenv("LAYOUT_CONFIG", path)
		_, err := Load()
		require.Error(t, err)
	})
}
