package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultJobs(t *testing.T) {
	jobs := DefaultJobs()
	require.Len(t, jobs, 6)
	assert.Equal(t, models.Job{Input: "before_hrf_hbo.csv", Title: "Before NO - HbO"}, jobs[0])
	assert.Equal(t, models.Job{Input: "before_hrf_hbr.csv", Title: "Before NO - HbR"}, jobs[1])
	assert.Equal(t, models.Job{Input: "after_hrf_hbt.csv", Title: "After NO - HbT"}, jobs[5])
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBasePath, cfg.BasePath)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.True(t, cfg.Save)
	assert.False(t, cfg.Show)
	assert.Equal(t, "mean", cfg.SpreadMethod)
	assert.Equal(t, hrf.DefaultMeanMarker, cfg.MeanMarker)
	assert.Equal(t, hrf.DefaultSpreadMarker, cfg.SpreadMarker)
	assert.Equal(t, 0.0, cfg.TimeStart)
	assert.Equal(t, 20.0, cfg.TimeEnd)
	require.NotNil(t, cfg.YRange)
	assert.Equal(t, models.AxisRange{Min: DefaultYMin, Max: DefaultYMax}, *cfg.YRange)
	assert.Equal(t, DefaultJobs(), cfg.Jobs)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
base_path: /data/hrf
dpi: 150
spread_method: pooled
y_range:
  min: -2
  max: 2
jobs:
  - input: a.csv
    title: A
  - input: b.csv.gz
    title: B
    output: custom.png
    y_range:
      min: -1
      max: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/hrf", cfg.BasePath)
	assert.Equal(t, 150.0, cfg.DPI)
	assert.Equal(t, "pooled", cfg.SpreadMethod)
	assert.Equal(t, models.AxisRange{Min: -2, Max: 2}, *cfg.YRange)
	require.Len(t, cfg.Jobs, 2)
	assert.Equal(t, "a.csv", cfg.Jobs[0].Input)
	assert.Nil(t, cfg.Jobs[0].YRange)
	assert.Equal(t, "custom.png", cfg.Jobs[1].Output)
	require.NotNil(t, cfg.Jobs[1].YRange)

	assert.Equal(t, cfg.YRange, cfg.JobYRange(cfg.Jobs[0]))
	assert.Equal(t, models.AxisRange{Min: -1, Max: 1}, *cfg.JobYRange(cfg.Jobs[1]))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("HRF_DPI", "96")
	t.Setenv("HRF_SPREAD_METHOD", "sem")
	t.Setenv("TG_TOKEN", "token")
	t.Setenv("TG_CHAT_ID", "42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 96.0, cfg.DPI)
	assert.Equal(t, "sem", cfg.SpreadMethod)
	assert.Equal(t, "token", cfg.TgToken)
	assert.Equal(t, int64(42), cfg.TgChatID)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoadAutoY(t *testing.T) {
	cfg, err := Load(writeConfig(t, "auto_y: true\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.YRange)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero dpi", func(c *Config) { c.DPI = 0 }, true},
		{"reversed time", func(c *Config) { c.TimeStart, c.TimeEnd = 20, 0 }, true},
		{"bad y range", func(c *Config) { c.YRange = &models.AxisRange{Min: 1, Max: 1} }, true},
		{"auto y", func(c *Config) { c.YRange = nil }, false},
		{"empty mean marker", func(c *Config) { c.MeanMarker = " " }, true},
		{"unknown spread", func(c *Config) { c.SpreadMethod = "median" }, true},
		{"job without input", func(c *Config) { c.Jobs = []models.Job{{Title: "x"}} }, true},
		{"job bad range", func(c *Config) {
			c.Jobs = []models.Job{{Input: "a.csv", YRange: &models.AxisRange{Min: 2, Max: 1}}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalyzeOptions(t *testing.T) {
	cfg := Default()
	cfg.SpreadMethod = "SEM"
	cfg.MeanMarker = "oxy_"
	cfg.TimeEnd = 10

	opts, err := cfg.AnalyzeOptions()
	require.NoError(t, err)
	assert.Equal(t, hrf.SpreadSEM, opts.Method)
	assert.Equal(t, hrf.MarkerMatcher{Mean: "oxy_", Spread: hrf.DefaultSpreadMarker}, opts.Matcher)
	assert.Equal(t, 10.0, opts.TimeEnd)
}

func TestInitAndGetConfig(t *testing.T) {
	cfg, err := Init(writeConfig(t, "dpi: 72\n"))
	require.NoError(t, err)
	assert.Same(t, cfg, GetConfig())
	assert.Equal(t, 72.0, GetConfig().DPI)
}
