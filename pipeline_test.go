package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pivolan/hrf_analyzer/config"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/pivolan/hrf_analyzer/logger"
	"github.com/pivolan/hrf_analyzer/plot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const goodCSV = "time,ts_ch1,ts_ch2,std_ch1,std_ch2\n0,1,1,0,0\n1,3,5,0,2\n"

type fakeViewer struct {
	shown []plot.Figure
	err   error
}

func (v *fakeViewer) Show(ctx context.Context, fig plot.Figure) error {
	v.shown = append(v.shown, fig)
	return v.err
}

type sentGraph struct {
	graph    []byte
	fileName string
	caption  string
}

type fakeSender struct {
	sent []sentGraph
	err  error
}

func (s *fakeSender) SendGraph(graph []byte, fileName, caption string) error {
	s.sent = append(s.sent, sentGraph{graph, fileName, caption})
	return s.err
}

func testConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	cfg := config.Default()
	cfg.BasePath = dir
	cfg.DPI = 72
	return cfg
}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })
	return logs
}

func TestRunJobsContinuesPastFailures(t *testing.T) {
	logs := observe(t)
	cfg := testConfig(t, map[string]string{
		"before_hrf_hbo.csv": goodCSV,
		"before_hrf_hbr.csv": "time,ts_ch1,std_ch1,std_ch2\n0,1,0,0\n",
		"after_hrf_hbo.csv":  goodCSV,
	})
	jobs := []models.Job{
		{Input: "before_hrf_hbo.csv", Title: "Before NO - HbO"},
		{Input: "before_hrf_hbr.csv", Title: "Before NO - HbR"},
		{Input: "missing.csv", Title: "Missing"},
		{Input: "after_hrf_hbo.csv", Title: "After NO - HbO"},
	}

	p, err := newPipeline(cfg, nil, nil)
	require.NoError(t, err)
	results, err := p.runJobs(context.Background(), jobs)

	require.ErrorIs(t, err, errJobsFailed)
	require.Len(t, results, 4)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, hrf.ErrWidthMismatch)
	assert.ErrorIs(t, results[2].Err, hrf.ErrFileNotFound)
	assert.NoError(t, results[3].Err)

	assert.FileExists(t, filepath.Join(cfg.BasePath, "before_hrf_hbo.png"))
	assert.FileExists(t, filepath.Join(cfg.BasePath, "after_hrf_hbo.png"))
	assert.NoFileExists(t, filepath.Join(cfg.BasePath, "before_hrf_hbr.png"))
	assert.Equal(t, 2, logs.FilterMessage("job failed").Len())
}

func TestRunJobsAllSucceed(t *testing.T) {
	observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	p, err := newPipeline(cfg, nil, nil)
	require.NoError(t, err)

	results, err := p.runJobs(context.Background(), []models.Job{{Input: "a.csv", Title: "A"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0].Result
	assert.Equal(t, []float64{1, 4}, r.Pair.Mean)
	assert.Equal(t, []float64{0, 1}, r.Pair.Spread)
	assert.Equal(t, []float64{0, 20}, r.Axis)

	img, err := os.ReadFile(results[0].Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, []byte("\x89PNG")))
}

func TestRunJobsStopsOnCancel(t *testing.T) {
	observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	p, err := newPipeline(cfg, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := p.runJobs(ctx, []models.Job{{Input: "a.csv"}, {Input: "a.csv"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestProcessJobSideEffects(t *testing.T) {
	tests := []struct {
		name      string
		save      bool
		show      bool
		withSend  bool
		wantFile  bool
		wantShown int
		wantSent  int
	}{
		{"save only", true, false, false, true, 0, 0},
		{"show only", false, true, false, false, 1, 0},
		{"send without save", false, false, true, false, 0, 1},
		{"everything", true, true, true, true, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observe(t)
			cfg := testConfig(t, map[string]string{"after_hrf_hbt.csv": goodCSV})
			cfg.Save, cfg.Show = tt.save, tt.show
			viewer := &fakeViewer{}
			sender := &fakeSender{}
			var gs GraphSender
			if tt.withSend {
				gs = sender
			}
			p, err := newPipeline(cfg, viewer, gs)
			require.NoError(t, err)

			res := p.processJob(context.Background(), models.Job{Input: "after_hrf_hbt.csv", Title: "After NO - HbT"})
			require.NoError(t, res.Err)

			_, statErr := os.Stat(res.Output)
			assert.Equal(t, tt.wantFile, statErr == nil)
			assert.Len(t, viewer.shown, tt.wantShown)
			require.Len(t, sender.sent, tt.wantSent)
			if tt.wantSent > 0 {
				assert.Equal(t, "After NO - HbT", sender.sent[0].caption)
				assert.Equal(t, "after_hrf_hbt.png", sender.sent[0].fileName)
				assert.True(t, bytes.HasPrefix(sender.sent[0].graph, []byte("\x89PNG")))
			}
			if tt.wantShown > 0 {
				fig := viewer.shown[0]
				assert.Equal(t, "After NO - HbT", fig.Title)
				require.NotNil(t, fig.YRange)
				assert.Equal(t, config.DefaultYMax, fig.YRange.Max)
			}
		})
	}
}

func TestProcessJobViewerError(t *testing.T) {
	observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	cfg.Save, cfg.Show = false, true
	p, err := newPipeline(cfg, &fakeViewer{err: errors.New("no display")}, nil)
	require.NoError(t, err)

	res := p.processJob(context.Background(), models.Job{Input: "a.csv", Title: "A"})
	assert.ErrorContains(t, res.Err, "no display")
}

func TestProcessJobDeliveryFailureIsNotFatal(t *testing.T) {
	logs := observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	p, err := newPipeline(cfg, nil, &fakeSender{err: errors.New("bad gateway")})
	require.NoError(t, err)

	res := p.processJob(context.Background(), models.Job{Input: "a.csv", Title: "A"})
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, logs.FilterMessage("failed to deliver figure").Len())
}

func TestProcessJobUsesJobRange(t *testing.T) {
	observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	cfg.Save, cfg.Show = false, true
	viewer := &fakeViewer{}
	p, err := newPipeline(cfg, viewer, nil)
	require.NoError(t, err)

	res := p.processJob(context.Background(), models.Job{Input: "a.csv", YRange: &models.AxisRange{Min: -10, Max: 10}})
	require.NoError(t, res.Err)
	require.Len(t, viewer.shown, 1)
	assert.Equal(t, models.AxisRange{Min: -10, Max: 10}, *viewer.shown[0].YRange)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		outDir string
		job    models.Job
		want   string
	}{
		{"csv next to input", "/data", "", models.Job{Input: "before_hrf_hbo.csv"}, "/data/before_hrf_hbo.png"},
		{"compressed input", "/data", "", models.Job{Input: "after_hrf_hbr.csv.gz"}, "/data/after_hrf_hbr.png"},
		{"xlsx input", "/data", "", models.Job{Input: "sheet.xlsx"}, "/data/sheet.png"},
		{"out dir", "/data", "/figs", models.Job{Input: "sub/a.csv"}, "/figs/a.png"},
		{"explicit output", "/data", "/figs", models.Job{Input: "a.csv", Output: "custom.png"}, "/figs/custom.png"},
		{"absolute output", "/data", "/figs", models.Job{Input: "a.csv", Output: "/tmp/x.png"}, "/tmp/x.png"},
		{"absolute input", "/data", "", models.Job{Input: "/other/b.tsv"}, "/other/b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.BasePath, cfg.OutDir = tt.base, tt.outDir
			assert.Equal(t, filepath.FromSlash(tt.want), outputPath(cfg, tt.job))
		})
	}
}

func TestRunSummary(t *testing.T) {
	observe(t)
	cfg := testConfig(t, map[string]string{"a.csv": goodCSV})
	cfg.Jobs = []models.Job{{Input: "a.csv", Title: "Alpha"}, {Input: "b.csv", Title: "Beta"}}

	var out bytes.Buffer
	err := runSummary(context.Background(), cfg, &out)
	assert.ErrorIs(t, err, errJobsFailed)
	assert.Contains(t, out.String(), "Alpha")
	assert.Contains(t, out.String(), "FAILED")
	assert.NoFileExists(t, filepath.Join(cfg.BasePath, "a.png"))
	assert.True(t, cfg.Save, "summary must not mutate the caller's config")
}
