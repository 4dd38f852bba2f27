package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pivolan/hrf_analyzer/config"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/pivolan/hrf_analyzer/logger"
	"github.com/pivolan/hrf_analyzer/plot"
	"go.uber.org/zap"
)

var errJobsFailed = errors.New("some jobs failed")

// Viewer shows a figure and returns once the user has dismissed it.
type Viewer interface {
	Show(ctx context.Context, fig plot.Figure) error
}

// GraphSender delivers a rendered PNG somewhere outside the process.
type GraphSender interface {
	SendGraph(graph []byte, fileName, caption string) error
}

// JobResult is what happened to one job; Err is nil on success.
type JobResult struct {
	Job    models.Job
	Input  string
	Output string
	Result *hrf.Result
	Err    error
}

type pipeline struct {
	cfg    *config.Config
	opts   hrf.Options
	viewer Viewer
	sender GraphSender
}

func newPipeline(cfg *config.Config, viewer Viewer, sender GraphSender) (*pipeline, error) {
	opts, err := cfg.AnalyzeOptions()
	if err != nil {
		return nil, err
	}
	return &pipeline{cfg: cfg, opts: opts, viewer: viewer, sender: sender}, nil
}

// runJobs processes every job in order. A failing job is logged and skipped;
// the returned error wraps errJobsFailed when at least one job failed.
func (p *pipeline) runJobs(ctx context.Context, jobs []models.Job) ([]JobResult, error) {
	log := logger.WithContext(ctx)
	results := make([]JobResult, 0, len(jobs))
	failed := 0
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			log.Warn("interrupted, skipping remaining jobs", zap.Int("remaining", len(jobs)-i))
			return results, err
		}
		res := p.processJob(ctx, job)
		if res.Err != nil {
			failed++
			log.Error("job failed", zap.String("input", res.Input), zap.String("title", job.Title), zap.Error(res.Err))
		}
		results = append(results, res)
	}
	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", errJobsFailed, failed, len(jobs))
	}
	return results, nil
}

func (p *pipeline) processJob(ctx context.Context, job models.Job) JobResult {
	ctx = logger.ContextWithJob(ctx, job.Title)
	log := logger.WithContext(ctx)
	res := JobResult{
		Job:    job,
		Input:  resolvePath(p.cfg.BasePath, job.Input),
		Output: outputPath(p.cfg, job),
	}

	log.Info("processing", zap.String("input", res.Input), zap.String("output", res.Output))
	table, err := hrf.LoadTable(res.Input, p.opts.Load)
	if err != nil {
		res.Err = err
		return res
	}
	log.Info("loaded table", zap.Int("rows", table.RowCount()), zap.Int("columns", len(table.Columns)))

	analysis, err := hrf.AnalyzeTable(table, p.opts)
	if err != nil {
		res.Err = err
		return res
	}
	res.Result = analysis
	log.Info("reduced channels",
		zap.Int("mean_channels", analysis.Mean.Width()),
		zap.Int("spread_channels", analysis.Spread.Width()),
		zap.Int("samples", analysis.Pair.Len()),
		zap.String("spread_method", string(p.opts.Method)))

	fig, err := plot.NewHRFFigure(analysis.Axis, analysis.Pair, job.Title, p.cfg.JobYRange(job))
	if err != nil {
		res.Err = err
		return res
	}

	var graph []byte
	if p.cfg.Save || p.sender != nil {
		if graph, err = plot.DrawFigure(fig, p.cfg.DPI); err != nil {
			res.Err = err
			return res
		}
	}
	if p.cfg.Save {
		if err := writeFigure(res.Output, graph); err != nil {
			res.Err = err
			return res
		}
		log.Info("saved figure", zap.String("path", res.Output), zap.Int("bytes", len(graph)))
	}
	if p.cfg.Show && p.viewer != nil {
		if err := p.viewer.Show(ctx, fig); err != nil {
			res.Err = fmt.Errorf("showing figure: %w", err)
			return res
		}
	}
	if p.sender != nil {
		if err := p.sender.SendGraph(graph, filepath.Base(res.Output), job.Title); err != nil {
			log.Warn("failed to deliver figure", zap.Error(err))
		}
	}
	return res
}

func writeFigure(path string, graph []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, graph, 0644); err != nil {
		return fmt.Errorf("writing figure: %w", err)
	}
	return nil
}

func resolvePath(base, name string) string {
	if filepath.IsAbs(name) || base == "" {
		return name
	}
	return filepath.Join(base, name)
}

// outputPath is the job's explicit output, or the input name with its
// extension (and any archive extension) swapped for .png. Relative paths land
// in out_dir when set, else next to the input.
func outputPath(cfg *config.Config, job models.Job) string {
	dir := cfg.OutDir
	if dir == "" {
		dir = filepath.Dir(resolvePath(cfg.BasePath, job.Input))
	}
	if job.Output != "" {
		return resolvePath(dir, job.Output)
	}
	name := hrf.StripArchiveExt(filepath.Base(job.Input))
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	return filepath.Join(dir, name)
}
