package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pivolan/hrf_analyzer/config"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/pivolan/hrf_analyzer/logger"
	"github.com/pivolan/hrf_analyzer/plot"
	"go.uber.org/zap"
)

type datasetRequest struct {
	Preview  int
	Trace    string // condition/species
	TraceOut string
}

// runDataset loads every condition/species table under the base path, prints
// what was found and optionally plots the raw traces of one entry.
func runDataset(ctx context.Context, cfg *config.Config, req datasetRequest, w io.Writer) error {
	log := logger.WithContext(ctx)
	opts, err := cfg.AnalyzeOptions()
	if err != nil {
		return err
	}

	ds := hrf.LoadDataset(cfg.BasePath, hrf.DefaultConditions, hrf.DefaultSpecies, opts.Load, log)
	fmt.Fprintln(w, GenerateDatasetTable(ds, hrf.DefaultConditions, hrf.DefaultSpecies, opts.Matcher))

	if req.Preview > 0 {
		for _, c := range hrf.DefaultConditions {
			for _, s := range hrf.DefaultSpecies {
				if tbl := ds.Get(c, s); tbl != nil {
					fmt.Fprintln(w, GeneratePreviewTable(tbl, req.Preview))
				}
			}
		}
	}

	if req.Trace == "" {
		return nil
	}
	condition, species, ok := strings.Cut(req.Trace, "/")
	if !ok {
		return fmt.Errorf("trace %q: want condition/species", req.Trace)
	}
	tbl := ds.Get(condition, species)
	if tbl == nil {
		return fmt.Errorf("trace %q: %w", req.Trace, hrf.ErrFileNotFound)
	}
	res, err := hrf.AnalyzeTable(tbl, opts)
	if err != nil {
		return err
	}
	graph, err := plot.DrawTraces(fmt.Sprintf("%s %s HRF Time Series", condition, species), res.Pair.Mean, res.Pair.Spread)
	if err != nil {
		return err
	}
	out := req.TraceOut
	if out == "" {
		out = resolvePath(cfg.OutDir, fmt.Sprintf("%s_%s_traces.png", condition, species))
	}
	if err := writeFigure(out, graph); err != nil {
		return err
	}
	log.Info("saved traces", zap.String("path", out))
	return nil
}

// runSummary loads and reduces every job without drawing anything.
func runSummary(ctx context.Context, cfg *config.Config, w io.Writer) error {
	c := *cfg
	c.Save, c.Show = false, false
	p, err := newPipeline(&c, nil, nil)
	if err != nil {
		return err
	}
	results, err := p.runJobs(ctx, c.Jobs)
	fmt.Fprintln(w, GenerateJobTable(results))
	return err
}
