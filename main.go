package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/pivolan/hrf_analyzer/config"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/pivolan/hrf_analyzer/logger"
	uuid "github.com/satori/go.uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "0.1.0"

type cliFlags struct {
	configFile   string
	basePath     string
	outDir       string
	logLevel     string
	spread       string
	meanMarker   string
	spreadMarker string
	show         bool
	noSave       bool
	dpi          float64
	yMin         float64
	yMax         float64
	autoY        bool
	telegram     bool
	preview      int
	trace        string
	traceOut     string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return buildRootCmd(&cliFlags{})
}

func buildRootCmd(f *cliFlags) *cobra.Command {
	root := &cobra.Command{
		Use:           "hrf_analyzer",
		Short:         "Plot channel-averaged hemodynamic responses from fNIRS exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, f)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "YAML file with settings and jobs")
	pf.StringVar(&f.basePath, "base-path", "", "directory the job inputs are read from")
	pf.StringVar(&f.outDir, "out-dir", "", "directory for figures (default: next to the input)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&f.spread, "spread", "", "spread statistic: mean, pooled or sem")
	pf.StringVar(&f.meanMarker, "mean-marker", "", "substring marking mean columns")
	pf.StringVar(&f.spreadMarker, "spread-marker", "", "substring marking spread columns")

	root.AddCommand(newPlotCmd(f), newSummaryCmd(), newDatasetCmd(f), &cobra.Command{
		Use:               "version",
		Short:             "Show version information",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hrf_analyzer v%s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
			fmt.Fprintf(cmd.OutOrStdout(), "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	return root
}

func newPlotCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [files...]",
		Short: "Render the mean ± spread figure for every job",
		Long: `Render the mean ± spread figure for every job.
Without arguments the jobs come from the config file, or the six default
before/after HbO, HbR and HbT exports in the base path.

Figures are only written to disk by default. Pass --show (or set show: true)
to open each one in the browser and wait for Enter before the next job.

Example:
  hrf_analyzer plot --base-path ./data --show
  hrf_analyzer plot --auto-y --spread pooled session1.csv.gz`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if len(args) > 0 {
				cfg.Jobs = jobsFromArgs(args)
			}

			var viewer Viewer
			if cfg.Show {
				viewer = newBrowserViewer("")
			}
			var sender GraphSender
			if f.telegram {
				if !cfg.TelegramEnabled() {
					return errors.New("telegram delivery needs TG_TOKEN and TG_CHAT_ID")
				}
				s, err := newTelegramSender(cfg.TgToken, cfg.TgChatID)
				if err != nil {
					return err
				}
				sender = s
			}

			p, err := newPipeline(cfg, viewer, sender)
			if err != nil {
				return err
			}
			results, err := p.runJobs(cmd.Context(), cfg.Jobs)
			fmt.Fprintln(cmd.OutOrStdout(), GenerateJobTable(results))
			return err
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&f.show, "show", false, "open each figure in the browser and wait for Enter")
	fl.BoolVar(&f.noSave, "no-save", false, "do not write PNG files")
	fl.Float64Var(&f.dpi, "dpi", config.DefaultDPI, "PNG resolution")
	fl.Float64Var(&f.yMin, "y-min", config.DefaultYMin, "lower y limit shared by all jobs")
	fl.Float64Var(&f.yMax, "y-max", config.DefaultYMax, "upper y limit shared by all jobs")
	fl.BoolVar(&f.autoY, "auto-y", false, "autoscale the y axis instead of a fixed range")
	fl.BoolVar(&f.telegram, "telegram", false, "also send each PNG to the configured Telegram chat")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [files...]",
		Short: "Load and reduce every job and print peak/trough latencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if len(args) > 0 {
				cfg.Jobs = jobsFromArgs(args)
			}
			return runSummary(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func newDatasetCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Load every {condition}_hrf_{species}.csv under the base path and preview it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDataset(cmd.Context(), config.GetConfig(), datasetRequest{
				Preview:  f.preview,
				Trace:    f.trace,
				TraceOut: f.traceOut,
			}, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVar(&f.preview, "preview", 5, "rows to print per table, 0 to skip")
	cmd.Flags().StringVar(&f.trace, "trace", "", "plot raw traces of one entry, e.g. before/hbo")
	cmd.Flags().StringVar(&f.traceOut, "trace-out", "", "output PNG for --trace")
	return cmd
}

// setup loads the config, applies explicit flags on top, starts the logger
// and tags the command context with a fresh run id.
func setup(cmd *cobra.Command, f *cliFlags) error {
	cfg, err := config.Init(f.configFile)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: cfg.LogLevel}); err != nil {
		return err
	}

	runID := uuid.NewV4().String()
	ctx := logger.ContextWithRun(cmd.Context(), runID)
	cmd.SetContext(ctx)
	logger.WithContext(ctx).Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("base_path", cfg.BasePath),
		zap.Int("jobs", len(cfg.Jobs)))
	return nil
}

func applyFlags(cmd *cobra.Command, f *cliFlags, cfg *config.Config) {
	fl := cmd.Flags()
	if fl.Changed("base-path") {
		cfg.BasePath = f.basePath
	}
	if fl.Changed("out-dir") {
		cfg.OutDir = f.outDir
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fl.Changed("spread") {
		cfg.SpreadMethod = f.spread
	}
	if fl.Changed("mean-marker") {
		cfg.MeanMarker = f.meanMarker
	}
	if fl.Changed("spread-marker") {
		cfg.SpreadMarker = f.spreadMarker
	}
	if fl.Changed("show") {
		cfg.Show = f.show
	}
	if fl.Changed("no-save") {
		cfg.Save = !f.noSave
	}
	if fl.Changed("dpi") {
		cfg.DPI = f.dpi
	}
	if fl.Changed("y-min") || fl.Changed("y-max") {
		r := models.AxisRange{Min: f.yMin, Max: f.yMax}
		if cfg.YRange != nil {
			if !fl.Changed("y-min") {
				r.Min = cfg.YRange.Min
			}
			if !fl.Changed("y-max") {
				r.Max = cfg.YRange.Max
			}
		}
		cfg.YRange = &r
	}
	if fl.Changed("auto-y") && f.autoY {
		cfg.YRange = nil
	}
}

// jobsFromArgs turns ad-hoc file arguments into jobs titled by file stem.
func jobsFromArgs(args []string) []models.Job {
	jobs := make([]models.Job, 0, len(args))
	for _, a := range args {
		name := hrf.StripArchiveExt(filepath.Base(a))
		jobs = append(jobs, models.Job{
			Input: a,
			Title: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	return jobs
}
