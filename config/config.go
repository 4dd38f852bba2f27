package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pivolan/hrf_analyzer/domain/models"
	"github.com/pivolan/hrf_analyzer/hrf"
	"github.com/pivolan/hrf_analyzer/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EnvPrefix = "HRF"

	DefaultBasePath = "."
	DefaultDPI      = 300.0
	DefaultYMin     = -4.5e-05
	DefaultYMax     = 4.5e-05
)

type Config struct {
	BasePath     string            `mapstructure:"base_path"`
	OutDir       string            `mapstructure:"out_dir"`
	DPI          float64           `mapstructure:"dpi"`
	Show         bool              `mapstructure:"show"`
	Save         bool              `mapstructure:"save"`
	SpreadMethod string            `mapstructure:"spread_method"`
	MeanMarker   string            `mapstructure:"mean_marker"`
	SpreadMarker string            `mapstructure:"spread_marker"`
	TimeStart    float64           `mapstructure:"time_start"`
	TimeEnd      float64           `mapstructure:"time_end"`
	YRange       *models.AxisRange `mapstructure:"y_range"`
	AutoY        bool              `mapstructure:"auto_y"`
	LogLevel     string            `mapstructure:"log_level"`
	TgToken      string            `mapstructure:"tg_token"`
	TgChatID     int64             `mapstructure:"tg_chat_id"`
	Jobs         []models.Job      `mapstructure:"jobs"`
}

var (
	config *Config
	once   sync.Once
	mu     sync.Mutex
)

// GetConfig returns the process-wide configuration. Without a prior Init it
// loads .env and HRF_* variables once, falling back to defaults on error.
func GetConfig() *Config {
	mu.Lock()
	c := config
	mu.Unlock()
	if c != nil {
		return c
	}
	once.Do(func() {
		cfg, err := Load("")
		if err != nil {
			logger.Get().Warn("config invalid, using defaults", zap.Error(err))
			cfg = Default()
		}
		mu.Lock()
		if config == nil {
			config = cfg
		}
		mu.Unlock()
	})
	mu.Lock()
	defer mu.Unlock()
	return config
}

// Init loads path (may be empty) and installs the result as the global config.
func Init(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	config = cfg
	mu.Unlock()
	return cfg, nil
}

// Default is the built-in configuration: the six before/after jobs in the
// current directory, saved as PNG at 300 dpi with a shared y range.
func Default() *Config {
	return &Config{
		BasePath:     DefaultBasePath,
		DPI:          DefaultDPI,
		Save:         true,
		SpreadMethod: string(hrf.SpreadMean),
		MeanMarker:   hrf.DefaultMeanMarker,
		SpreadMarker: hrf.DefaultSpreadMarker,
		TimeStart:    hrf.DefaultTimeStart,
		TimeEnd:      hrf.DefaultTimeEnd,
		YRange:       &models.AxisRange{Min: DefaultYMin, Max: DefaultYMax},
		LogLevel:     "info",
		Jobs:         DefaultJobs(),
	}
}

// DefaultJobs reproduces the before/after NO recordings for HbO, HbR and HbT.
func DefaultJobs() []models.Job {
	var jobs []models.Job
	for _, condition := range []string{"before", "after"} {
		for _, species := range hrf.DefaultSpecies {
			jobs = append(jobs, models.Job{
				Input: hrf.DatasetFileName(condition, species),
				Title: fmt.Sprintf("%s NO - %s", strings.ToUpper(condition[:1])+condition[1:], speciesLabel(species)),
			})
		}
	}
	return jobs
}

func speciesLabel(species string) string {
	if len(species) < 2 {
		return strings.ToUpper(species)
	}
	return "Hb" + strings.ToUpper(species[2:])
}

// Load reads .env when present, then the optional YAML file and HRF_* variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env failed: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("tg_token", "TG_TOKEN")
	_ = v.BindEnv("tg_chat_id", "TG_CHAT_ID")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	if len(cfg.Jobs) == 0 {
		cfg.Jobs = DefaultJobs()
	}
	if cfg.AutoY {
		cfg.YRange = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("base_path", d.BasePath)
	v.SetDefault("out_dir", d.OutDir)
	v.SetDefault("dpi", d.DPI)
	v.SetDefault("show", d.Show)
	v.SetDefault("save", d.Save)
	v.SetDefault("spread_method", d.SpreadMethod)
	v.SetDefault("mean_marker", d.MeanMarker)
	v.SetDefault("spread_marker", d.SpreadMarker)
	v.SetDefault("time_start", d.TimeStart)
	v.SetDefault("time_end", d.TimeEnd)
	v.SetDefault("y_range.min", d.YRange.Min)
	v.SetDefault("y_range.max", d.YRange.Max)
	v.SetDefault("auto_y", false)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("tg_token", "")
	v.SetDefault("tg_chat_id", 0)
}

// Validate checks the values flags and files can get wrong.
func (c *Config) Validate() error {
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %g", c.DPI)
	}
	if c.TimeEnd <= c.TimeStart {
		return fmt.Errorf("time_end %g must be greater than time_start %g", c.TimeEnd, c.TimeStart)
	}
	if err := validRange("y_range", c.YRange); err != nil {
		return err
	}
	if strings.TrimSpace(c.MeanMarker) == "" || strings.TrimSpace(c.SpreadMarker) == "" {
		return errors.New("mean_marker and spread_marker must not be empty")
	}
	if _, err := hrf.ParseSpreadMethod(c.SpreadMethod); err != nil {
		return err
	}
	for i, job := range c.Jobs {
		if strings.TrimSpace(job.Input) == "" {
			return fmt.Errorf("job %d has no input", i)
		}
		if err := validRange(fmt.Sprintf("job %d y_range", i), job.YRange); err != nil {
			return err
		}
	}
	return nil
}

func validRange(name string, r *models.AxisRange) error {
	if r != nil && r.Min >= r.Max {
		return fmt.Errorf("%s min %g must be below max %g", name, r.Min, r.Max)
	}
	return nil
}

// AnalyzeOptions turns the config into pipeline options.
func (c *Config) AnalyzeOptions() (hrf.Options, error) {
	method, err := hrf.ParseSpreadMethod(c.SpreadMethod)
	if err != nil {
		return hrf.Options{}, err
	}
	opts := hrf.DefaultOptions()
	opts.Matcher = hrf.MarkerMatcher{Mean: c.MeanMarker, Spread: c.SpreadMarker}
	opts.Method = method
	opts.TimeStart = c.TimeStart
	opts.TimeEnd = c.TimeEnd
	return opts, nil
}

// JobYRange is the job's own range, else the shared one. Nil means autoscale.
func (c *Config) JobYRange(job models.Job) *models.AxisRange {
	if job.YRange != nil {
		return job.YRange
	}
	return c.YRange
}

// TelegramEnabled reports whether delivery credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.TgToken != "" && c.TgChatID != 0
}
