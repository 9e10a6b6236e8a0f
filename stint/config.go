package stint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

// Config holds the optional instrumentation settings. Fields can come from a
// YAML file ([LoadConfig]) or from environment variables ([ConfigFromEnv]).
type Config struct {
	// MetricsPath is where the per-update CSV rows are written. The timing
	// tree lands at the sibling hierarchy path.
	MetricsPath string `yaml:"metrics_path" split_words:"true" default:"training_metrics.csv"`

	// BrainName identifies the policy being trained.
	BrainName string `yaml:"brain_name" split_words:"true" default:"brain"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" split_words:"true" default:"info"`
}

func defaultConfig() *Config {
	return &Config{
		MetricsPath: "training_metrics.csv",
		BrainName:   "brain",
		LogLevel:    "info",
	}
}

// LoadConfig reads a YAML config file. Unknown keys are rejected; keys left
// out keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ConfigFromEnv reads the config from environment variables, e.g.
// PREFIX_METRICS_PATH, PREFIX_BRAIN_NAME, PREFIX_LOG_LEVEL. Unset variables
// keep their defaults.
func ConfigFromEnv(prefix string) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(prefix, cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// Level parses the configured log level. Unrecognized values fall back to
// info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewTrainerMetricsFromConfig builds a recorder from cfg on the given stack
// (nil selects the process default) and applies the configured log level.
func NewTrainerMetricsFromConfig(cfg *Config, stack *TimerStack) *TrainerMetrics {
	SetLogLevel(cfg.Level())
	return NewTrainerMetrics(cfg.MetricsPath, cfg.BrainName, stack)
}
