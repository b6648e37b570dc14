// Package config loads the b58finder configuration.
//
// Configuration comes from a single YAML file named by the --config flag or
// the B58FINDER_CONFIG environment variable. Without either, the defaults
// apply. Command-line flags override file values.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/search"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "B58FINDER_CONFIG"

// Config is the configuration of the finder.
type Config struct {
	// Workers is the search pool size. 0 means one per CPU.
	Workers int `yaml:"workers"`

	// Placeholder is the symbol that marks a missing character.
	// Default: *
	Placeholder string `yaml:"placeholder"`

	// ProgressInterval is how often progress is refreshed.
	// Default: 250ms
	ProgressInterval string `yaml:"progress_interval"`

	// CheckEvery is how many candidates a worker tests between cancellation
	// checks.
	CheckEvery uint64 `yaml:"check_every"`

	MeetInTheMiddle MITMConfig   `yaml:"meet_in_the_middle"`
	Log             LogConfig    `yaml:"log"`
	Lookup          LookupConfig `yaml:"lookup"`
}

// MITMConfig tunes the suffix table join.
type MITMConfig struct {
	// Threshold is the missing-character count that enables the join.
	// 0 disables it. Default: 6
	Threshold int `yaml:"threshold"`

	// MaxTableDigits caps the tabulated trailing positions (1..5).
	// Default: 4
	MaxTableDigits int `yaml:"max_table_digits"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: warn
	Level string `yaml:"level"`
}

// LookupConfig configures the known-address filter.
type LookupConfig struct {
	// AddressFile lists addresses recovered keys must control. Empty
	// disables the filter. ${HOME} style variables are expanded.
	AddressFile string `yaml:"address_file"`

	// FalsePositiveRate sizes the bloom prefilter. Default: 0.0001
	FalsePositiveRate float64 `yaml:"false_positive_rate"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Workers:          0,
		Placeholder:      "*",
		ProgressInterval: search.DefaultProgressInterval.String(),
		CheckEvery:       search.DefaultCheckEvery,
		MeetInTheMiddle: MITMConfig{
			Threshold:      search.DefaultMITMThreshold,
			MaxTableDigits: search.DefaultMITMDigits,
		},
		Log: LogConfig{Level: "warn"},
		Lookup: LookupConfig{
			FalsePositiveRate: 0.0001,
		},
	}
}

// Load loads the file named by B58FINDER_CONFIG, or returns the defaults
// when it is not set.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Lookup.AddressFile = expandVars(cfg.Lookup.AddressFile)
	return cfg, nil
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// PlaceholderRune returns the placeholder as a rune.
func (c *Config) PlaceholderRune() rune {
	r := []rune(c.Placeholder)
	if len(r) != 1 {
		return 0
	}
	return r[0]
}

// Interval returns the parsed progress interval.
func (c *Config) Interval() time.Duration {
	d, err := time.ParseDuration(c.ProgressInterval)
	if err != nil {
		return search.DefaultProgressInterval
	}
	return d
}

// LogLevel returns the configured slog level, warn when unparsable.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelWarn
	}
	return level
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if !base58.IsPlaceholder(c.PlaceholderRune()) {
		errs = append(errs, fmt.Errorf("placeholder %q must be one of %s", c.Placeholder, base58.Placeholders))
	}
	if d, err := time.ParseDuration(c.ProgressInterval); err != nil {
		errs = append(errs, fmt.Errorf("invalid progress_interval: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("progress_interval must not be negative"))
	}
	if c.CheckEvery == 0 {
		errs = append(errs, errors.New("check_every must be positive"))
	}
	if c.MeetInTheMiddle.Threshold < 0 {
		errs = append(errs, errors.New("meet_in_the_middle.threshold must not be negative"))
	}
	if d := c.MeetInTheMiddle.MaxTableDigits; d < 1 || d > 5 {
		errs = append(errs, fmt.Errorf("meet_in_the_middle.max_table_digits must be 1..5, got %d", d))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log.level: %q", c.Log.Level))
	}
	if r := c.Lookup.FalsePositiveRate; r <= 0 || r >= 1 {
		errs = append(errs, fmt.Errorf("lookup.false_positive_rate must be in (0, 1), got %v", r))
	}

	return errors.Join(errs...)
}

// EngineOptions converts the search settings into engine options.
func (c *Config) EngineOptions() []search.Option {
	return []search.Option{
		search.WithWorkers(c.Workers),
		search.WithProgressInterval(c.Interval()),
		search.WithCheckEvery(c.CheckEvery),
		search.WithMeetInTheMiddle(c.MeetInTheMiddle.Threshold, c.MeetInTheMiddle.MaxTableDigits),
	}
}
