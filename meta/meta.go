// Package meta holds the agent's tunables and loads them from a YAML file,
// a .env file and WHIST_* environment variables, in that order.
package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Environment variables read by Load.
const (
	EnvConfig           = "WHIST_CONFIG" // path to a YAML config file
	EnvName             = "WHIST_NAME"
	EnvBias             = "WHIST_BIAS"
	EnvThreshold        = "WHIST_THRESHOLD"
	EnvDrawWins         = "WHIST_DRAW_WINS"
	EnvBudget           = "WHIST_BUDGET"
	EnvEpisodes         = "WHIST_EPISODES"
	EnvDeterminizations = "WHIST_DETERMINIZATIONS"
	EnvGoroutines       = "WHIST_GOROUTINES"
	EnvSeed             = "WHIST_SEED"
	EnvLogLevel         = "WHIST_LOG_LEVEL"
	EnvRounds           = "WHIST_ROUNDS"
	EnvReportDir        = "WHIST_REPORT_DIR"
)

type Config struct {
	Name             string        `yaml:"name"`
	Bias             float64       `yaml:"bias"`      // UCT exploration constant
	Threshold        float64       `yaml:"threshold"` // belief probability treated as certain
	DrawWins         bool          `yaml:"draw_wins"`
	Budget           time.Duration `yaml:"budget"`   // per card
	Episodes         int           `yaml:"episodes"` // per determinization, 0 for no cap
	Determinizations int           `yaml:"determinizations"`
	Goroutines       int           `yaml:"goroutines"`
	Seed             uint64        `yaml:"seed"`
	LogLevel         string        `yaml:"log_level"`
	Rounds           int           `yaml:"rounds"`     // local tournament length
	ReportDir        string        `yaml:"report_dir"` // empty disables CSV reports
}

func Default() Config {
	return Config{
		Name:             "Clever Girl",
		Bias:             math.Sqrt2,
		Threshold:        0.75,
		Budget:           190 * time.Millisecond,
		Determinizations: 4,
		Goroutines:       1,
		Seed:             1,
		LogLevel:         "info",
		Rounds:           3,
	}
}

// Load starts from Default, applies the YAML file named by WHIST_CONFIG and
// then the environment. The env files (".env" when none are given) are loaded
// into the environment first; missing files are skipped.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Default()
	if path := os.Getenv(EnvConfig); path != "" {
		if err := cfg.ReadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.readEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ReadFile overlays the fields set in a YAML file.
func (c *Config) ReadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) readEnv() error {
	if v := os.Getenv(EnvName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvReportDir); v != "" {
		c.ReportDir = v
	}

	parsers := []struct {
		key   string
		parse func(string) error
	}{
		{EnvBias, floatVar(&c.Bias)},
		{EnvThreshold, floatVar(&c.Threshold)},
		{EnvDrawWins, boolVar(&c.DrawWins)},
		{EnvBudget, durationVar(&c.Budget)},
		{EnvEpisodes, intVar(&c.Episodes)},
		{EnvDeterminizations, intVar(&c.Determinizations)},
		{EnvGoroutines, intVar(&c.Goroutines)},
		{EnvSeed, uintVar(&c.Seed)},
		{EnvRounds, intVar(&c.Rounds)},
	}
	for _, p := range parsers {
		v := strings.TrimSpace(os.Getenv(p.key))
		if v == "" {
			continue
		}
		if err := p.parse(v); err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, p.key, v, err)
		}
	}
	return nil
}

func floatVar(dst *float64) func(string) error {
	return func(s string) (err error) {
		*dst, err = strconv.ParseFloat(s, 64)
		return err
	}
}

func intVar(dst *int) func(string) error {
	return func(s string) (err error) {
		*dst, err = strconv.Atoi(s)
		return err
	}
}

func uintVar(dst *uint64) func(string) error {
	return func(s string) (err error) {
		*dst, err = strconv.ParseUint(s, 10, 64)
		return err
	}
}

func durationVar(dst *time.Duration) func(string) error {
	return func(s string) (err error) {
		*dst, err = time.ParseDuration(s)
		return err
	}
}

func boolVar(dst *bool) func(string) error {
	return func(s string) error {
		switch strings.ToLower(s) {
		case "1", "true", "yes", "y", "on":
			*dst = true
		case "0", "false", "no", "n", "off":
			*dst = false
		default:
			return errors.New("not a boolean")
		}
		return nil
	}
}

// Validate reports the first setting the search cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	case c.Bias < 0:
		return fmt.Errorf("%w: negative bias %v", ErrInvalidConfig, c.Bias)
	case c.Threshold <= 0 || c.Threshold >= 1:
		return fmt.Errorf("%w: threshold %v outside (0, 1)", ErrInvalidConfig, c.Threshold)
	case c.Budget <= 0 && c.Episodes <= 0:
		return fmt.Errorf("%w: either a budget or episodes is required", ErrInvalidConfig)
	case c.Budget < 0 || c.Episodes < 0:
		return fmt.Errorf("%w: negative budget or episodes", ErrInvalidConfig)
	case c.Determinizations < 1:
		return fmt.Errorf("%w: %d determinizations", ErrInvalidConfig, c.Determinizations)
	case c.Rounds < 0:
		return fmt.Errorf("%w: %d rounds", ErrInvalidConfig, c.Rounds)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses the log level.
func (c Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return level, nil
}
