// Package config loads the settings of the tradeledger tools.
//
// Settings come, by increasing priority, from the defaults, an optional YAML
// file, and TL_* environment variables (a .env file in the working directory
// is loaded into the environment first). Command-line flags are applied on top
// by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/tradeledger"
	"github.com/etnz/tradeledger/broker"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "tradeledger.yaml"

// Environment variables overriding the file.
const (
	EnvConfigFile  = "TL_CONFIG"
	EnvSourceDir   = "TL_SOURCE_DIR"
	EnvLedgerFile  = "TL_LEDGER_FILE"
	EnvHistoryFile = "TL_HISTORY_FILE"
	EnvBroker      = "TL_BROKER"
	EnvGap         = "TL_GAP"
	EnvAnchor      = "TL_ANCHOR"
	EnvMinTotal    = "TL_MIN_TOTAL"
	EnvCurrency    = "TL_CURRENCY"
	EnvLogLevel    = "TL_LOG_LEVEL"
	EnvLogFormat   = "TL_LOG_FORMAT"
)

// Config holds every setting.
type Config struct {
	SourceDir   string        `yaml:"source_dir"`
	LedgerFile  string        `yaml:"ledger_file"`
	HistoryFile string        `yaml:"history_file"` // defaults to .ingest_history next to the ledger
	Broker      string        `yaml:"broker"`
	Gap         time.Duration `yaml:"gap"`
	Anchor      string        `yaml:"anchor"`
	MinTotal    float64       `yaml:"min_total"`
	DropActions []string      `yaml:"drop_actions"`
	Currency    string        `yaml:"currency"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		SourceDir:   "./private/trades_exported",
		LedgerFile:  "./private/trades.csv",
		Broker:      broker.DefaultSchema,
		Gap:         tradeledger.DefaultGap,
		Anchor:      tradeledger.AnchorPrevious.String(),
		MinTotal:    tradeledger.DefaultMinTotal,
		DropActions: slices.Clone(broker.DefaultDropActions),
		Currency:    money.USD,
		LogLevel:    "info",
		LogFormat:   "console",
	}
}

// Load returns the settings from the defaults, the file at path and the
// environment.
//
// An empty path means TL_CONFIG, or DefaultFile; a missing default file is
// not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigFile)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultFile
	}

	c := Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	case err != nil:
		return nil, fmt.Errorf("could not read config file: %w", err)
	default:
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("could not parse config file %q: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// applyEnv overrides settings with the TL_* variables that are set.
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		EnvSourceDir:   &c.SourceDir,
		EnvLedgerFile:  &c.LedgerFile,
		EnvHistoryFile: &c.HistoryFile,
		EnvBroker:      &c.Broker,
		EnvAnchor:      &c.Anchor,
		EnvCurrency:    &c.Currency,
		EnvLogLevel:    &c.LogLevel,
		EnvLogFormat:   &c.LogFormat,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv(EnvGap); ok {
		gap, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvGap, v, err)
		}
		c.Gap = gap
	}
	if v, ok := os.LookupEnv(EnvMinTotal); ok {
		minTotal, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMinTotal, v, err)
		}
		c.MinTotal = minTotal
	}
	return nil
}

// Validate checks the settings.
func (c *Config) Validate() error {
	var errs []error
	if c.SourceDir == "" {
		errs = append(errs, errors.New("source_dir cannot be empty"))
	}
	if c.LedgerFile == "" {
		errs = append(errs, errors.New("ledger_file cannot be empty"))
	}
	if _, err := broker.Lookup(c.Broker); err != nil {
		errs = append(errs, err)
	}
	if c.Gap <= 0 {
		errs = append(errs, fmt.Errorf("gap must be positive, got %v", c.Gap))
	}
	if c.MinTotal < 0 {
		errs = append(errs, fmt.Errorf("min_total cannot be negative, got %v", c.MinTotal))
	}
	if _, err := tradeledger.ParseAnchor(c.Anchor); err != nil {
		errs = append(errs, err)
	}
	if money.GetCurrency(c.Currency) == nil {
		errs = append(errs, fmt.Errorf("unknown currency %q", c.Currency))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be 'console' or 'json', got %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// History returns the path of the history file.
func (c *Config) History() string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	return filepath.Join(filepath.Dir(c.LedgerFile), ".ingest_history")
}

// Schema returns the broker schema, with the configured drop actions.
func (c *Config) Schema() (broker.Schema, error) {
	s, err := broker.Lookup(c.Broker)
	if err != nil {
		return s, err
	}
	return s.WithDropActions(c.DropActions), nil
}

// CombineOptions returns the options of the combining stage.
func (c *Config) CombineOptions() (tradeledger.CombineOptions, error) {
	anchor, err := tradeledger.ParseAnchor(c.Anchor)
	if err != nil {
		return tradeledger.CombineOptions{}, err
	}
	return tradeledger.CombineOptions{Gap: c.Gap, Anchor: anchor}, nil
}

// Threshold returns the materiality threshold as a decimal.
func (c *Config) Threshold() decimal.Decimal {
	return decimal.NewFromFloat(c.MinTotal)
}
