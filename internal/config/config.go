// Package config loads labelkit configuration from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"labelkit/internal/core/numerator"
	"labelkit/internal/domain/labels"
	"labelkit/internal/domain/layout"
	"labelkit/internal/domain/render"
	"labelkit/internal/domain/scan"
)

// Storage drivers.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config is the complete configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Labels  LabelsConfig  `yaml:"labels"`
	Layout  LayoutConfig  `yaml:"layout"`
	Scanner ScannerConfig `yaml:"scanner"`
}

// AppConfig identifies the deployment.
type AppConfig struct {
	Env string `yaml:"env"` // development, production
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	Driver string `yaml:"driver"` // file, sqlite
	Path   string `yaml:"path"`

	// CompressThreshold is the sqlite payload size in bytes above which
	// snapshots are zstd-compressed.
	CompressThreshold int `yaml:"compress_threshold"`
}

// LabelsConfig configures the record store. The serial format is fixed
// and has no settings here.
type LabelsConfig struct {
	// Duplicates is "reject" or "allow". Required.
	Duplicates string `yaml:"duplicates"`
}

// LayoutConfig is the label sheet geometry in millimetres.
type LayoutConfig struct {
	PageWidth  decimal.Decimal `yaml:"page_width"`
	PageHeight decimal.Decimal `yaml:"page_height"`
	CellWidth  decimal.Decimal `yaml:"cell_width"`
	CellHeight decimal.Decimal `yaml:"cell_height"`
	GapX       decimal.Decimal `yaml:"gap_x"`
	GapY       decimal.Decimal `yaml:"gap_y"`
}

// ScannerConfig configures capture backends. Empty paths disable a backend.
type ScannerConfig struct {
	// Device is a keyboard-wedge or serial reader, e.g. /dev/ttyACM0.
	Device string `yaml:"device"`

	// ImageDir receives camera frames for software decoding.
	ImageDir string `yaml:"image_dir"`

	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`

	// Prefix is the batch code the unattended station records scans under.
	Prefix   string        `yaml:"prefix"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	sheet := layout.A4Labels()
	return &Config{
		App: AppConfig{Env: "development"},
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			Driver:            StorageFile,
			Path:              "labels.json",
			CompressThreshold: 4 * 1024,
		},
		Labels: LabelsConfig{
			Duplicates: labels.DuplicatesReject.String(),
		},
		Layout: LayoutConfig{
			PageWidth:  sheet.PageWidth,
			PageHeight: sheet.PageHeight,
			CellWidth:  sheet.CellWidth,
			CellHeight: sheet.CellHeight,
			GapX:       sheet.GapX,
			GapY:       sheet.GapY,
		},
		Scanner: ScannerConfig{
			Interval: scan.DefaultInterval,
			Timeout:  2 * time.Minute,
			Debounce: scan.DefaultDebounce,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates. A missing file, or an empty path,
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("APP_ENV", &c.App.Env)
	setString("APP_PORT", &c.HTTP.Port)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LABELKIT_STORAGE_DRIVER", &c.Storage.Driver)
	setString("LABELKIT_STORAGE_PATH", &c.Storage.Path)
	setString("LABELKIT_DUPLICATES", &c.Labels.Duplicates)
	setString("LABELKIT_SCANNER_DEVICE", &c.Scanner.Device)
	setString("LABELKIT_SCANNER_IMAGE_DIR", &c.Scanner.ImageDir)
	setString("LABELKIT_SCANNER_PREFIX", &c.Scanner.Prefix)

	if v := os.Getenv("LABELKIT_SCANNER_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LABELKIT_SCANNER_INTERVAL: %w", err)
		}
		c.Scanner.Interval = d
	}
	if v := os.Getenv("LABELKIT_SCANNER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LABELKIT_SCANNER_TIMEOUT: %w", err)
		}
		c.Scanner.Timeout = d
	}
	if v := os.Getenv("LABELKIT_COMPRESS_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LABELKIT_COMPRESS_THRESHOLD: %w", err)
		}
		c.Storage.CompressThreshold = n
	}
	return nil
}

// Validate checks the configuration for values the services would reject.
func (c *Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageFile, StorageSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown driver %q", c.Storage.Driver))
	}
	if c.Storage.Path == "" {
		errs = append(errs, errors.New("storage.path: required"))
	}
	if c.Storage.CompressThreshold < 0 {
		errs = append(errs, errors.New("storage.compress_threshold: must not be negative"))
	}

	if _, err := c.DuplicatePolicy(); err != nil {
		errs = append(errs, fmt.Errorf("labels.duplicates: %w", err))
	}
	if _, err := c.Geometry().Grid(); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	} else if err := render.DefaultCellStyle().Fits(c.Geometry()); err != nil {
		errs = append(errs, fmt.Errorf("layout: %w", err))
	}

	if c.Scanner.Interval <= 0 {
		errs = append(errs, errors.New("scanner.interval: must be positive"))
	}
	if c.Scanner.Timeout < 0 {
		errs = append(errs, errors.New("scanner.timeout: must not be negative"))
	}
	if c.Scanner.Debounce < 0 {
		errs = append(errs, errors.New("scanner.debounce: must not be negative"))
	}
	if c.Scanner.Prefix != "" {
		if err := numerator.ValidatePrefix(c.Scanner.Prefix); err != nil {
			errs = append(errs, fmt.Errorf("scanner.prefix: %w", err))
		}
	}

	return errors.Join(errs...)
}

// DuplicatePolicy parses labels.duplicates.
func (c *Config) DuplicatePolicy() (labels.DuplicatePolicy, error) {
	return labels.ParsePolicy(c.Labels.Duplicates)
}

// Numerator returns the serial layout: "13" + prefix + filler, 7 characters.
func (c *Config) Numerator() numerator.Config {
	return numerator.DefaultConfig()
}

// Geometry returns the configured label sheet.
func (c *Config) Geometry() layout.Geometry {
	return layout.Geometry{
		PageWidth:  c.Layout.PageWidth,
		PageHeight: c.Layout.PageHeight,
		CellWidth:  c.Layout.CellWidth,
		CellHeight: c.Layout.CellHeight,
		GapX:       c.Layout.GapX,
		GapY:       c.Layout.GapY,
	}
}

// Development reports whether the development logger should be used.
func (c *Config) Development() bool {
	return c.App.Env == "development"
}
