package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/didymo/lrvsp/layout"
)

// Default configuration values. The cycle values match what the CMS module
// expects from the daemon.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "lrvsp"

	// DefaultCycleTime is the minimum time between two cycles when the queue
	// is empty.
	DefaultCycleTime = 120 * time.Second

	// DefaultParseLimit is the number of pending paths taken per cycle.
	DefaultParseLimit = 10

	// DefaultCreateLimit is passed to the CMS so it creates at most this
	// many entities per notification.
	DefaultCreateLimit = 1200

	// DefaultWorkers is the number of documents processed concurrently.
	DefaultWorkers = 1

	// DefaultDocumentTimeout bounds the processing of a single document.
	DefaultDocumentTimeout = 5 * time.Minute

	// DefaultDatabaseFile is the file name of the queue database inside the
	// XDG data directory.
	DefaultDatabaseFile = "lrvsp.db"
)

// Layout holds the tunable parts of the layout engine
type Layout struct {
	SampleSize        int     `mapstructure:"sample_size" yaml:"sample_size"`
	Diff              float64 `mapstructure:"diff" yaml:"diff"`
	LineFrac          float64 `mapstructure:"line_frac" yaml:"line_frac"`
	SecFrac           float64 `mapstructure:"sec_frac" yaml:"sec_frac"`
	EdgeBlocks        int     `mapstructure:"edge_blocks" yaml:"edge_blocks"`
	GapFactor         float64 `mapstructure:"gap_factor" yaml:"gap_factor"`
	LinePageDivisor   float64 `mapstructure:"line_page_divisor" yaml:"line_page_divisor"`
	LineMissDivisor   float64 `mapstructure:"line_miss_divisor" yaml:"line_miss_divisor"`
	BlockPageDivisor  float64 `mapstructure:"block_page_divisor" yaml:"block_page_divisor"`
	BlockMissDivisor  float64 `mapstructure:"block_miss_divisor" yaml:"block_miss_divisor"`
	MissingChrome     string  `mapstructure:"missing_chrome" yaml:"missing_chrome"`
	ComparisonWorkers int     `mapstructure:"comparison_workers" yaml:"comparison_workers"`
}

// Config holds all configuration options of the daemon
type Config struct {
	// CycleTime is the minimum length of a cycle. When nothing is left to
	// process the daemon sleeps for what remains of it.
	CycleTime time.Duration `mapstructure:"cycle_time" yaml:"cycle_time"`

	// ParseLimit is the number of pending paths taken per cycle.
	ParseLimit int `mapstructure:"parse_limit" yaml:"parse_limit"`

	// CreateLimit is passed on to the CMS notifier.
	CreateLimit int `mapstructure:"create_limit" yaml:"create_limit"`

	// Workers is the number of documents processed at once.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// DocumentTimeout bounds the time spent on one document. Zero means no
	// deadline.
	DocumentTimeout time.Duration `mapstructure:"document_timeout" yaml:"document_timeout"`

	// DBPath is the SQLite database holding the queue and its output.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// DrupalPath is the root of the CMS installation. When empty the CMS is
	// not notified.
	DrupalPath string `mapstructure:"drupal_path" yaml:"drupal_path"`

	// LogPath is an optional log file written in addition to stderr.
	LogPath string `mapstructure:"log_path" yaml:"log_path"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose" yaml:"verbose"`

	Layout Layout `mapstructure:"layout" yaml:"layout"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	lc := layout.DefaultConfig()
	return &Config{
		CycleTime:       DefaultCycleTime,
		ParseLimit:      DefaultParseLimit,
		CreateLimit:     DefaultCreateLimit,
		Workers:         DefaultWorkers,
		DocumentTimeout: DefaultDocumentTimeout,
		DBPath:          filepath.Join(XDGDataDir(), DefaultDatabaseFile),
		Layout: Layout{
			SampleSize:        lc.SampleSize,
			Diff:              lc.Diff,
			LineFrac:          lc.LineFrac,
			SecFrac:           lc.SecFrac,
			EdgeBlocks:        lc.EdgeBlocks,
			GapFactor:         lc.GapFactor,
			LinePageDivisor:   lc.LineThreshold.PageDivisor,
			LineMissDivisor:   lc.LineThreshold.MissDivisor,
			BlockPageDivisor:  lc.BlockThreshold.PageDivisor,
			BlockMissDivisor:  lc.BlockThreshold.MissDivisor,
			MissingChrome:     lc.MissingChrome.String(),
			ComparisonWorkers: lc.Workers,
		},
	}
}

// XDGDataDir returns the XDG data directory for lrvsp.
// On Linux: ~/.local/share/lrvsp
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for lrvsp.
// On Linux: ~/.config/lrvsp
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. The first problem found is
// returned.
func (c *Config) Validate() error {
	if c.CycleTime <= 0 {
		return ErrInvalidCycleTime
	}
	if c.ParseLimit <= 0 {
		return ErrInvalidParseLimit
	}
	if c.CreateLimit <= 0 {
		return ErrInvalidCreateLimit
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.DocumentTimeout < 0 {
		return ErrInvalidDocumentTimeout
	}
	if c.DBPath == "" {
		return ErrNoDatabase
	}
	if _, err := c.LayoutConfig(); err != nil {
		return err
	}
	return nil
}

// LayoutConfig converts the layout section into an engine configuration.
// Values that are not tunable here keep their engine defaults.
func (c *Config) LayoutConfig() (layout.Config, error) {
	lc := layout.DefaultConfig()
	l := c.Layout

	policy, err := layout.ParseChromePolicy(l.MissingChrome)
	if err != nil {
		return lc, fmt.Errorf("layout.missing_chrome: %w", err)
	}

	lc.SampleSize = l.SampleSize
	lc.Diff = l.Diff
	lc.LineFrac = l.LineFrac
	lc.SecFrac = l.SecFrac
	lc.EdgeBlocks = l.EdgeBlocks
	lc.GapFactor = l.GapFactor
	lc.LineThreshold.PageDivisor = l.LinePageDivisor
	lc.LineThreshold.MissDivisor = l.LineMissDivisor
	lc.BlockThreshold.PageDivisor = l.BlockPageDivisor
	lc.BlockThreshold.MissDivisor = l.BlockMissDivisor
	lc.MissingChrome = policy
	lc.Workers = l.ComparisonWorkers

	if err := lc.Validate(); err != nil {
		return lc, err
	}
	return lc, nil
}
