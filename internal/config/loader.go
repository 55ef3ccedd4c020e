package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigName is the configuration file name searched for when no
// path is given, without its extension.
const DefaultConfigName = ".lrvsp"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "LRVSP"

// ErrConfigNotFound is returned when an explicitly given configuration file
// does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Load reads the configuration. An explicit path must exist; without one the
// usual locations are searched and defaults are used when nothing is found.
// The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(XDGConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		default:
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to keys
// missing from the file.
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("cycle_time", c.CycleTime)
	v.SetDefault("parse_limit", c.ParseLimit)
	v.SetDefault("create_limit", c.CreateLimit)
	v.SetDefault("workers", c.Workers)
	v.SetDefault("document_timeout", c.DocumentTimeout)
	v.SetDefault("db_path", c.DBPath)
	v.SetDefault("drupal_path", c.DrupalPath)
	v.SetDefault("log_path", c.LogPath)
	v.SetDefault("verbose", c.Verbose)

	l := c.Layout
	v.SetDefault("layout.sample_size", l.SampleSize)
	v.SetDefault("layout.diff", l.Diff)
	v.SetDefault("layout.line_frac", l.LineFrac)
	v.SetDefault("layout.sec_frac", l.SecFrac)
	v.SetDefault("layout.edge_blocks", l.EdgeBlocks)
	v.SetDefault("layout.gap_factor", l.GapFactor)
	v.SetDefault("layout.line_page_divisor", l.LinePageDivisor)
	v.SetDefault("layout.line_miss_divisor", l.LineMissDivisor)
	v.SetDefault("layout.block_page_divisor", l.BlockPageDivisor)
	v.SetDefault("layout.block_miss_divisor", l.BlockMissDivisor)
	v.SetDefault("layout.missing_chrome", l.MissingChrome)
	v.SetDefault("layout.comparison_workers", l.ComparisonWorkers)
}
