package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by WriteTemplate when the target exists and
// overwriting was not requested.
var ErrConfigExists = errors.New("configuration file already exists")

// fileConfig is Config as written to disk, with durations spelled out
type fileConfig struct {
	CycleTime       string `yaml:"cycle_time"`
	ParseLimit      int    `yaml:"parse_limit"`
	CreateLimit     int    `yaml:"create_limit"`
	Workers         int    `yaml:"workers"`
	DocumentTimeout string `yaml:"document_timeout"`
	DBPath          string `yaml:"db_path"`
	DrupalPath      string `yaml:"drupal_path"`
	LogPath         string `yaml:"log_path"`
	Verbose         bool   `yaml:"verbose"`
	Layout          Layout `yaml:"layout"`
}

const templateHeader = `# lrvsp daemon configuration.
# Every key can be overridden with an LRVSP_ environment variable,
# e.g. LRVSP_PARSE_LIMIT=20 or LRVSP_LAYOUT_SAMPLE_SIZE=10.
`

// Template renders c as a commented YAML configuration file
func Template(c *Config) ([]byte, error) {
	fc := fileConfig{
		CycleTime:       c.CycleTime.String(),
		ParseLimit:      c.ParseLimit,
		CreateLimit:     c.CreateLimit,
		Workers:         c.Workers,
		DocumentTimeout: c.DocumentTimeout.String(),
		DBPath:          c.DBPath,
		DrupalPath:      c.DrupalPath,
		LogPath:         c.LogPath,
		Verbose:         c.Verbose,
		Layout:          c.Layout,
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTemplate writes the default configuration to path, creating parent
// directories as needed.
func WriteTemplate(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
	}

	content, err := Template(NewConfig())
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}
	return nil
}
