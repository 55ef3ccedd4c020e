// Package config holds the configuration of the ingestion daemon.
//
// Values come from, in increasing priority: built-in defaults, a YAML file
// (.lrvsp.yaml in the working directory, the home directory or the XDG
// config directory), and LRVSP_* environment variables. Nested keys map to
// environment variables with underscores, so layout.sample_size is read from
// LRVSP_LAYOUT_SAMPLE_SIZE.
package config
