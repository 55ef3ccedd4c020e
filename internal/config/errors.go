package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() to tell them apart.
var (
	// ErrInvalidCycleTime is returned when the cycle time is not positive.
	ErrInvalidCycleTime = errors.New("invalid cycle time: must be positive")

	// ErrInvalidParseLimit is returned when the number of paths taken per
	// cycle is not positive.
	ErrInvalidParseLimit = errors.New("invalid parse limit: must be positive")

	// ErrInvalidCreateLimit is returned when the CMS creation limit is not
	// positive.
	ErrInvalidCreateLimit = errors.New("invalid create limit: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidDocumentTimeout is returned when the per-document deadline is
	// negative. Zero disables the deadline.
	ErrInvalidDocumentTimeout = errors.New("invalid document timeout: must be non-negative")

	// ErrNoDatabase is returned when no database path is configured.
	ErrNoDatabase = errors.New("no database path configured")
)
