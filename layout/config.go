package layout

import (
	"errors"
	"fmt"
	"math"
)

// ChromePolicy decides what happens when no recurring header or footer
// evidence clears its threshold.
type ChromePolicy int

const (
	// ChromeIgnore treats a document without page furniture as normal
	ChromeIgnore ChromePolicy = iota
	// ChromeWarn logs a warning and continues without redaction
	ChromeWarn
	// ChromeFail aborts processing with ErrNoRecurringChrome
	ChromeFail
)

func (p ChromePolicy) String() string {
	switch p {
	case ChromeWarn:
		return "warn"
	case ChromeFail:
		return "fail"
	default:
		return "ignore"
	}
}

// ParseChromePolicy converts a policy name into a ChromePolicy
func ParseChromePolicy(s string) (ChromePolicy, error) {
	switch s {
	case "", "ignore":
		return ChromeIgnore, nil
	case "warn":
		return ChromeWarn, nil
	case "fail":
		return ChromeFail, nil
	default:
		return ChromeIgnore, fmt.Errorf("unknown chrome policy %q", s)
	}
}

// ThresholdRule decides whether a pair count proves recurrence.
//
// With pc sampled pages, n = floor(pc/PageDivisor) - ceil(pc/MissDivisor)
// and the bar is (n-1)*n/2 matched pairs: the number of pairs among n pages
// that all share the element. Strict requires the count to exceed the bar
// rather than reach it.
type ThresholdRule struct {
	PageDivisor float64
	MissDivisor float64
	Strict      bool
}

// Required returns the pair count bar for pageCount sampled pages
func (t ThresholdRule) Required(pageCount int) float64 {
	pc := float64(pageCount)
	n := math.Floor(pc/t.PageDivisor) - math.Ceil(pc/t.MissDivisor)
	return (n - 1) * n / 2
}

// Accept reports whether count clears the bar
func (t ThresholdRule) Accept(count, pageCount int) bool {
	if count <= 0 {
		return false
	}
	bar := t.Required(pageCount)
	if t.Strict {
		return float64(count) > bar
	}
	return float64(count) >= bar
}

// Config holds the tunables of the layout engine
type Config struct {
	// SampleSize is the maximum number of pages used as recurrence evidence.
	// Default: 15
	SampleSize int

	// Diff is the tolerance for two block edges to count as shared.
	// Default: 0.01
	Diff float64

	// LineFrac is the fraction of page height searched for header and footer
	// rules at the top and bottom of the page.
	// Default: 0.3
	LineFrac float64

	// SecFrac is the fraction of page height searched for header and footer
	// blocks when no rule line was found.
	// Default: 0.125
	SecFrac float64

	// EdgeBlocks is how many blocks from the start and from the end of each
	// page are considered as header/footer candidates.
	// Default: 5
	EdgeBlocks int

	// LineThreshold accepts recurring rule lines.
	// Default: {1, 10, false}
	LineThreshold ThresholdRule

	// BlockThreshold accepts recurring text blocks.
	// Default: {2.2, 10, true}
	BlockThreshold ThresholdRule

	// SingleLineTolerance is how close a block's bottom edge must be to its
	// first line's bottom edge for the block to be treated as one line.
	// Default: 0.001
	SingleLineTolerance float64

	// BreakPrecision is the number of steps per unit used to floor candidate
	// break positions (10 floors to one decimal).
	// Default: 10
	BreakPrecision float64

	// CenterlineTolerance is the maximum difference between the vertical
	// centres of two adjacent words on the same line.
	// Default: 0.1
	CenterlineTolerance float64

	// GapFactor marks a gap as abnormal when it is wider than GapFactor
	// times the mean gap of the block.
	// Default: 1.5
	GapFactor float64

	// MissingChrome is the policy when no header or footer is found.
	// Default: ChromeIgnore
	MissingChrome ChromePolicy

	// Workers is the number of goroutines used for pairwise comparison.
	// Values below 2 compare sequentially.
	// Default: 1
	Workers int

	// Seed fixes the sampling window. Zero derives the seed from the
	// document name and page count.
	Seed uint64
}

// DefaultConfig returns the configuration the engine was tuned with
func DefaultConfig() Config {
	return Config{
		SampleSize:          15,
		Diff:                0.01,
		LineFrac:            0.3,
		SecFrac:             0.125,
		EdgeBlocks:          5,
		LineThreshold:       ThresholdRule{PageDivisor: 1, MissDivisor: 10},
		BlockThreshold:      ThresholdRule{PageDivisor: 2.2, MissDivisor: 10, Strict: true},
		SingleLineTolerance: 0.001,
		BreakPrecision:      10,
		CenterlineTolerance: 0.1,
		GapFactor:           1.5,
		MissingChrome:       ChromeIgnore,
		Workers:             1,
	}
}

// Configuration validation errors
var (
	ErrInvalidSampleSize = errors.New("invalid sample size: must be positive")
	ErrInvalidFraction   = errors.New("invalid band fraction: must be in (0, 0.5]")
	ErrInvalidThreshold  = errors.New("invalid threshold: divisors must be positive")
	ErrInvalidGapFactor  = errors.New("invalid gap factor: must be positive")
	ErrInvalidEdgeBlocks = errors.New("invalid edge block count: must not be negative")
	ErrInvalidTolerance  = errors.New("invalid tolerance: must not be negative")
)

// Validate checks the configuration for values the engine cannot work with
func (c Config) Validate() error {
	if c.SampleSize <= 0 {
		return ErrInvalidSampleSize
	}
	for _, f := range []float64{c.LineFrac, c.SecFrac} {
		if f <= 0 || f > 0.5 {
			return ErrInvalidFraction
		}
	}
	for _, t := range []ThresholdRule{c.LineThreshold, c.BlockThreshold} {
		if t.PageDivisor <= 0 || t.MissDivisor <= 0 {
			return ErrInvalidThreshold
		}
	}
	if c.GapFactor <= 0 {
		return ErrInvalidGapFactor
	}
	if c.EdgeBlocks < 0 {
		return ErrInvalidEdgeBlocks
	}
	for _, tol := range []float64{c.Diff, c.SingleLineTolerance, c.CenterlineTolerance} {
		if tol < 0 || math.IsNaN(tol) {
			return ErrInvalidTolerance
		}
	}
	if c.BreakPrecision <= 0 {
		return fmt.Errorf("invalid break precision %v: must be positive", c.BreakPrecision)
	}
	return nil
}
