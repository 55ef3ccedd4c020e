package lrvsp

import (
	"go.uber.org/zap"

	"github.com/didymo/lrvsp/layout"
	"github.com/didymo/lrvsp/refs"
)

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Layout engine tunables
	config  layout.Config
	sampler layout.Sampler

	// Reference extraction for PDF text
	references refs.Extractor

	logger *zap.Logger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		config:     layout.DefaultConfig(),
		references: refs.NewPatternExtractor(),
		logger:     zap.NewNop(),
	}
}

// clone creates a copy of ExtractOptions. Every field is a value or an
// immutable shared collaborator.
func (o ExtractOptions) clone() ExtractOptions {
	return o
}
