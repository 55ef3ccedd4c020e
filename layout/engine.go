package layout

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/didymo/lrvsp/model"
)

// Report describes what the engine found and removed in one document
type Report struct {
	PageCount  int
	Window     Window
	SampleSize int
	Rules      RuleResult
	Blocks     BlockResult
	Redaction  Redaction
}

// Result is the output of processing one document
type Result struct {
	Text      string
	Fragments []Fragment
	Report    Report
}

// Engine strips recurring page furniture from documents and turns what is
// left into segmented plain text. An Engine holds no per-document state and
// may be shared between goroutines.
type Engine struct {
	config  Config
	logger  *zap.Logger
	sampler Sampler
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSampler replaces the seeded page sampler
func WithSampler(s Sampler) Option {
	return func(e *Engine) {
		e.sampler = s
	}
}

// NewEngine creates an engine, rejecting configurations it cannot run with
func NewEngine(config Config, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration
func (e *Engine) Config() Config {
	return e.config
}

// Process runs the engine on doc without a deadline
func (e *Engine) Process(doc *model.Document) (*Result, error) {
	return e.ProcessContext(context.Background(), doc)
}

// ProcessContext runs the engine on a copy of doc; doc itself is never
// modified, so processing the same document twice gives the same result.
// ctx is checked between stages.
func (e *Engine) ProcessContext(ctx context.Context, doc *model.Document) (*Result, error) {
	if doc == nil || doc.PageCount() == 0 {
		return nil, ErrEmptyDocument
	}
	work := doc.Clone()
	log := e.logger.With(zap.String("document", doc.Name), zap.Int("pages", work.PageCount()))

	var report Report
	report.PageCount = work.PageCount()
	report.Window = e.window(work)
	report.SampleSize = SampleCount(report.PageCount, e.config.SampleSize)
	sample := work.Pages[report.Window.Start:report.Window.End]
	log.Debug("sampled pages",
		zap.Int("start", report.Window.Start),
		zap.Int("end", report.Window.End),
		zap.Int("sample_size", report.SampleSize))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Rules = NewLineRecurrenceDetector(e.config).Detect(sample, report.SampleSize)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Blocks = NewBlockRecurrenceDetector(e.config).Detect(sample, report.SampleSize, report.Rules)
	log.Debug("recurrence detected",
		zap.Bool("header_rule", report.Rules.Header.Found),
		zap.Bool("footer_rule", report.Rules.Footer.Found),
		zap.Int("header_blocks", len(report.Blocks.Header.Accepted)),
		zap.Int("footer_blocks", len(report.Blocks.Footer.Accepted)))

	if !report.Blocks.Header.Found && !report.Blocks.Footer.Found {
		switch e.config.MissingChrome {
		case ChromeFail:
			return nil, fmt.Errorf("%s: %w", doc.Name, ErrNoRecurringChrome)
		case ChromeWarn:
			log.Warn("no recurring header or footer, text is not redacted")
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	redactor := NewRedactor()
	report.Redaction = redactor.Apply(work, redactor.Plan(report.Rules, report.Blocks))
	if report.Redaction.Chars > 0 {
		log.Debug("redacted",
			zap.Int("chars", report.Redaction.Chars),
			zap.Int("pages", report.Redaction.PagesTouched))
	}

	fragments, err := NewTextSegmenter(e.config).Segment(ctx, work)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:      Assemble(fragments),
		Fragments: fragments,
		Report:    report,
	}, nil
}

func (e *Engine) window(doc *model.Document) Window {
	sampler := e.sampler
	if sampler == nil {
		seed := e.config.Seed
		if seed == 0 {
			seed = documentSeed(doc.Name, doc.PageCount())
		}
		sampler = seededSampler(seed, e.config.SampleSize)
	}

	w := sampler(doc.PageCount())
	w.Start = max(0, min(w.Start, doc.PageCount()))
	w.End = max(w.Start, min(w.End, doc.PageCount()))
	return w
}
