package lrvsp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/didymo/lrvsp/format"
	"github.com/didymo/lrvsp/layout"
	"github.com/didymo/lrvsp/markup"
	"github.com/didymo/lrvsp/model"
	"github.com/didymo/lrvsp/reader"
	"github.com/didymo/lrvsp/refs"
)

// ErrNoSource is returned by terminal operations on an Extractor that has
// neither a filename nor a document
var ErrNoSource = errors.New("no filename or document specified")

// Extractor provides a fluent interface for extracting text and records from
// PDF and markup files. Each configuration method returns a new Extractor
// instance, making it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string
	document *model.Document

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a copy of options.
// Each chain method returns a new instance.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		document: e.document,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// WithConfig replaces the layout engine configuration. The configuration is
// validated when a terminal operation runs.
func (e *Extractor) WithConfig(config layout.Config) *Extractor {
	ne := e.clone()
	ne.options.config = config
	return ne
}

// WithLogger sets the logger used by the layout engine. A nil logger keeps
// the current one.
func (e *Extractor) WithLogger(logger *zap.Logger) *Extractor {
	ne := e.clone()
	if logger != nil {
		ne.options.logger = logger
	}
	return ne
}

// WithReferences replaces the extractor used to find cited titles in PDF
// text.
func (e *Extractor) WithReferences(extractor refs.Extractor) *Extractor {
	ne := e.clone()
	if extractor == nil {
		ne.err = errors.New("reference extractor must not be nil")
		return ne
	}
	ne.options.references = extractor
	return ne
}

// WithSampler replaces the page sampler that chooses which pages are used as
// recurrence evidence.
func (e *Extractor) WithSampler(s layout.Sampler) *Extractor {
	ne := e.clone()
	ne.options.sampler = s
	return ne
}

// Seed fixes the sampling window of the layout engine.
func (e *Extractor) Seed(seed uint64) *Extractor {
	ne := e.clone()
	ne.options.config.Seed = seed
	return ne
}

// Workers sets how many goroutines compare candidate elements.
func (e *Extractor) Workers(n int) *Extractor {
	ne := e.clone()
	if n < 1 {
		ne.err = fmt.Errorf("invalid worker count %d: must be at least 1", n)
		return ne
	}
	ne.options.config.Workers = n
	return ne
}

// MissingChrome sets what happens when a PDF has no recurring header or
// footer.
func (e *Extractor) MissingChrome(policy layout.ChromePolicy) *Extractor {
	ne := e.clone()
	ne.options.config.MissingChrome = policy
	return ne
}

// Format returns the detected format of the source
func (e *Extractor) Format() (format.Format, error) {
	if e.err != nil {
		return format.Unknown, e.err
	}
	if e.document != nil {
		return format.PDF, nil
	}
	if e.filename == "" {
		return format.Unknown, ErrNoSource
	}
	return format.DetectFile(e.filename)
}

// Name returns the record name of a PDF source, derived from its file name.
func (e *Extractor) Name() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	switch {
	case e.document != nil:
		return DocumentName(e.document.Name), nil
	case e.filename != "":
		return DocumentName(e.filename), nil
	default:
		return "", ErrNoSource
	}
}

// Text extracts the body text of a PDF with headers and footers removed.
func (e *Extractor) Text() (string, []Warning, error) {
	return e.TextContext(context.Background())
}

// TextContext is Text bounded by ctx.
func (e *Extractor) TextContext(ctx context.Context) (string, []Warning, error) {
	res, warnings, err := e.ResultContext(ctx)
	if err != nil {
		return "", warnings, err
	}
	return res.Text, warnings, nil
}

// Result runs the layout engine on a PDF and returns the full result,
// including fragments and the report of what was removed.
func (e *Extractor) Result() (*layout.Result, []Warning, error) {
	return e.ResultContext(context.Background())
}

// ResultContext is Result bounded by ctx.
func (e *Extractor) ResultContext(ctx context.Context) (*layout.Result, []Warning, error) {
	f, err := e.Format()
	if err != nil {
		return nil, nil, err
	}
	if f != format.PDF {
		return nil, nil, fmt.Errorf("%w: layout analysis needs a PDF, got %s", format.ErrUnsupported, f)
	}
	return e.process(ctx)
}

// Record extracts the stored representation of the source: its name,
// metadata and the titles it cites. PDFs go through the layout engine and
// the reference extractor; markup files are read directly.
func (e *Extractor) Record() (*Record, []Warning, error) {
	return e.RecordContext(context.Background())
}

// RecordContext is Record bounded by ctx.
func (e *Extractor) RecordContext(ctx context.Context) (*Record, []Warning, error) {
	f, err := e.Format()
	if err != nil {
		return nil, nil, err
	}

	switch f {
	case format.PDF:
		return e.pdfRecord(ctx)
	case format.XML:
		return e.markupRecord(ctx)
	default:
		return nil, nil, fmt.Errorf("%w: %s", format.ErrUnsupported, f)
	}
}

// process loads the PDF and runs the layout engine over it.
func (e *Extractor) process(ctx context.Context) (*layout.Result, []Warning, error) {
	engine, err := e.engine()
	if err != nil {
		return nil, nil, err
	}

	doc := e.document
	if doc == nil {
		doc, err = reader.ReadDocument(e.filename)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", e.filename, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	res, err := engine.ProcessContext(ctx, doc)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if !res.Report.Redaction.Header && !res.Report.Redaction.Footer {
		warnings = append(warnings, Warning{
			Code:    WarnNoChrome,
			Message: fmt.Sprintf("no recurring header or footer in %d pages", res.Report.PageCount),
		})
	}
	if res.Text == "" {
		warnings = append(warnings, Warning{Code: WarnEmptyText, Message: "document produced no text"})
	}
	return res, warnings, nil
}

func (e *Extractor) engine() (*layout.Engine, error) {
	opts := []layout.Option{layout.WithLogger(e.options.logger)}
	if e.options.sampler != nil {
		opts = append(opts, layout.WithSampler(e.options.sampler))
	}
	return layout.NewEngine(e.options.config, opts...)
}

func (e *Extractor) pdfRecord(ctx context.Context) (*Record, []Warning, error) {
	res, warnings, err := e.process(ctx)
	if err != nil {
		return nil, warnings, err
	}
	name, err := e.Name()
	if err != nil {
		return nil, warnings, err
	}

	rec := &Record{
		Name:     name,
		Metadata: map[string]string{},
		Links:    e.options.references.Extract(res.Text),
	}
	if len(rec.Links) == 0 {
		warnings = append(warnings, Warning{Code: WarnNoReferences, Message: "no cited documents found"})
	}
	return rec, warnings, nil
}

func (e *Extractor) markupRecord(ctx context.Context) (*Record, []Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	doc, err := markup.ParseFile(e.filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", e.filename, err)
	}

	rec := &Record{
		Name:     doc.Title,
		Metadata: doc.Metadata,
		Links:    doc.Links(),
	}
	var warnings []Warning
	if len(rec.Links) == 0 {
		warnings = append(warnings, Warning{Code: WarnNoReferences, Message: "no legref elements found"})
	}
	return rec, warnings, nil
}
