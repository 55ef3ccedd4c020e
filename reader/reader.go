package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/didymo/lrvsp/model"
)

// ErrOpen is returned, wrapped, for any file that cannot be read as a PDF
var ErrOpen = errors.New("cannot open document")

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Options controls how a Reader opens and converts a file
type Options struct {
	// Validate runs a structural validation pass before extraction.
	// Default: true
	Validate bool

	// Blocks configures how glyphs are grouped into lines and blocks
	Blocks BlockConfig
}

// DefaultOptions returns the options used by Open
func DefaultOptions() Options {
	return Options{
		Validate: true,
		Blocks:   DefaultBlockConfig(),
	}
}

// Reader represents an open PDF file
type Reader struct {
	file     *os.File // nil when the caller owns the source
	pdf      *pdf.Reader
	version  PDFVersion
	fileSize int64
	options  Options
}

// Open opens a PDF file and returns a Reader
func Open(filename string) (*Reader, error) {
	return OpenWithOptions(filename, DefaultOptions())
}

// OpenWithOptions opens a PDF file with custom options
func OpenWithOptions(filename string, opts Options) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: failed to get file info: %w", ErrOpen, err)
	}

	r, err := NewReader(file, info.Size(), opts)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.file = file
	return r, nil
}

// NewReader creates a reader over src. src must also implement io.Seeker
// when validation is enabled.
func NewReader(src io.ReaderAt, size int64, opts Options) (r *Reader, err error) {
	version, err := parseHeader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse header: %w", ErrOpen, err)
	}

	if opts.Validate {
		if err := validate(src, size); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
	}

	// the parser panics on some malformed cross-reference tables
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("%w: malformed document: %v", ErrOpen, p)
		}
	}()

	pr, err := pdf.NewReader(src, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	return &Reader{
		pdf:      pr,
		version:  version,
		fileSize: size,
		options:  opts,
	}, nil
}

// Close closes the PDF file if the Reader opened it
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// parseHeader parses the PDF header (%PDF-x.y)
func parseHeader(src io.ReaderAt) (PDFVersion, error) {
	header := make([]byte, 8)
	n, err := src.ReadAt(header, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return PDFVersion{}, fmt.Errorf("failed to read header: %w", err)
	}
	if n < 8 {
		return PDFVersion{}, fmt.Errorf("header too short: %d bytes", n)
	}

	headerStr := string(header)
	if !strings.HasPrefix(headerStr, "%PDF-") {
		return PDFVersion{}, fmt.Errorf("invalid PDF header: %q", headerStr)
	}

	matches := versionPattern.FindStringSubmatch(headerStr[5:])
	if len(matches) < 3 {
		return PDFVersion{}, fmt.Errorf("invalid version format: %s", headerStr[5:])
	}

	var major, minor int
	fmt.Sscanf(matches[1], "%d", &major)
	fmt.Sscanf(matches[2], "%d", &minor)

	return PDFVersion{Major: major, Minor: minor}, nil
}

// validate reads the cross-reference structure with pdfcpu in relaxed mode
func validate(src io.ReaderAt, size int64) error {
	rs, ok := src.(io.ReadSeeker)
	if !ok {
		rs = io.NewSectionReader(src, 0, size)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return err
	}

	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}
	if ctx.Encrypt != nil {
		return errors.New("encrypted documents are not supported")
	}
	if err := api.ValidateContext(ctx); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// FileSize returns the size of the underlying file in bytes
func (r *Reader) FileSize() int64 {
	return r.fileSize
}

// PageCount returns the number of pages
func (r *Reader) PageCount() int {
	return r.pdf.NumPage()
}

// GetPage converts the page at index (0-based) into layout records
func (r *Reader) GetPage(index int) (page *model.Page, err error) {
	if index < 0 || index >= r.PageCount() {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, r.PageCount())
	}

	defer func() {
		if p := recover(); p != nil {
			page, err = nil, fmt.Errorf("page %d: malformed content stream: %v", index+1, p)
		}
	}()

	p := r.pdf.Page(index + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d: missing page object", index+1)
	}

	box := mediaBox(p)
	page = model.NewPage(box.Width(), box.Height())
	page.Number = index

	content := p.Content()
	page.Lines = convertRects(content.Rect, box)
	page.Blocks = NewBlockBuilder(r.options.Blocks).Build(convertGlyphs(content.Text, box))
	return page, nil
}

// Document converts every page into a model.Document named name
func (r *Reader) Document(name string) (*model.Document, error) {
	doc := model.NewDocument(name)
	for i := 0; i < r.PageCount(); i++ {
		page, err := r.GetPage(i)
		if err != nil {
			return nil, err
		}
		doc.AddPage(page)
	}
	return doc, nil
}

// ReadDocument opens filename and converts it in one step. The document is
// named after the file's base name.
func ReadDocument(filename string) (*model.Document, error) {
	r, err := Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := r.Document(filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return doc, nil
}
