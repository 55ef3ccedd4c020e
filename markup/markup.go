// Package markup reads structured legislation markup documents.
//
// A markup document describes itself in the attrib elements of
// exdoc/parentattributes and cites other documents with legref elements.
// No layout analysis is involved: the references are taken directly from
// the tags.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrMissingAttribute is returned when the document does not declare its
// own id or title
var ErrMissingAttribute = errors.New("missing document attribute")

// Reference is a citation of another document. References are identified
// by ID; the title is what gets linked.
type Reference struct {
	ID    string
	Title string
}

// Document is a parsed markup document
type Document struct {
	ID         string
	Title      string
	Metadata   map[string]string
	References []Reference
}

// Links returns the sorted, distinct titles of all references
func (d *Document) Links() []string {
	seen := make(map[string]bool, len(d.References))
	links := make([]string, 0, len(d.References))
	for _, ref := range d.References {
		if !seen[ref.Title] {
			seen[ref.Title] = true
			links = append(links, ref.Title)
		}
	}
	sort.Strings(links)
	return links
}

// ParseFile parses the markup document at path
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// element tracks an open tag while streaming
type element struct {
	name string
	ref  *pendingRef
}

// pendingRef is a legref element whose text is still being read
type pendingRef struct {
	id    string
	hasID bool
	text  strings.Builder
}

// Parse reads a markup document from r. Non UTF-8 documents are decoded
// according to their XML declaration.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{Metadata: make(map[string]string)}
	var (
		stack      []element
		refs       []*pendingRef
		open       []*pendingRef // legref elements enclosing the cursor
		attrsDone  bool          // first exdoc/parentattributes fully read
		inAttrs    bool
		attrsDepth int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := element{name: t.Name.Local}

			switch {
			case el.name == "parentattributes" && !attrsDone && !inAttrs && within(stack, "exdoc"):
				inAttrs = true
				attrsDepth = len(stack)
			case el.name == "attrib" && inAttrs:
				name, value := attr(t, "name"), attr(t, "value")
				if value != "" {
					doc.Metadata[name] = value
				}
			case el.name == "legref":
				ref := &pendingRef{}
				for _, a := range t.Attr {
					if strings.Contains(a.Name.Local, "id") {
						ref.id, ref.hasID = a.Value, true
						break
					}
				}
				el.ref = ref
				refs = append(refs, ref)
				open = append(open, ref)
			}
			stack = append(stack, el)

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if el.ref != nil {
				open = open[:len(open)-1]
			}
			if inAttrs && el.name == "parentattributes" && len(stack) == attrsDepth {
				inAttrs, attrsDone = false, true
			}

		case xml.CharData:
			s := strings.TrimSpace(string(t))
			if s == "" {
				continue
			}
			for _, ref := range open {
				ref.text.WriteString(s)
			}
		}
	}

	var ok bool
	if doc.ID, ok = doc.Metadata["id"]; !ok {
		return nil, fmt.Errorf("%w: id", ErrMissingAttribute)
	}
	if doc.Title, ok = doc.Metadata["title"]; !ok {
		return nil, fmt.Errorf("%w: title", ErrMissingAttribute)
	}

	seen := make(map[string]bool)
	for _, p := range refs {
		ref := Reference{ID: p.id, Title: CleanTitle(p.text.String())}
		if !p.hasID {
			ref.ID = ref.Title
		}
		if ref.ID == doc.ID || ref.ID == doc.Title || seen[ref.ID] {
			continue
		}
		seen[ref.ID] = true
		doc.References = append(doc.References, ref)
	}
	return doc, nil
}

func within(stack []element, name string) bool {
	for _, el := range stack {
		if el.name == name {
			return true
		}
	}
	return false
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

var (
	spaces       = regexp.MustCompile(`\s+`)
	numberSuffix = regexp.MustCompile(`(?im)no \d+$`)
)

// CleanTitle collapses whitespace in a citation and removes a trailing
// "No <number>" designation.
func CleanTitle(s string) string {
	s = spaces.ReplaceAllString(s, " ")
	s = numberSuffix.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
