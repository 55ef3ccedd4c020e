package layout

import "errors"

var (
	// ErrEmptyDocument is returned for a document without pages
	ErrEmptyDocument = errors.New("document has no pages")

	// ErrNoRecurringChrome is returned under ChromeFail when neither band
	// produced an accepted block
	ErrNoRecurringChrome = errors.New("no recurring header or footer found")
)
