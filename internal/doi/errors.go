package doi

import (
	"errors"
	"fmt"
)

// ErrUnknownJournal indicates a journal code with no table entry.
// The transform still succeeds with the default journal site.
var ErrUnknownJournal = errors.New("unknown journal code")

// InvalidIdentifierError indicates a value that matches neither
// permitted DOI shape (or the corresponding filename/URL convention).
type InvalidIdentifierError struct {
	Value string
	Kind  string // "doi", "filename", or "url"
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}

// UnknownJournalError reports a journal-code lookup miss. It unwraps to
// ErrUnknownJournal so callers can test with errors.Is.
type UnknownJournalError struct {
	Code string
	DOI  string
}

func (e *UnknownJournalError) Error() string {
	return fmt.Sprintf("unknown journal code %q in %s (using default site)", e.Code, e.DOI)
}

func (e *UnknownJournalError) Unwrap() error {
	return ErrUnknownJournal
}

// IsInvalid returns true if the error indicates a malformed identifier.
func IsInvalid(err error) bool {
	var invalid *InvalidIdentifierError
	return errors.As(err, &invalid)
}
