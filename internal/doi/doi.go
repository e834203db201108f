// Package doi maps between the three addressing forms of a corpus
// document: its DOI, its on-disk filename, and its remote URL.
package doi

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// Prefix is the fixed registrant prefix shared by every valid DOI.
	Prefix = "10.1371/"

	// AnnotationPrefix marks correction/amendment records.
	AnnotationPrefix = Prefix + "annotation/"

	// CorrectionFilePrefix is the filename prefix for amendment documents.
	CorrectionFilePrefix = "plos.correction."

	// Extension is the file extension of every corpus document.
	Extension = ".xml"
)

// journalPattern matches the regular DOI shape: a 4-letter journal code
// followed by a 7-digit article number.
var journalPattern = regexp.MustCompile(`^journal\.[a-z]{4}\.\d{7}$`)

// Validate checks that the DOI matches one of the two permitted shapes:
// 10.1371/journal.<code>.<number> or 10.1371/annotation/<uuid>.
func Validate(d string) error {
	suffix, ok := strings.CutPrefix(d, Prefix)
	if !ok {
		return &InvalidIdentifierError{Value: d, Kind: "doi"}
	}
	if u, ok := strings.CutPrefix(suffix, "annotation/"); ok {
		if _, err := uuid.Parse(u); err != nil {
			return &InvalidIdentifierError{Value: d, Kind: "doi"}
		}
		return nil
	}
	if !journalPattern.MatchString(suffix) {
		return &InvalidIdentifierError{Value: d, Kind: "doi"}
	}
	return nil
}

// IsAmendment reports whether the DOI has the annotation shape, which
// denotes a correction/amendment record rather than a research article.
func IsAmendment(d string) bool {
	return strings.HasPrefix(d, AnnotationPrefix)
}

// ToFilename converts a DOI to its on-disk filename.
//
// Annotation DOIs lose their "annotation/" path segment and gain the
// plos.correction prefix; all other DOIs keep their suffix verbatim.
func ToFilename(d string) (string, error) {
	if err := Validate(d); err != nil {
		return "", err
	}
	if u, ok := strings.CutPrefix(d, AnnotationPrefix); ok {
		return CorrectionFilePrefix + u + Extension, nil
	}
	return strings.TrimPrefix(d, Prefix) + Extension, nil
}

// FromFilename converts an on-disk filename back to its DOI.
// Inverse of ToFilename over the valid identifier space.
func FromFilename(name string) (string, error) {
	base, ok := strings.CutSuffix(name, Extension)
	if !ok {
		return "", &InvalidIdentifierError{Value: name, Kind: "filename"}
	}
	if u, ok := strings.CutPrefix(base, CorrectionFilePrefix); ok {
		d := AnnotationPrefix + u
		if err := Validate(d); err != nil {
			return "", &InvalidIdentifierError{Value: name, Kind: "filename"}
		}
		return d, nil
	}
	d := Prefix + base
	if err := Validate(d); err != nil {
		return "", &InvalidIdentifierError{Value: name, Kind: "filename"}
	}
	return d, nil
}

// ToURL converts a DOI to the remote URL serving its XML.
//
// The journal site is looked up from the 4-letter journal code; a lookup
// miss falls back to the default journal and is surfaced as an
// ErrUnknownJournal condition wrapped into the returned error value while
// the URL itself is still usable. Callers that only need the URL may
// ignore errors.Is(err, ErrUnknownJournal).
func ToURL(d string) (string, error) {
	if err := Validate(d); err != nil {
		return "", err
	}
	site, err := JournalSite(d)
	u := fmt.Sprintf("%s/%s/article/file?id=%s&type=manuscript", BaseURL, site, url.QueryEscape(d))
	return u, err
}

// FromURL extracts the DOI from a document URL produced by ToURL.
func FromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", &InvalidIdentifierError{Value: raw, Kind: "url"}
	}
	d := u.Query().Get("id")
	if d == "" {
		return "", &InvalidIdentifierError{Value: raw, Kind: "url"}
	}
	if err := Validate(d); err != nil {
		return "", err
	}
	return d, nil
}

// JournalCode extracts the 4-letter journal code from a DOI, or "" for
// annotation DOIs, which carry no code.
func JournalCode(d string) string {
	suffix, ok := strings.CutPrefix(d, Prefix+"journal.")
	if !ok {
		return ""
	}
	if i := strings.IndexByte(suffix, '.'); i == 4 {
		return suffix[:4]
	}
	return ""
}
