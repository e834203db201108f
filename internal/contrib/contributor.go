// Package contrib extracts contributor records from a parsed document
// and reconciles them against the auxiliary notes the same document
// carries: affiliations, footnotes, correspondence emails, and
// contribution-role credits.
//
// Reconciliation is a pure function of one document's tree. Steps that
// cannot find a deterministic match surface Warning values; a malformed
// contributor never aborts the rest of the document.
package contrib

import "fmt"

// Contributor types recognized in reconciled output.
const (
	TypeAuthor = "author"
	TypeEditor = "editor"
)

// Author subtypes.
const (
	AuthorCorresponding = "corresponding"
	AuthorContributing  = "contributing"
)

// Reference-id categories. An xref without a ref-type attribute counts
// as a footnote reference.
const (
	RefAffiliation = "aff"
	RefFootnote    = "fn"
	RefCorresp     = "corresp"
)

// Contributor is one reconciled record per contrib element.
type Contributor struct {
	GivenName string
	Surname   string
	Group     string // collaboration/group name when no personal name exists

	// Initials derive from the name as a matching key; they are not
	// globally unique.
	Initials string

	Type       string // author, editor, ...
	AuthorType string // corresponding or contributing; empty for non-authors

	IDs  []IDRecord
	Rids map[string][]string // ref-id category -> reference tokens

	Affiliations []string
	Footnotes    []string
	Emails       []string
	Roles        []string
}

// DisplayName returns the personal name, or the group name for
// collaboration entries.
func (c Contributor) DisplayName() string {
	if c.GivenName == "" && c.Surname == "" {
		return c.Group
	}
	if c.GivenName == "" {
		return c.Surname
	}
	return c.GivenName + " " + c.Surname
}

// IDRecord is one persistent contributor identifier, e.g. an ORCID.
type IDRecord struct {
	Type          string
	Value         string
	Authenticated bool
}

// Warning codes produced by reconciliation.
const (
	WarnUnmatchedContribution = "unmatched-contribution"
	WarnUnmatchedEmail        = "unmatched-email"
	WarnAmbiguousEmailGroup   = "ambiguous-email-group"
	WarnHeuristicEmailMatch   = "heuristic-email-match"
)

// Warning records one non-fatal reconciliation condition, identifying
// the document and the unmatched entity.
type Warning struct {
	DOI    string
	Code   string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s (%s)", w.DOI, w.Code, w.Detail)
}
