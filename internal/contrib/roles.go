package contrib

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/PLOS/allofplos-sub000/internal/article"
)

// noteShape classifies a document-level author-contributions note.
// Older documents pack every role into one paragraph of "Label:
// initials." segments; others itemize one role per list item or
// paragraph. Each shape has its own parser.
type noteShape int

const (
	shapeNone noteShape = iota
	shapeSegmented
	shapeItemized
)

// roleEntry is one contribution label with the initials credited for it,
// in note order.
type roleEntry struct {
	Label    string
	Initials []string
}

// contributionNote locates the author-contributions footnote under
// author-notes, or nil.
func contributionNote(a *article.Article) *etree.Element {
	notes := a.AuthorNotes()
	if notes == nil {
		return nil
	}
	for _, fn := range notes.SelectElements("fn") {
		if fn.SelectAttrValue("fn-type", "") == "con" {
			return fn
		}
	}
	return nil
}

// classifyNote picks the recognized shape of a contributions note.
func classifyNote(fn *etree.Element) noteShape {
	for _, p := range fn.SelectElements("p") {
		if p.SelectElement("list") != nil {
			return shapeItemized
		}
	}
	if len(fn.SelectElements("p")) > 1 {
		return shapeItemized
	}
	if len(fn.SelectElements("p")) == 1 {
		return shapeSegmented
	}
	return shapeNone
}

// parseContributionNote parses a contributions note into ordered role
// entries according to its shape.
func parseContributionNote(fn *etree.Element) []roleEntry {
	switch classifyNote(fn) {
	case shapeItemized:
		return parseItemized(fn)
	case shapeSegmented:
		return parseSegmented(article.FlattenText(fn.SelectElements("p")[0]))
	default:
		return nil
	}
}

// parseItemized handles one role per list item or paragraph.
func parseItemized(fn *etree.Element) []roleEntry {
	var entries []roleEntry
	for _, p := range fn.SelectElements("p") {
		if list := p.SelectElement("list"); list != nil {
			for _, item := range list.SelectElements("list-item") {
				if e, ok := parseSegment(article.FlattenText(item)); ok {
					entries = append(entries, e)
				}
			}
			continue
		}
		if e, ok := parseSegment(article.FlattenText(p)); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// parseSegmented handles the single-string shape: period-delimited
// "Label: initials" segments packed into one paragraph.
func parseSegmented(text string) []roleEntry {
	var entries []roleEntry
	for _, seg := range strings.Split(text, ". ") {
		if e, ok := parseSegment(seg); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// parseSegment splits one "Label: AB CD" segment.
func parseSegment(seg string) (roleEntry, bool) {
	label, rest, found := strings.Cut(seg, ":")
	if !found {
		return roleEntry{}, false
	}
	label = strings.TrimSpace(label)
	// Drop a leading "Author contributions" style header carried into
	// the first segment.
	if i := strings.LastIndex(label, ". "); i >= 0 {
		label = strings.TrimSpace(label[i+2:])
	}

	var initials []string
	for _, tok := range strings.Fields(rest) {
		tok = strings.Trim(tok, ".,;")
		if tok != "" {
			initials = append(initials, tok)
		}
	}
	if label == "" || len(initials) == 0 {
		return roleEntry{}, false
	}
	return roleEntry{Label: label, Initials: initials}, true
}

// matchRoles assigns note roles to authors by initials. The note
// entries invert to an initials-to-labels view; matching is
// case-insensitive. Initials that match no contributor (e.g. "All" in
// "Wrote the paper: All authors") surface as warnings.
func matchRoles(contributors []*Contributor, entries []roleEntry, d string) []Warning {
	var warnings []Warning
	for _, entry := range entries {
		for _, token := range entry.Initials {
			matched := false
			for _, c := range contributors {
				if c.Type != TypeAuthor {
					continue
				}
				if strings.EqualFold(c.Initials, token) {
					c.Roles = append(c.Roles, entry.Label)
					matched = true
				}
			}
			if !matched {
				warnings = append(warnings, Warning{
					DOI:    d,
					Code:   WarnUnmatchedContribution,
					Detail: entry.Label + ": " + token,
				})
			}
		}
	}
	return warnings
}
