package contrib

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/PLOS/allofplos-sub000/internal/article"
)

// referenceTexts builds the merged id-to-text lookup for reference-id
// resolution: every aff element (top-level and inside contrib groups)
// and every footnote under author-notes, keyed by id.
func referenceTexts(a *article.Article) map[string]string {
	texts := map[string]string{}

	affs := a.Affiliations()
	for _, group := range a.ContribGroups() {
		affs = append(affs, group.SelectElements("aff")...)
	}
	for _, aff := range affs {
		if id := aff.SelectAttrValue("id", ""); id != "" {
			texts[id] = noteText(aff)
		}
	}

	if notes := a.AuthorNotes(); notes != nil {
		for _, fn := range notes.SelectElements("fn") {
			if id := fn.SelectAttrValue("id", ""); id != "" {
				texts[id] = noteText(fn)
			}
		}
	}

	return texts
}

// noteText flattens an element's text, skipping label and sup markers.
func noteText(e *etree.Element) string {
	var parts []string
	if t := strings.TrimSpace(e.Text()); t != "" {
		parts = append(parts, t)
	}
	for _, ch := range e.ChildElements() {
		if ch.Tag != "label" && ch.Tag != "sup" {
			if t := article.FlattenText(ch); t != "" {
				parts = append(parts, t)
			}
		}
		if t := strings.TrimSpace(ch.Tail()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// emailGroup is one correspondence note's emails, keyed either by the
// note's own id or by author initials found in tail text.
type emailGroup struct {
	Key    string // corresp id or initials token
	ByID   bool   // true when Key is the note id
	Emails []string
}

// initialsToken matches an initials-like token in correspondence tail
// text, e.g. "(AB)" or "(J-PV)".
var initialsToken = regexp.MustCompile(`[A-Z][A-Za-z-]{0,6}`)

// emailGroups extracts the correspondence email mapping from the
// author-notes corresp elements.
//
// Per note: a single email with no trailing initials is keyed by the
// note's id; multiple comma-separated emails split and key by the
// trailing initials in each email's tail text; a single email with
// trailing initials keys by those initials.
func emailGroups(a *article.Article, d string) ([]emailGroup, []Warning) {
	notes := a.AuthorNotes()
	if notes == nil {
		return nil, nil
	}

	var groups []emailGroup
	var warnings []Warning

	for _, corresp := range notes.SelectElements("corresp") {
		id := corresp.SelectAttrValue("id", "")
		emails := corresp.SelectElements("email")
		if len(emails) == 0 {
			continue
		}

		var addrs []string
		var tails []string
		for _, em := range emails {
			for _, addr := range strings.Split(em.Text(), ",") {
				if addr = strings.TrimSpace(addr); addr != "" {
					addrs = append(addrs, addr)
					tails = append(tails, "")
				}
			}
			if n := len(addrs); n > 0 {
				tails[n-1] = em.Tail()
			}
		}

		tokens := tailInitials(tails)
		switch {
		case len(addrs) == 1 && len(tokens) == 0:
			groups = append(groups, emailGroup{Key: id, ByID: true, Emails: addrs})
		case len(addrs) == 1:
			groups = append(groups, emailGroup{Key: tokens[0], Emails: addrs})
		case len(tokens) == len(addrs):
			for i, addr := range addrs {
				groups = append(groups, emailGroup{Key: tokens[i], Emails: []string{addr}})
			}
		default:
			// Ambiguous: addresses and initials tokens do not line up.
			// Keep the whole set keyed by the note id and report it.
			groups = append(groups, emailGroup{Key: id, ByID: true, Emails: addrs})
			warnings = append(warnings, Warning{
				DOI:    d,
				Code:   WarnAmbiguousEmailGroup,
				Detail: strings.Join(addrs, ", "),
			})
		}
	}

	return groups, warnings
}

// tailInitials extracts initials-like tokens from tail-text fragments,
// preserving document order.
func tailInitials(tails []string) []string {
	var tokens []string
	for _, tail := range tails {
		for _, tok := range initialsToken.FindAllString(tail, -1) {
			// Skip prose words; initials carry no lowercase run longer
			// than one letter after the lead capital.
			if looksLikeInitials(tok) {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// looksLikeInitials reports whether a token reads as author initials
// rather than a prose word: at least two capitals and no more lowercase
// letters than capitals, e.g. "AB", "JvdB", "J-PV", but not "Email".
func looksLikeInitials(tok string) bool {
	lower := 0
	upper := 0
	for _, r := range tok {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		}
	}
	return upper >= 2 && lower <= upper
}
