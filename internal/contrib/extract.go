package contrib

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/PLOS/allofplos-sub000/internal/article"
)

// extractContributor builds the pre-reconciliation record for one
// contrib element. Returns nil when the element carries no contrib-type,
// which means it is not a contributor at all.
func extractContributor(e *etree.Element) *Contributor {
	ctype := e.SelectAttrValue("contrib-type", "")
	if ctype == "" {
		return nil
	}

	c := &Contributor{
		Type: ctype,
		Rids: map[string][]string{},
	}

	if name := e.SelectElement("name"); name != nil {
		c.GivenName = childText(name, "given-names")
		c.Surname = childText(name, "surname")
	} else if collab := e.SelectElement("collab"); collab != nil {
		c.Group = strings.TrimSpace(article.FlattenText(collab))
	}
	c.Initials = Initials(c.GivenName, c.Surname)

	for _, id := range e.SelectElements("contrib-id") {
		c.IDs = append(c.IDs, IDRecord{
			Type:          id.SelectAttrValue("contrib-id-type", ""),
			Value:         strings.TrimSpace(id.Text()),
			Authenticated: id.SelectAttrValue("authenticated", "") == "true",
		})
	}

	for _, xref := range e.SelectElements("xref") {
		category := xref.SelectAttrValue("ref-type", RefFootnote)
		rid := xref.SelectAttrValue("rid", "")
		if rid == "" {
			continue
		}
		c.Rids[category] = append(c.Rids[category], rid)
	}

	// Some documents place the email directly on the contributor.
	for _, em := range e.SelectElements("email") {
		if addr := strings.TrimSpace(em.Text()); addr != "" {
			c.Emails = append(c.Emails, addr)
		}
	}

	// Explicit per-contributor role elements (CRediT taxonomy vintage).
	for _, role := range e.SelectElements("role") {
		if label := strings.TrimSpace(role.Text()); label != "" {
			c.Roles = append(c.Roles, label)
		}
	}

	if c.Type == TypeAuthor {
		c.AuthorType = authorSubtype(e, c)
	}

	return c
}

// authorSubtype derives corresponding-author status from the explicit
// corresp attribute, falling back to the presence of a corresp-category
// reference id.
func authorSubtype(e *etree.Element, c *Contributor) string {
	if e.SelectAttrValue("corresp", "") == "yes" {
		return AuthorCorresponding
	}
	if len(c.Rids[RefCorresp]) > 0 {
		return AuthorCorresponding
	}
	return AuthorContributing
}

// resolveRids fills affiliation and footnote text from the merged
// id-to-text map. Unresolved ids yield empty strings, not errors.
func resolveRids(c *Contributor, texts map[string]string) {
	for _, rid := range c.Rids[RefAffiliation] {
		c.Affiliations = append(c.Affiliations, texts[rid])
	}
	for _, rid := range c.Rids[RefFootnote] {
		c.Footnotes = append(c.Footnotes, texts[rid])
	}
}

func childText(e *etree.Element, tag string) string {
	c := e.SelectElement(tag)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Text())
}
