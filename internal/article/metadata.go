package article

import (
	"strings"

	"github.com/beevik/etree"
)

// Counts holds the declared figure/table/page counts from the counts
// element. Zero when the element or a sub-count is absent.
type Counts struct {
	Figures int
	Tables  int
	Pages   int
}

// License describes the document's permissions block.
type License struct {
	Type string // license-type attribute
	Link string // xlink:href attribute
	Text string // flattened license paragraph text
}

// Journal returns the journal title, trying the current path first and
// the pre-2008 location second. Empty when the file is missing.
func (a *Article) Journal() string {
	if e := a.findOne(pathJournalTitle); e != nil {
		return strings.TrimSpace(e.Text())
	}
	if e := a.findOne(pathJournalTitleOld); e != nil {
		return strings.TrimSpace(e.Text())
	}
	return ""
}

// Title returns the article title with inline markup flattened.
func (a *Article) Title() string {
	return FlattenText(a.findOne(pathArticleTitle))
}

// Abstract returns the flattened text of the first abstract element.
// Empty for documents without one (amendments, some older types).
func (a *Article) Abstract() string {
	return FlattenText(a.findOne(pathAbstract))
}

// ArticleType returns the JATS article-type attribute from the document
// root, e.g. "research-article" or "correction".
func (a *Article) ArticleType() string {
	root := a.Root()
	if root == nil {
		return ""
	}
	return root.SelectAttrValue("article-type", "")
}

// PlosArticleType returns the PLOS subject-taxonomy type: the subject of
// the subj-group whose subj-group-type is "heading".
func (a *Article) PlosArticleType() string {
	for _, sg := range a.find(pathSubjGroup) {
		if sg.SelectAttrValue("subj-group-type", "") != "heading" {
			continue
		}
		if s := sg.SelectElement("subject"); s != nil {
			return strings.TrimSpace(s.Text())
		}
	}
	return ""
}

// LicenseInfo returns the document's license record.
func (a *Article) LicenseInfo() License {
	e := a.findOne(pathLicense)
	if e == nil {
		return License{}
	}
	lic := License{
		Type: e.SelectAttrValue("license-type", ""),
		Link: e.SelectAttrValue("xlink:href", ""),
	}
	if p := e.SelectElement("license-p"); p != nil {
		lic.Text = FlattenText(p)
	}
	return lic
}

// CountsInfo returns the declared figure/table/page counts.
func (a *Article) CountsInfo() Counts {
	e := a.findOne(pathCounts)
	if e == nil {
		return Counts{}
	}
	return Counts{
		Figures: countValue(e, "fig-count"),
		Tables:  countValue(e, "table-count"),
		Pages:   countValue(e, "page-count"),
	}
}

// countValue reads the count attribute of a child count element.
func countValue(counts *etree.Element, tag string) int {
	e := counts.SelectElement(tag)
	if e == nil {
		return 0
	}
	return atoiSafe(e.SelectAttrValue("count", ""))
}

// WordCount tokenizes the body's flattened text on whitespace. Documents
// without a body report zero words and missingBody=true.
func (a *Article) WordCount() (n int, missingBody bool) {
	body := a.findOne(pathBody)
	if body == nil {
		return 0, true
	}
	return len(strings.Fields(FlattenText(body))), false
}

// Proof reports the document's publication stage: "uncorrected_proof",
// "vor_update", or "" for a regular version of record. Derived from the
// publication-stage custom-meta entry.
func (a *Article) Proof() string {
	for _, cm := range a.find(pathCustomMeta) {
		name := cm.SelectElement("meta-name")
		value := cm.SelectElement("meta-value")
		if name == nil || value == nil {
			continue
		}
		if strings.TrimSpace(name.Text()) != "publication-stage" {
			continue
		}
		switch v := strings.TrimSpace(value.Text()); v {
		case "uncorrected-proof":
			return "uncorrected_proof"
		case "vor-update-to-uncorrected-proof":
			return "vor_update"
		}
	}
	return ""
}

// RelatedDOIs returns the DOIs of related-article links, typically the
// articles an amendment record corrects. Links without a DOI href are
// skipped.
func (a *Article) RelatedDOIs() []string {
	var dois []string
	for _, rel := range a.find(pathRelated) {
		href := rel.SelectAttrValue("xlink:href", "")
		href = strings.TrimPrefix(href, "info:doi/")
		if href == "" {
			continue
		}
		dois = append(dois, href)
	}
	return dois
}

// ContribGroups returns the contrib-group elements for the contributor
// reconciler.
func (a *Article) ContribGroups() []*etree.Element {
	return a.find(pathContribGroup)
}

// AuthorNotes returns the author-notes element, or nil.
func (a *Article) AuthorNotes() *etree.Element {
	return a.findOne(pathAuthorNotes)
}

// Affiliations returns the top-level aff elements.
func (a *Article) Affiliations() []*etree.Element {
	return a.find(pathAffiliation)
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
