package contrib

import (
	"github.com/PLOS/allofplos-sub000/internal/article"
)

// Reconcile produces one record per contributor of the document,
// resolving cross-references against the auxiliary notes built from the
// same tree. The passes run in fixed order because later passes consume
// the residual unmatched sets of earlier ones.
//
// The returned warnings carry every non-deterministic or failed match;
// a malformed contributor degrades its own record only.
func Reconcile(a *article.Article) ([]Contributor, []Warning) {
	d := a.DOI()
	texts := referenceTexts(a)

	var contributors []*Contributor
	for _, group := range a.ContribGroups() {
		for _, e := range group.SelectElements("contrib") {
			c := extractContributor(e)
			if c == nil {
				continue // no contrib-type: not a contributor
			}
			resolveRids(c, texts)
			contributors = append(contributors, c)
		}
	}

	var warnings []Warning

	// Role matching applies only when no contributor carries explicit
	// role elements and a document-level contributions note exists.
	if !anyExplicitRoles(contributors) {
		if fn := contributionNote(a); fn != nil {
			warnings = append(warnings, matchRoles(contributors, parseContributionNote(fn), d)...)
		}
	}

	groups, groupWarnings := emailGroups(a, d)
	warnings = append(warnings, groupWarnings...)
	warnings = append(warnings, matchEmails(contributors, groups, d)...)

	out := make([]Contributor, len(contributors))
	for i, c := range contributors {
		out[i] = *c
	}
	return out, warnings
}

func anyExplicitRoles(contributors []*Contributor) bool {
	for _, c := range contributors {
		if len(c.Roles) > 0 {
			return true
		}
	}
	return false
}
