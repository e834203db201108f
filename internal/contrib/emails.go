package contrib

import (
	"strings"
)

// maxFallbackRounds caps the greedy similarity assignment loop.
const maxFallbackRounds = 10

// matchEmails assigns correspondence email groups to corresponding
// authors, in three stages:
//
//  1. direct count match: exactly one corresponding author and one
//     group assigns unconditionally, regardless of initials;
//  2. initials matching: full initials first, then first+last letter
//     only, both case-insensitive;
//  3. similarity fallback: longest common contiguous substring between
//     the author's folded full name and the email's folded local part,
//     assigned greedily from the globally highest score.
//
// A single leftover pair after the fallback auto-assigns; any larger
// remainder is reported as unresolved rather than guessed.
func matchEmails(contributors []*Contributor, groups []emailGroup, d string) []Warning {
	var authors []*Contributor
	for _, c := range contributors {
		if c.Type == TypeAuthor && c.AuthorType == AuthorCorresponding && len(c.Emails) == 0 {
			authors = append(authors, c)
		}
	}
	if len(groups) == 0 {
		return nil
	}
	if len(authors) == 0 {
		// No candidate remains (none corresponding, or all carry inline
		// emails); the groups still count as unassigned.
		return unmatchedWarnings(groups, d)
	}

	if len(authors) == 1 && len(groups) == 1 {
		authors[0].Emails = append(authors[0].Emails, groups[0].Emails...)
		return nil
	}

	// First pass: full initials.
	authors, groups = assignByKey(authors, groups, func(c *Contributor, g emailGroup) bool {
		return !g.ByID && strings.EqualFold(c.Initials, g.Key)
	})

	// Second pass: first and last letter only.
	authors, groups = assignByKey(authors, groups, func(c *Contributor, g emailGroup) bool {
		return !g.ByID && strings.EqualFold(firstLast(c.Initials), firstLast(g.Key))
	})

	return matchEmailsFallback(authors, groups, d)
}

// assignByKey runs one matching pass, assigning each group to the first
// author the predicate accepts and returning the residual unmatched
// sets for later passes.
func assignByKey(authors []*Contributor, groups []emailGroup, match func(*Contributor, emailGroup) bool) ([]*Contributor, []emailGroup) {
	var restGroups []emailGroup
	for _, g := range groups {
		assigned := false
		for i, c := range authors {
			if match(c, g) {
				c.Emails = append(c.Emails, g.Emails...)
				authors = append(authors[:i], authors[i+1:]...)
				assigned = true
				break
			}
		}
		if !assigned {
			restGroups = append(restGroups, g)
		}
	}
	return authors, restGroups
}

// matchEmailsFallback pairs the residual authors and groups by string
// similarity. Ties on equal score break on first encountered pair in
// iteration order; the assignment is heuristic and is flagged as such.
func matchEmailsFallback(authors []*Contributor, groups []emailGroup, d string) []Warning {
	var warnings []Warning

	for round := 0; round < maxFallbackRounds && len(authors) > 0 && len(groups) > 0; round++ {
		if len(authors) == 1 && len(groups) == 1 {
			break // leave the final pair to the auto-assign below
		}
		bestScore := 0
		bestA, bestG := -1, -1
		for ai, c := range authors {
			name := foldASCII(c.DisplayName())
			for gi, g := range groups {
				score := lcsLength(name, foldASCII(localPart(g.Emails[0])))
				if score > bestScore {
					bestScore, bestA, bestG = score, ai, gi
				}
			}
		}
		if bestA < 0 {
			break
		}
		c := authors[bestA]
		c.Emails = append(c.Emails, groups[bestG].Emails...)
		warnings = append(warnings, Warning{
			DOI:    d,
			Code:   WarnHeuristicEmailMatch,
			Detail: c.DisplayName() + " <- " + strings.Join(groups[bestG].Emails, ", "),
		})
		authors = append(authors[:bestA], authors[bestA+1:]...)
		groups = append(groups[:bestG], groups[bestG+1:]...)
	}

	// A single unmatched pair is unambiguous even without a score.
	if len(authors) == 1 && len(groups) == 1 {
		authors[0].Emails = append(authors[0].Emails, groups[0].Emails...)
		return warnings
	}

	// Any other remainder is reported, not guessed. Groups left over
	// after the author pool empties count too.
	return append(warnings, unmatchedWarnings(groups, d)...)
}

// unmatchedWarnings reports every email group that ends up with no
// author.
func unmatchedWarnings(groups []emailGroup, d string) []Warning {
	var warnings []Warning
	for _, g := range groups {
		warnings = append(warnings, Warning{
			DOI:    d,
			Code:   WarnUnmatchedEmail,
			Detail: strings.Join(g.Emails, ", "),
		})
	}
	return warnings
}

// firstLast reduces initials to their first and last letters.
func firstLast(initials string) string {
	if len(initials) <= 2 {
		return initials
	}
	return initials[:1] + initials[len(initials)-1:]
}

// localPart strips the domain from an email address.
func localPart(addr string) string {
	local, _, _ := strings.Cut(addr, "@")
	return local
}

// lcsLength returns the length of the longest common contiguous
// substring of a and b.
func lcsLength(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > best {
					best = cur[j]
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return best
}
