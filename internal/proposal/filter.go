package proposal

import (
	"strings"

	"golang.org/x/text/cases"
)

// Query narrows a proposal list. Zero values match everything.
type Query struct {
	// Search matches title or description, case-insensitively.
	Search string
	// Status restricts results to one status when non-empty.
	Status Status
}

// IsZero reports whether q matches every proposal.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" && q.Status == ""
}

// Filter returns the proposals matching q in their original order.
// The input slice is never modified.
func Filter(items []Proposal, q Query) []Proposal {
	if q.IsZero() {
		out := make([]Proposal, len(items))
		copy(out, items)
		return out
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(q.Search))

	out := make([]Proposal, 0, len(items))
	for _, p := range items {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if needle != "" &&
			!strings.Contains(fold.String(p.Title), needle) &&
			!strings.Contains(fold.String(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}
