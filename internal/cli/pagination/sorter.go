package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/rshade/govlist/internal/proposal"
)

// Sort field names accepted by ProposalSorter.
const (
	SortFieldTitle        = "title"
	SortFieldEndTime      = "endTime"
	SortFieldParticipants = "participants"
	SortFieldStatus       = "status"
)

// ProposalSorter sorts proposals by a named field.
type ProposalSorter struct {
	compare map[string]func(a, b proposal.Proposal) int
}

// NewProposalSorter creates a ProposalSorter with the supported fields.
func NewProposalSorter() *ProposalSorter {
	return &ProposalSorter{
		compare: map[string]func(a, b proposal.Proposal) int{
			SortFieldTitle: func(a, b proposal.Proposal) int {
				return strings.Compare(a.Title, b.Title)
			},
			SortFieldEndTime: func(a, b proposal.Proposal) int {
				return a.EndTime.Compare(b.EndTime)
			},
			SortFieldParticipants: func(a, b proposal.Proposal) int {
				return cmp.Compare(a.Participants, b.Participants)
			},
			SortFieldStatus: func(a, b proposal.Proposal) int {
				return cmp.Compare(statusRank(a.Status), statusRank(b.Status))
			},
		},
	}
}

// IsValidField checks if the field is valid for sorting.
func (s *ProposalSorter) IsValidField(field string) bool {
	_, ok := s.compare[field]
	return ok
}

// GetValidFields returns all valid sort fields in sorted order.
func (s *ProposalSorter) GetValidFields() []string {
	fields := make([]string, 0, len(s.compare))
	for field := range s.compare {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// Validate returns ErrInvalidSortField for an unknown non-empty field.
func (s *ProposalSorter) Validate(field string) error {
	if field == "" || s.IsValidField(field) {
		return nil
	}
	return fmt.Errorf("%w: %q (valid: %s)", ErrInvalidSortField, field, strings.Join(s.GetValidFields(), ", "))
}

// Sort returns a sorted copy of items. Equal elements keep their relative
// order in both directions. An empty or unknown field returns an unsorted copy.
func (s *ProposalSorter) Sort(items []proposal.Proposal, field, order string) []proposal.Proposal {
	sorted := slices.Clone(items)
	compare, ok := s.compare[field]
	if !ok {
		return sorted
	}

	if order == SortOrderDesc {
		slices.SortStableFunc(sorted, func(a, b proposal.Proposal) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

func statusRank(s proposal.Status) int {
	if i := slices.Index(proposal.Statuses, s); i >= 0 {
		return i
	}
	return len(proposal.Statuses)
}
