package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rshade/govlist/internal/logging"
	"github.com/rshade/govlist/internal/proposal"
)

// ErrInvalidFilter is returned for a malformed --filter expression.
var ErrInvalidFilter = errors.New("invalid filter expression")

// filterDateLayout is the date format accepted by ends-before and ends-after.
const filterDateLayout = time.DateOnly

// filterOperators are tried in order, so two-character operators come first.
var filterOperators = []string{">=", "<=", "="} //nolint:gochecknoglobals // Lookup table.

// proposalFilter is a parsed --filter expression.
type proposalFilter struct {
	expr  string
	match func(proposal.Proposal) bool
}

// parseFilter parses one expression. Supported forms:
//
//	status=active[,upcoming]   any of the listed statuses
//	id=voting-42               exact id
//	participants>=N            at least N participants (also <=, =)
//	ends-before=2026-01-31     end time before the start of that day (UTC)
//	ends-after=2026-01-31      end time on or after the end of that day (UTC)
func parseFilter(expr string) (proposalFilter, error) {
	key, op, value, ok := splitFilter(expr)
	if !ok {
		return proposalFilter{}, fmt.Errorf("%w: %q: use key=value", ErrInvalidFilter, expr)
	}
	if value == "" {
		return proposalFilter{}, fmt.Errorf("%w: %q: empty value", ErrInvalidFilter, expr)
	}

	f := proposalFilter{expr: expr}
	switch {
	case key == "status" && op == "=":
		statuses := make(map[proposal.Status]bool)
		for _, name := range strings.Split(value, ",") {
			s, err := proposal.ParseStatus(name)
			if err != nil {
				return proposalFilter{}, fmt.Errorf("%w: %q: %w", ErrInvalidFilter, expr, err)
			}
			statuses[s] = true
		}
		f.match = func(p proposal.Proposal) bool { return statuses[p.Status] }

	case key == "id" && op == "=":
		f.match = func(p proposal.Proposal) bool { return p.ID == value }

	case key == "participants":
		n, err := strconv.Atoi(value)
		if err != nil {
			return proposalFilter{}, fmt.Errorf("%w: %q: participants must be an integer", ErrInvalidFilter, expr)
		}
		f.match = participantsMatcher(op, n)

	case (key == "ends-before" || key == "ends-after") && op == "=":
		day, err := time.Parse(filterDateLayout, value)
		if err != nil {
			return proposalFilter{}, fmt.Errorf("%w: %q: dates use YYYY-MM-DD", ErrInvalidFilter, expr)
		}
		if key == "ends-before" {
			f.match = func(p proposal.Proposal) bool { return !p.EndTime.IsZero() && p.EndTime.Before(day) }
		} else {
			next := day.AddDate(0, 0, 1)
			f.match = func(p proposal.Proposal) bool { return !p.EndTime.Before(next) }
		}

	default:
		return proposalFilter{}, fmt.Errorf("%w: %q: unknown key or operator", ErrInvalidFilter, expr)
	}
	return f, nil
}

func splitFilter(expr string) (key, op, value string, ok bool) { //nolint:nonamedreturns // Mirrors the expression parts.
	for _, candidate := range filterOperators {
		if idx := strings.Index(expr, candidate); idx > 0 {
			key = strings.ToLower(strings.TrimSpace(expr[:idx]))
			value = strings.TrimSpace(expr[idx+len(candidate):])
			return key, candidate, value, key != ""
		}
	}
	return "", "", "", false
}

func participantsMatcher(op string, n int) func(proposal.Proposal) bool {
	switch op {
	case ">=":
		return func(p proposal.Proposal) bool { return p.Participants >= n }
	case "<=":
		return func(p proposal.Proposal) bool { return p.Participants <= n }
	default:
		return func(p proposal.Proposal) bool { return p.Participants == n }
	}
}

// ApplyFilters validates and applies a slice of filter expressions to items.
//
// All filters are validated before any is applied; an invalid filter returns
// nil and the validation error. Valid filters are applied in order and each
// narrows the result. Empty expressions are ignored and an empty filter slice
// returns items unchanged.
func ApplyFilters(
	ctx context.Context,
	items []proposal.Proposal,
	filters []string,
) ([]proposal.Proposal, error) {
	log := logging.FromContext(ctx)

	if len(filters) == 0 {
		return items, nil
	}

	parsed := make([]proposalFilter, 0, len(filters))
	for _, expr := range filters {
		if expr == "" {
			continue
		}
		f, err := parseFilter(expr)
		if err != nil {
			log.Warn().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "apply_filters").
				Str("filter", expr).
				Err(err).
				Msg("invalid filter expression")
			return nil, err
		}
		parsed = append(parsed, f)
	}

	result := items
	for _, f := range parsed {
		before := len(result)
		kept := make([]proposal.Proposal, 0, before)
		for _, p := range result {
			if f.match(p) {
				kept = append(kept, p)
			}
		}
		result = kept
		log.Debug().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Str("filter", f.expr).
			Int("before", before).
			Int("after", len(result)).
			Msg("applied filter")
	}

	if len(result) == 0 && len(items) > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Int("original_count", len(items)).
			Msg("no proposals match filter criteria")
	}

	return result, nil
}
