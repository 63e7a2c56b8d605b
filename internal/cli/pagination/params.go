package pagination

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Pagination defaults and validation limits.
const (
	DefaultLimit     = 0
	MaxLimit         = 10000
	MaxPageSize      = 1000
	DefaultSortField = ""
	DefaultSortOrder = SortOrderAsc
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Validation errors.
var (
	ErrNegativeValue        = errors.New("pagination values cannot be negative")
	ErrLimitTooLarge        = fmt.Errorf("limit cannot exceed %d", MaxLimit)
	ErrPageSizeTooLarge     = fmt.Errorf("page-size cannot exceed %d", MaxPageSize)
	ErrMixedPaginationModes = errors.New("page and offset parameters are mutually exclusive")
	ErrPageSizeWithoutPage  = errors.New("page must be specified when using page-size")
	ErrPageWithoutPageSize  = errors.New("page-size must be specified when using page")
	ErrPageTooLarge         = errors.New("page is too large")
	ErrInvalidSortFormat    = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'participants:desc')")
	ErrEmptySortField       = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder     = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField     = errors.New("invalid sort field")
)

// PaginationParams holds CLI pagination flags.
// Two mutually exclusive modes are supported:
//   - Offset-based: --limit and --offset (limit 0 means no limit)
//   - Page-based: --page and --page-size
//
//nolint:revive // PaginationParams is the canonical name for this exported type.
type PaginationParams struct {
	Limit     int
	Offset    int
	Page      int
	PageSize  int
	SortField string
	SortOrder string
}

// NewPaginationParams creates a PaginationParams with default values.
func NewPaginationParams() *PaginationParams {
	return &PaginationParams{
		Limit:     DefaultLimit,
		SortField: DefaultSortField,
		SortOrder: DefaultSortOrder,
	}
}

// Validate checks that the parameters are in range and use a single mode.
func (p PaginationParams) Validate() error {
	switch {
	case p.Limit < 0:
		return fmt.Errorf("%w: limit=%d", ErrNegativeValue, p.Limit)
	case p.Offset < 0:
		return fmt.Errorf("%w: offset=%d", ErrNegativeValue, p.Offset)
	case p.Page < 0:
		return fmt.Errorf("%w: page=%d", ErrNegativeValue, p.Page)
	case p.PageSize < 0:
		return fmt.Errorf("%w: page-size=%d", ErrNegativeValue, p.PageSize)
	case p.Limit > MaxLimit:
		return ErrLimitTooLarge
	case p.PageSize > MaxPageSize:
		return ErrPageSizeTooLarge
	case p.Page > 0 && p.Offset > 0:
		return ErrMixedPaginationModes
	case p.Page == 0 && p.PageSize > 0:
		return ErrPageSizeWithoutPage
	case p.PageSize == 0 && p.Page > 0:
		return ErrPageWithoutPageSize
	case p.Page > 0 && pageOffsetOverflows(p.Page, p.PageSize):
		return fmt.Errorf("%w: page=%d page-size=%d", ErrPageTooLarge, p.Page, p.PageSize)
	}
	return nil
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// An empty string yields the defaults.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	field = strings.TrimSpace(parts[0])
	order = DefaultSortOrder
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}

// IsPageBased returns true if page-based pagination is active.
func (p PaginationParams) IsPageBased() bool {
	return p.Page > 0
}

// GetEffectiveLimit returns PageSize in page mode and Limit otherwise.
func (p PaginationParams) GetEffectiveLimit() int {
	if p.IsPageBased() {
		return p.PageSize
	}
	return p.Limit
}

// GetEffectiveOffset returns the number of items to skip. A page offset that
// does not fit in an int saturates at math.MaxInt.
func (p PaginationParams) GetEffectiveOffset() int {
	if p.IsPageBased() {
		if p.PageSize <= 0 {
			return 0
		}
		if pageOffsetOverflows(p.Page, p.PageSize) {
			return math.MaxInt
		}
		return (p.Page - 1) * p.PageSize
	}
	return p.Offset
}

// pageOffsetOverflows reports whether (page-1)*pageSize exceeds math.MaxInt.
func pageOffsetOverflows(page, pageSize int) bool {
	return pageSize > 0 && page-1 > math.MaxInt/pageSize
}

// CalculateTotalPages returns the page count for totalResults in page mode, 0 otherwise.
func (p PaginationParams) CalculateTotalPages(totalResults int) int {
	if !p.IsPageBased() || totalResults <= 0 {
		return 0
	}
	return ceilPages(totalResults, p.PageSize)
}

// ceilPages returns ceil(total/size) for positive total and size.
func ceilPages(total, size int) int {
	return (total-1)/size + 1
}

// Apply returns the page of items selected by p. The result aliases items.
// Page mode past the end returns the last page; offset mode past the end
// returns an empty slice.
func Apply[T any](p PaginationParams, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.GetEffectiveOffset(), p.GetEffectiveLimit()

	if p.IsPageBased() && p.PageSize > 0 && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return items[:0]
	}

	end := len(items)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
