package pagination

// PaginationMeta describes the page returned by Apply.
//
//nolint:revive // PaginationMeta is the canonical name for this exported type.
type PaginationMeta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewPaginationMeta creates pagination metadata from parameters and total count.
// A page request past the end reports the last page, matching Apply.
func NewPaginationMeta(params PaginationParams, totalCount int) PaginationMeta {
	pageSize := params.GetEffectiveLimit()
	if pageSize == 0 {
		pageSize = totalCount
	}

	totalPages := 0
	if pageSize > 0 && totalCount > 0 {
		totalPages = ceilPages(totalCount, pageSize)
	}

	currentPage := params.Page
	if currentPage == 0 && params.Offset > 0 && pageSize > 0 {
		currentPage = (params.Offset / pageSize) + 1
	}
	if params.IsPageBased() && currentPage > totalPages && totalPages > 0 {
		currentPage = totalPages
	}
	currentPage = max(currentPage, 1)

	return PaginationMeta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
