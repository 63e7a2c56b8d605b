// Package pagination provides sorting and paging for non-interactive list output.
//
// This package contains the logic shared by govlist commands that print lists:
//   - PaginationParams: CLI flag values and their validation
//   - PaginationMeta: metadata describing the returned page
//   - ProposalSorter: field-validated, stable sorting of proposals
//
// Interactive sessions scroll through the full result set instead and do not page.
package pagination
