package domain

import "strings"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SortOrder is either ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ListOptions carries pagination and sorting for admin list endpoints.
type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize clamps paging values and resolves SortBy against the allowed columns,
// falling back to fallback when the requested column is unknown.
func (o ListOptions) Normalize(allowed []string, fallback string) ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	sortBy := strings.TrimSpace(o.SortBy)
	o.SortBy = fallback
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, sortBy) {
			o.SortBy = candidate
			break
		}
	}
	switch SortOrder(strings.ToLower(strings.TrimSpace(string(o.SortOrder)))) {
	case SortDesc:
		o.SortOrder = SortDesc
	default:
		o.SortOrder = SortAsc
	}
	return o
}

// Offset returns the zero-based row offset for the current page.
func (o ListOptions) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// ListResult wraps one page of records with the total row count.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}
