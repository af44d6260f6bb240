package store

// DefaultPerPage is the page size used when a caller does not pick one.
const DefaultPerPage = 10

// PageParams selects a 1-based page of results.
type PageParams struct {
	Page    int
	PerPage int
}

// Validate fills in defaults for unset fields.
func (p *PageParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
}

// Offset returns the number of rows to skip for this page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Page is one page of results plus the totals needed to render pagination.
type Page[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int
}

// NewPage builds a Page, guaranteeing a non-nil Items slice.
func NewPage[T any](items []T, params PageParams, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Page: params.Page, PerPage: params.PerPage, Total: total}
}

// TotalPages returns the number of pages; zero results still count as one page.
func (p *Page[T]) TotalPages() int {
	if p.Total == 0 || p.PerPage <= 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages()
}

// HasPrevious reports whether an earlier page exists.
func (p *Page[T]) HasPrevious() bool {
	return p.Page > 1
}
