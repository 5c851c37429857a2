package store

// Pagination bounds.
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// PageRequest is a 1-based offset pagination request.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize applies defaults and caps: page at least 1, limit 1..MaxPageLimit
// with DefaultPageLimit when unset.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the totals needed to render a pager.
type Page[T any] struct {
	Items      []T `json:"items" doc:"Items on this page"`
	Total      int `json:"total" doc:"Number of items matching the query"`
	Page       int `json:"page" doc:"Current page (1-based)"`
	Limit      int `json:"limit" doc:"Page size"`
	TotalPages int `json:"totalPages" doc:"ceil(total / limit)"`
}

// NewPage builds a Page, computing TotalPages as ceil(total/limit).
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Limit > 0 {
		totalPages = (total + req.Limit - 1) / req.Limit
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}
}
