package domain

// Pagination defaults shared by every repository listing.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 500
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies defaults and clamps the limit. Repositories call this
// before building queries so zero values behave.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// Offset converts the 1-based page into a row offset.
func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Page is one page of results plus the totals every paginated listing must
// report. Requesting a page beyond TotalPages yields empty Items, not an
// error.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a result page, computing TotalPages = ceil(total/limit).
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	n := req.Normalize()
	pages := 0
	if total > 0 {
		pages = (total + n.Limit - 1) / n.Limit
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       n.Page,
		Limit:      n.Limit,
		TotalPages: pages,
	}
}
