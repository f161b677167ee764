package repository

// DefaultPageLimit applies when a caller asks for no explicit limit.
const DefaultPageLimit = 50

// MaxPageLimit caps a single page so list calls stay cheap.
const MaxPageLimit = 100

// Page represents a simple limit/offset window for listing operations.
type Page struct {
	Limit  int
	Offset int
}

// Normalize clamps the window into the supported range.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResult carries a slice of items, the window that produced it and the total
// count matching the query, so clients can paginate without an extra round trip.
type PageResult[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
