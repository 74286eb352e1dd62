package model

// Page is one slice of a paginated, newest-first listing.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

// NewPage builds page metadata around items.
func NewPage[T any](items []T, page, perPage int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Page[T]{
		Items:   items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
	}
}
