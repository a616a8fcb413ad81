package mediator

// Paginated is one page of a larger result set. TotalPages and the page
// boundary flags are derived from the stored fields, never stored themselves.
type Paginated[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalCount int64
}

// NewPaginated assembles a page. PageNumber is 1-based.
func NewPaginated[T any](items []T, pageNumber, pageSize int, totalCount int64) Paginated[T] {
	return Paginated[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
	}
}

// TotalPages is ceil(TotalCount / PageSize), 0 when the page size is unset.
func (p Paginated[T]) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return int((p.TotalCount + int64(p.PageSize) - 1) / int64(p.PageSize))
}

// HasPreviousPage reports whether a page precedes this one.
func (p Paginated[T]) HasPreviousPage() bool { return p.PageNumber > 1 }

// HasNextPage reports whether a page follows this one.
func (p Paginated[T]) HasNextPage() bool { return p.PageNumber < p.TotalPages() }
