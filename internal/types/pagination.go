package types

// PaginationResponse describes the page a list response holds
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	// HasMore is set when rows exist past this page
	HasMore bool `json:"has_more"`
}

type ListResponse[T any] struct {
	Items      []T                `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

// NewListResponse wraps one page of items fetched with filter out of total
func NewListResponse[T any](items []T, total int, filter BaseFilter) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	offset := filter.GetOffset()
	return ListResponse[T]{
		Items: items,
		Pagination: PaginationResponse{
			Total:   total,
			Limit:   filter.GetLimit(),
			Offset:  offset,
			HasMore: offset+len(items) < total,
		},
	}
}
