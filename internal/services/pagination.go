package services

const defaultPageSize = 12

type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
	Pages    int `json:"pages"`
}

// Paginate slices items into 1-based pages. Pages past the end are empty,
// however large the page number or size.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	total := len(items)
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	out := []T{}
	if page <= pages {
		offset := (page - 1) * pageSize
		end := min(offset+pageSize, total)
		out = append(out, items[offset:end]...)
	}
	return Page[T]{Items: out, Page: page, PageSize: pageSize, Total: total, Pages: pages}
}
