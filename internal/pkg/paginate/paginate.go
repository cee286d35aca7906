package paginate

// Page is one slice of a list plus the numbers the dashboard tables need.
type Page[T any] struct {
	Items      []T `json:"data"`
	MaxPage    int `json:"max_page"`
	ActualPage int `json:"actual_page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
}

// Slice cuts page (1-based) out of items. Out-of-range pages return no items
// but keep the computed MaxPage so the client can clamp.
func Slice[T any](items []T, page, perPage int) Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	total := len(items)
	if perPage > total && total > 0 {
		perPage = total
	}
	maxPage := 1
	if total > 0 {
		maxPage = (total + perPage - 1) / perPage
	}
	out := Page[T]{MaxPage: maxPage, ActualPage: page, PerPage: perPage, Total: total, Items: []T{}}
	// page is bounded by maxPage before multiplying so start cannot overflow.
	if page > maxPage {
		return out
	}
	start := (page - 1) * perPage
	end := min(start+perPage, total)
	out.Items = items[start:end]
	return out
}
