package domain

// PagingInfo describes one paging window over a filtered product list.
type PagingInfo struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
}

// TotalPages rounds up, so a partial last page still counts.
func (p PagingInfo) TotalPages() int {
	if p.ItemsPerPage <= 0 || p.TotalItems <= 0 {
		return 0
	}
	n := p.TotalItems / p.ItemsPerPage
	if p.TotalItems%p.ItemsPerPage != 0 {
		n++
	}
	return n
}
