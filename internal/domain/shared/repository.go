package shared

// Filter carries the listing options every repository understands:
// pagination, ordering, a free-text search (matched against names,
// SKUs or document numbers, whichever the repository indexes) and
// column filters such as karat or invoice status.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// Offset converts page/page_size into the SQL offset. Page numbers
// start at 1; anything below that means the first page.
func (f Filter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
