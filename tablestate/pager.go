package tablestate

// Pager is the base pagination state the other engines compose. Pages are
// 0-based.
type Pager struct {
	page     int
	pageSize int
}

const defaultPageSize = 25

// NewPager creates a pager on the first page.
func NewPager(pageSize int) *Pager {
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	return &Pager{pageSize: pageSize}
}

func (p *Pager) Page() int { return p.page }

func (p *Pager) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	p.page = page
}

func (p *Pager) PageSize() int { return p.pageSize }

// SetPageSize changes the page size and snaps back to the first page.
func (p *Pager) SetPageSize(size int) {
	if size < 1 {
		return
	}
	p.pageSize = size
	p.page = 0
}

// PageCount returns the number of pages needed for total rows.
func (p *Pager) PageCount(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.pageSize - 1) / p.pageSize
}

// Window returns the [start,end) slice bounds of the current page, clamped
// to total.
func (p *Pager) Window(total int) (int, int) {
	start := p.page * p.pageSize
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}
	return start, end
}
