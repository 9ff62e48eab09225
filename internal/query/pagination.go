package query

import "strconv"

const (
	DefaultPageSize = 10
	MaxPageSize     = 50

	// TotalRecordsHeader carries the pre-pagination match count.
	TotalRecordsHeader = "total-numbers-records"
)

// Page is a normalized pagination request.
type Page struct {
	Number int
	Size   int
}

// Normalize coerces any requested page and size into a valid Page. It never fails.
func Normalize(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}

	switch {
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}

	return Page{Number: page, Size: pageSize}
}

// ParsePage reads raw query-string values. Missing or non-numeric values count as absent.
func ParsePage(rawPage, rawSize string) Page {
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		page = 1
	}
	size, err := strconv.Atoi(rawSize)
	if err != nil {
		size = DefaultPageSize
	}
	return Normalize(page, size)
}

// Offset is the number of ordered rows skipped before this page starts.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}
