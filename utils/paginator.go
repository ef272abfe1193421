package utils

import (
	"strconv"
)

// Page describes one page of a list. Out-of-range requests are clamped:
// a non-numeric or absent number yields page 1 and a number past the end yields the last page.
// There is always at least one page, possibly empty.
type Page struct {
	Number      int   `json:"page"`
	PerPage     int   `json:"page_size"`
	Total       int64 `json:"total"`
	NumPages    int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}

// NewPage resolves the raw ?page= value against total items.
func NewPage(raw string, total int64, perPage int) Page {
	if perPage <= 0 {
		perPage = 10
	}
	numPages := int((total + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}
	number, err := strconv.Atoi(raw)
	switch {
	case err != nil:
		number = 1
	case number < 1:
		// non-positive numbers behave like "past the end"
		number = numPages
	case number > numPages:
		number = numPages
	}
	return Page{
		Number:      number,
		PerPage:     perPage,
		Total:       total,
		NumPages:    numPages,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

// Offset is the index of the first item on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Bounds returns the [start, end) slice range of the page within total items.
func (p Page) Bounds() (int, int) {
	start := p.Offset()
	end := start + p.PerPage
	if int64(end) > p.Total {
		end = int(p.Total)
	}
	if start > end {
		start = end
	}
	return start, end
}
