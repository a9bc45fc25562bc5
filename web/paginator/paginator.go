// Package paginator slices an ordered gorm query into fixed-size pages
// addressed by a 1-based page number.
package paginator

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// DefaultPerPage is used when a non-positive page size is requested.
const DefaultPerPage = 10

// Page is one page of an ordered collection.
type Page[T any] struct {
	Items    []T
	Number   int
	PerPage  int
	Count    int64
	NumPages int
}

func (p *Page[T]) Len() int { return len(p.Items) }

func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }

func (p *Page[T]) HasPrevious() bool { return p.Number > 1 }

func (p *Page[T]) HasOtherPages() bool { return p.HasNext() || p.HasPrevious() }

func (p *Page[T]) NextPageNumber() int { return p.Number + 1 }

func (p *Page[T]) PreviousPageNumber() int { return p.Number - 1 }

// StartIndex is the 1-based index of the first item on the page, 0 when empty.
func (p *Page[T]) StartIndex() int64 {
	if p.Count == 0 {
		return 0
	}
	return int64(p.PerPage)*int64(p.Number-1) + 1
}

// EndIndex is the 1-based index of the last item on the page.
func (p *Page[T]) EndIndex() int64 {
	if p.Number == p.NumPages {
		return p.Count
	}
	return int64(p.Number) * int64(p.PerPage)
}

// PageRange lists every page number, for rendering the page links.
func (p *Page[T]) PageRange() []int {
	r := make([]int, p.NumPages)
	for i := range r {
		r[i] = i + 1
	}
	return r
}

// NumPages returns the page count for count items, never less than one.
func NumPages(count int64, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if count <= 0 {
		return 1
	}
	return int((count + int64(perPage) - 1) / int64(perPage))
}

// PageNumber resolves the raw query value: absent or not an integer gives
// the first page, anything out of range gives the last one.
func PageNumber(raw string, numPages int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// Paginate counts the rows matched by query and loads the requested page.
// query must already carry its filters and ordering; preloads name the
// associations to load for the page items.
func Paginate[T any](query *gorm.DB, rawPage string, perPage int, preloads ...string) (*Page[T], error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	query = query.Session(&gorm.Session{})

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}

	page := &Page[T]{
		PerPage:  perPage,
		Count:    count,
		NumPages: NumPages(count, perPage),
	}
	page.Number = PageNumber(rawPage, page.NumPages)
	page.Items = make([]T, 0, perPage)
	if count == 0 {
		return page, nil
	}

	tx := query
	for _, p := range preloads {
		tx = tx.Preload(p)
	}
	err := tx.Offset((page.Number - 1) * perPage).Limit(perPage).Find(&page.Items).Error
	if err != nil {
		return nil, err
	}
	return page, nil
}
