package pagination

import (
	"net/url"
	"strconv"
)

// PageSizes are the selectable rows-per-page values.
var PageSizes = []int{5, 10, 20, 50}

const DefaultLimit = 10

// State is the cursor of one paginated list: 1-based page, page size,
// free-text search and an optional single-value filter. Total is filled in
// from the last list response.
type State struct {
	Page   int
	Limit  int
	Total  int
	Search string

	// FilterKey is the query parameter name of the filter, empty when the
	// list has none.
	FilterKey string
	Filter    string
}

// Parse reads the cursor from request query values. Out of range pages and
// unknown sizes fall back to the defaults; a missing filter takes
// filterDefault.
func Parse(values url.Values, filterKey, filterDefault string) State {
	st := State{
		Page:      1,
		Limit:     DefaultLimit,
		Search:    values.Get("search"),
		FilterKey: filterKey,
	}
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p >= 1 {
		st.Page = p
	}
	if l, err := strconv.Atoi(values.Get("limit")); err == nil && validLimit(l) {
		st.Limit = l
	}
	if filterKey != "" {
		st.Filter = values.Get(filterKey)
		if st.Filter == "" {
			st.Filter = filterDefault
		}
	}
	return st
}

// WithPage moves to page n, clamped below at 1.
func (s State) WithPage(n int) State {
	if n < 1 {
		n = 1
	}
	s.Page = n
	return s
}

// WithSearch changes the search text and returns to page 1.
func (s State) WithSearch(search string) State {
	s.Search = search
	s.Page = 1
	return s
}

// WithFilter changes the filter value and returns to page 1.
func (s State) WithFilter(filter string) State {
	s.Filter = filter
	s.Page = 1
	return s
}

// WithLimit changes the page size and returns to page 1. Unknown sizes are
// ignored apart from the page reset.
func (s State) WithLimit(limit int) State {
	if validLimit(limit) {
		s.Limit = limit
	}
	s.Page = 1
	return s
}

// PageCount is max(1, ceil(total/limit)).
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	n := (total + limit - 1) / limit
	if n < 1 {
		return 1
	}
	return n
}

func (s State) PageCount() int { return PageCount(s.Total, s.Limit) }
func (s State) HasPrev() bool  { return s.Page > 1 }
func (s State) HasNext() bool  { return s.Page < s.PageCount() }

// APIParams are the query parameters of the list request.
func (s State) APIParams() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("limit", strconv.Itoa(s.Limit))
	v.Set("search", s.Search)
	if s.FilterKey != "" {
		v.Set(s.FilterKey, s.Filter)
	}
	return v
}

// Values are the console query parameters that reproduce this cursor.
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("limit", strconv.Itoa(s.Limit))
	if s.Search != "" {
		v.Set("search", s.Search)
	}
	if s.FilterKey != "" && s.Filter != "" {
		v.Set(s.FilterKey, s.Filter)
	}
	return v
}

// URL returns base with this cursor as its query string.
func (s State) URL(base string) string {
	return base + "?" + s.Values().Encode()
}

func validLimit(l int) bool {
	for _, size := range PageSizes {
		if size == l {
			return true
		}
	}
	return false
}
