// internal/handlers/crud/view.go
package crud

import (
	"net/url"
	"sort"
	"strconv"

	"jiudi-console/internal/pkg/pagination"
)

// ListView is the template data of a resource page.
type ListView struct {
	Title       string
	Base        string
	State       pagination.State
	Rows        interface{}
	Dialog      *Dialog
	Extras      map[string]interface{}
	PageSizes   []int
	FetchFailed bool
	ReadOnly    bool
}

// Dialog is an open create or edit form.
type Dialog struct {
	Editing  bool
	ID       string
	Draft    interface{}
	Action   string
	CloseURL string
}

// Field is a hidden form input.
type Field struct {
	Name  string
	Value string
}

// ConfirmView is the delete confirmation page.
type ConfirmView struct {
	Title     string
	Message   string
	Action    string
	CancelURL string
}

func (v ListView) PageURL(n int) string {
	return v.State.WithPage(n).URL(v.Base)
}

func (v ListView) PrevURL() string { return v.PageURL(v.State.Page - 1) }
func (v ListView) NextURL() string { return v.PageURL(v.State.Page + 1) }

// NewURL opens the create dialog at the current position.
func (v ListView) NewURL() string {
	q := v.State.Values()
	q.Set("dialog", "new")
	return v.Base + "?" + q.Encode()
}

// EditURL opens the edit dialog for id at the current position.
func (v ListView) EditURL(id string) string {
	q := v.State.Values()
	q.Set("edit", id)
	return v.Base + "?" + q.Encode()
}

// DeleteURL leads to the confirmation page for id.
func (v ListView) DeleteURL(id string) string {
	return v.Base + "/" + url.PathEscape(id) + "/delete?" + v.State.Values().Encode()
}

// ActionURL is a POST target below the page that returns to this position.
func (v ListView) ActionURL(suffix string) string {
	return v.Base + suffix + "?" + v.State.Values().Encode()
}

// SearchFields are the hidden inputs of the search/filter form. Submitting
// it changes the search or filter, so they point at page 1.
func (v ListView) SearchFields() []Field {
	q := v.State.WithSearch(v.State.Search).WithFilter(v.State.Filter).Values()
	q.Del("search")
	if v.State.FilterKey != "" {
		q.Del(v.State.FilterKey)
	}
	return fields(q)
}

// LimitFields are the hidden inputs of the page size form, which also
// returns to page 1.
func (v ListView) LimitFields() []Field {
	q := v.State.WithLimit(v.State.Limit).Values()
	q.Del("limit")
	return fields(q)
}

func fields(q url.Values) []Field {
	out := make([]Field, 0, len(q))
	for name := range q {
		out = append(out, Field{Name: name, Value: q.Get(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary is the pager caption.
func (v ListView) Summary() string {
	return "Trang " + strconv.Itoa(v.State.Page) + " / " + strconv.Itoa(v.State.PageCount()) +
		" (Tổng số: " + strconv.Itoa(v.State.Total) + ")"
}

// Extra returns a named lookup, nil when it failed or was not configured.
func (v ListView) Extra(name string) interface{} {
	return v.Extras[name]
}
