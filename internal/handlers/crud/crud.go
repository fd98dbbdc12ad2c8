// internal/handlers/crud/crud.go
package crud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/apiclient"
	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/pagination"
	"jiudi-console/internal/pkg/resource"
	"jiudi-console/internal/pkg/session"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errInvalidForm = errors.New("Dữ liệu không hợp lệ")

const (
	TitleSuccess = "Thành công"
	TitleError   = "Lỗi"
)

// Lister fetches one page of rows.
type Lister[T any] interface {
	List(ctx context.Context, st pagination.State) (resource.ListResult[T], error)
}

// Writer changes rows from a form draft.
type Writer[D any] interface {
	Create(ctx context.Context, d D) error
	Update(ctx context.Context, id string, d D) error
	Delete(ctx context.Context, id string) error
}

// Messages are the notification texts of a page.
type Messages struct {
	Created       string
	Updated       string
	Deleted       string
	SaveFailed    string
	DeleteFailed  string
	ConfirmDelete string
}

// Extra is a lookup fetched alongside the list, such as the agent options
// of a filter. A failed required extra fails the whole page load.
type Extra struct {
	Name     string
	Optional bool
	Fetch    func(ctx context.Context) (interface{}, error)
}

// Page is the list/dialog/delete flow shared by every resource screen.
// Writer is nil for read-only lists.
type Page[T any, D any] struct {
	Base          string
	Template      string
	Title         string
	FilterKey     string
	FilterDefault string

	Lister    Lister[T]
	Writer    Writer[D]
	ID        func(T) string
	NewDraft  func() D
	DraftFrom func(T) D
	// Normalize, when set, cleans a submitted draft before it is saved or
	// shown again.
	Normalize func(D) D
	Messages  Messages
	Extras    []Extra

	Renderer *web.Renderer
	Logger   *zap.Logger
}

// dialogRequest says which dialog to open once rows are known.
type dialogRequest[D any] struct {
	open    bool
	editing bool
	id      string
	draft   *D
}

// Mount registers the page routes under g at rel, which must resolve to Base.
func (p *Page[T, D]) Mount(g gin.IRouter, rel string) {
	g.GET(rel, p.List)
	if p.Writer == nil {
		return
	}
	g.POST(rel, p.Create)
	g.POST(rel+"/:id", p.Update)
	g.GET(rel+"/:id/delete", p.ConfirmDelete)
	g.POST(rel+"/:id/delete", p.Delete)
}

// ----- Handlers -----

// List renders the page. ?dialog=new opens the create dialog and
// ?edit=<id> the edit dialog for a row of the current page.
func (p *Page[T, D]) List(c *gin.Context) {
	want := dialogRequest[D]{}
	if p.Writer != nil {
		if c.Query("dialog") == "new" {
			want.open = true
		} else if id := c.Query("edit"); id != "" {
			want = dialogRequest[D]{open: true, editing: true, id: id}
		}
	}
	p.render(c, http.StatusOK, p.State(c), want)
}

// Create handles the create dialog submit.
func (p *Page[T, D]) Create(c *gin.Context) {
	p.save(c, "")
}

// Update handles the edit dialog submit for :id.
func (p *Page[T, D]) Update(c *gin.Context) {
	p.save(c, c.Param("id"))
}

// ConfirmDelete asks before deleting :id.
func (p *Page[T, D]) ConfirmDelete(c *gin.Context) {
	st := p.State(c)
	id := c.Param("id")
	p.Renderer.HTML(c, http.StatusOK, "confirm", web.View{
		Title: p.Title,
		Data: ConfirmView{
			Title:     p.Title,
			Message:   p.Messages.ConfirmDelete,
			Action:    withQuery(p.Base+"/"+url.PathEscape(id)+"/delete", st.Values()),
			CancelURL: st.URL(p.Base),
		},
	})
}

// Delete removes :id and returns to the same list position. The page
// number is kept even when the page ends up empty.
func (p *Page[T, D]) Delete(c *gin.Context) {
	st := p.State(c)
	id := c.Param("id")

	if err := p.Writer.Delete(c.Request.Context(), id); err != nil {
		p.Logger.Warn("delete failed",
			zap.String("page", p.Base),
			zap.String("id", id),
			zap.Error(err),
		)
		middleware.Flash(c, session.Failure(TitleError, xerrors.ServerMessage(err, p.Messages.DeleteFailed)))
	} else {
		middleware.Flash(c, session.Success(TitleSuccess, p.Messages.Deleted))
	}
	middleware.Redirect(c, http.StatusSeeOther, st.URL(p.Base))
}

// State reads the list cursor from the query string. Form actions carry
// it in their URL so a POST returns to the same position.
func (p *Page[T, D]) State(c *gin.Context) pagination.State {
	return pagination.Parse(c.Request.URL.Query(), p.FilterKey, p.FilterDefault)
}

// ----- Internals -----

func (p *Page[T, D]) save(c *gin.Context, id string) {
	st := p.State(c)
	editing := id != ""

	var d D
	err := c.ShouldBindWith(&d, binding.FormPost)
	if p.Normalize != nil {
		d = p.Normalize(d)
	}
	if err != nil {
		err = resource.Invalid(errInvalidForm)
	} else if editing {
		err = p.Writer.Update(c.Request.Context(), id, d)
	} else {
		err = p.Writer.Create(c.Request.Context(), d)
	}

	if err != nil {
		p.Logger.Info("save failed",
			zap.String("page", p.Base),
			zap.String("id", id),
			zap.Error(err),
		)
		want := dialogRequest[D]{open: true, editing: editing, id: id, draft: &d}
		p.render(c, StatusFor(err), st, want,
			session.Failure(TitleError, xerrors.ServerMessage(err, p.Messages.SaveFailed)))
		return
	}

	msg := p.Messages.Created
	if editing {
		msg = p.Messages.Updated
	}
	middleware.Flash(c, session.Success(TitleSuccess, msg))
	middleware.Redirect(c, http.StatusSeeOther, st.URL(p.Base))
}

func (p *Page[T, D]) render(c *gin.Context, status int, st pagination.State, want dialogRequest[D], flashes ...session.Flash) {
	rows, extras, failed := p.fetch(c.Request.Context(), st)
	st.Total = rows.Total

	view := ListView{
		Title:       p.Title,
		Base:        p.Base,
		State:       st,
		Rows:        rows.Data,
		Extras:      extras,
		PageSizes:   pagination.PageSizes,
		FetchFailed: failed,
		ReadOnly:    p.Writer == nil,
	}
	view.Dialog = p.dialog(st, rows.Data, want)

	p.Renderer.HTML(c, status, p.Template, web.View{
		Title:   p.Title,
		Data:    view,
		Flashes: flashes,
	})
}

// fetch loads the page and its extras concurrently. A failure is logged
// and yields an empty page with total 0.
func (p *Page[T, D]) fetch(ctx context.Context, st pagination.State) (resource.ListResult[T], map[string]interface{}, bool) {
	g, gctx := errgroup.WithContext(ctx)

	var rows resource.ListResult[T]
	g.Go(func() error {
		var err error
		rows, err = p.Lister.List(gctx, st)
		return err
	})

	values := make([]interface{}, len(p.Extras))
	for i, ex := range p.Extras {
		g.Go(func() error {
			v, err := ex.Fetch(gctx)
			if err != nil {
				if ex.Optional {
					p.Logger.Info("optional lookup failed", zap.String("lookup", ex.Name), zap.Error(err))
					return nil
				}
				return fmt.Errorf("%s: %w", ex.Name, err)
			}
			values[i] = v
			return nil
		})
	}

	extras := make(map[string]interface{}, len(p.Extras))
	err := g.Wait()
	for i, ex := range p.Extras {
		if values[i] != nil {
			extras[ex.Name] = values[i]
		}
	}
	if err != nil {
		p.Logger.Error("failed to load list",
			zap.String("page", p.Base),
			zap.Int("page_number", st.Page),
			zap.Error(err),
		)
		return resource.ListResult[T]{Data: []T{}}, extras, true
	}
	return rows, extras, false
}

func (p *Page[T, D]) dialog(st pagination.State, rows []T, want dialogRequest[D]) *Dialog {
	if !want.open || p.Writer == nil {
		return nil
	}

	d := &Dialog{Editing: want.editing, ID: want.id, CloseURL: st.URL(p.Base)}
	switch {
	case want.draft != nil:
		d.Draft = *want.draft
	case want.editing:
		found := false
		for _, row := range rows {
			if p.ID(row) == want.id {
				d.Draft = p.DraftFrom(row)
				found = true
				break
			}
		}
		if !found {
			return nil
		}
	default:
		d.Draft = p.NewDraft()
	}

	if want.editing {
		d.Action = withQuery(p.Base+"/"+url.PathEscape(want.id), st.Values())
	} else {
		d.Action = withQuery(p.Base, st.Values())
	}
	return d
}

// StatusFor picks the response status of a re-rendered form: 422 for local
// validation, the API status for its 4xx answers, 502 otherwise.
func StatusFor(err error) int {
	if resource.IsValidation(err) {
		return http.StatusUnprocessableEntity
	}
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func withQuery(base string, v url.Values) string {
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}
