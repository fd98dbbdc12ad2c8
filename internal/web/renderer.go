// internal/web/renderer.go
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

//go:embed templates static
var content embed.FS

// View is what every page template receives. Handlers fill Title, Data and
// any inline Flashes; the renderer adds the rest.
type View struct {
	Title    string
	Path     string
	Identity *auth.Identity
	Nav      []NavItem
	Flashes  []session.Flash
	CSRF     template.HTML
	Data     interface{}
}

// ErrorView is the data of the error page.
type ErrorView struct {
	Status  int
	Message string
}

type Renderer struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// NewRenderer parses the layouts and partials once, then one clone per page.
func NewRenderer(logger *zap.Logger) (*Renderer, error) {
	base, err := template.New("").Funcs(Funcs()).ParseFS(content, "templates/layout/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}

	files, err := fs.Glob(content, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone layouts: %w", err)
		}
		if _, err := t.ParseFS(content, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// StaticFS serves the stylesheet and scripts.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// HTML renders page name. Queued flashes are popped into the view unless
// the session is still loading.
func (r *Renderer) HTML(c *gin.Context, status int, name string, v View) {
	t, ok := r.pages[name]
	if !ok {
		r.logger.Error("unknown page template", zap.String("page", name))
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	if sess := middleware.GetSession(c); sess != nil && !sess.Loading() {
		v.Flashes = append(sess.PopFlashes(c.Request.Context()), v.Flashes...)
	}
	v.Identity = middleware.GetIdentity(c)
	if v.Identity != nil {
		v.Nav = NavFor(v.Identity.Role, c.Request.URL.Path)
	}
	v.Path = c.Request.URL.Path
	v.CSRF = csrf.TemplateField(c.Request)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name+".html", v); err != nil {
		r.logger.Error("failed to render page",
			zap.String("page", name),
			zap.String("correlation_id", middleware.GetCorrelationID(c)),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}

	middleware.CommitSession(c)
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Loading is the neutral page served while a credential is verified. It
// reloads itself.
func (r *Renderer) Loading(c *gin.Context) {
	r.HTML(c, http.StatusOK, "loading", View{Title: "Đang tải"})
}

// Error renders the error page for status.
func (r *Renderer) Error(c *gin.Context, status int) {
	msg := http.StatusText(status)
	switch status {
	case http.StatusNotFound:
		msg = "Không tìm thấy trang"
	case http.StatusInternalServerError:
		msg = "Đã có lỗi xảy ra"
	}
	r.HTML(c, status, "error", View{
		Title: "Lỗi",
		Data:  ErrorView{Status: status, Message: msg},
	})
}
