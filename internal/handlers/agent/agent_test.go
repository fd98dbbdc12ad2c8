package agent

import (
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"jiudi-console/internal/domain/agent"
	"jiudi-console/internal/domain/auth"
	"jiudi-console/internal/handlers/handlertest"
	agentService "jiudi-console/internal/service/agent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = auth.Identity{ID: "u1", Name: "Minh", Role: auth.RoleAdmin}

func setup(t *testing.T) (*handlertest.Harness, *http.Cookie) {
	t.Helper()
	h := handlertest.New(t)
	handler := NewAgentHandler(agentService.NewAgentService(h.Client, h.Logger), h.Renderer, h.Logger)
	handler.Mount(h.Engine.Group("/admin", h.Auth.AdminOnly()), "/agents")
	return h, h.SignIn(t, admin)
}

func serveAgents(h *handlertest.Harness, total int, rows ...agent.Agent) {
	h.Mux.HandleFunc("GET /admin/agents", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusOK, map[string]interface{}{"data": rows, "total": total})
	})
}

func agentForm(name, phone string, active bool) url.Values {
	v := url.Values{"name": {name}, "phone": {phone}}
	if active {
		v.Set("active", "true")
	}
	return v
}

func countPrefix(requests []string, prefix string) int {
	n := 0
	for _, r := range requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func TestListSendsCursor(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 11, agent.Agent{ID: "a1", Name: "Lan", Phone: "0900", Active: true})

	w := h.Get("/admin/agents?page=2&limit=5&search=lan", cookie)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"GET /admin/agents?limit=5&page=2&search=lan"}, h.Requests())
	body := w.Body.String()
	assert.Contains(t, body, "Lan")
	assert.Contains(t, body, "Hoạt động")
	assert.Contains(t, body, "Trang 2 / 3 (Tổng số: 11)")
}

var hiddenInput = regexp.MustCompile(`<input type="hidden" name="([^"]+)" value="([^"]*)">`)

// formFields returns the hidden inputs of the GET form with class cls.
func formFields(t *testing.T, body, cls string) url.Values {
	t.Helper()
	form := regexp.MustCompile(`(?s)<form method="get" action="[^"]*" class="` + cls + `">(.*?)</form>`).FindStringSubmatch(body)
	require.NotNil(t, form, "form %s not rendered", cls)
	v := url.Values{}
	for _, m := range hiddenInput.FindAllStringSubmatch(form[1], -1) {
		v.Set(m[1], m[2])
	}
	return v
}

func TestSearchAndPageSizeFormsReturnToFirstPage(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 40, agent.Agent{ID: "a1", Name: "Lan", Phone: "0900", Active: true})

	w := h.Get("/admin/agents?page=3&limit=5&search=lan", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	search := formFields(t, body, "toolbar")
	assert.Equal(t, url.Values{"page": {"1"}, "limit": {"5"}}, search)

	size := formFields(t, body, "page-size")
	assert.Equal(t, url.Values{"page": {"1"}, "search": {"lan"}}, size)

	// submitting either form fetches page 1
	search.Set("search", "hoa")
	h.Get("/admin/agents?"+search.Encode(), cookie)
	size.Set("limit", "20")
	h.Get("/admin/agents?"+size.Encode(), cookie)

	assert.Equal(t, []string{
		"GET /admin/agents?limit=5&page=3&search=lan",
		"GET /admin/agents?limit=5&page=1&search=hoa",
		"GET /admin/agents?limit=20&page=1&search=lan",
	}, h.Requests())
}

func TestListFetchFailureRendersEmpty(t *testing.T) {
	h, cookie := setup(t)
	h.Mux.HandleFunc("GET /admin/agents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := h.Get("/admin/agents", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Không có đại lý nào")
	assert.Contains(t, w.Body.String(), "Trang 1 / 1 (Tổng số: 0)")
}

func TestAgentRoleIsSentHome(t *testing.T) {
	h, _ := setup(t)
	cookie := h.SignIn(t, auth.Identity{ID: "u2", Name: "Lan", Role: auth.RoleAgent})

	w := h.Get("/admin/agents", cookie)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/agent", w.Header().Get("Location"))
	assert.Empty(t, h.Requests())
}

func TestDialogs(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 1, agent.Agent{ID: "a1", Name: "Lan", Phone: "0900", Active: true})

	w := h.Get("/admin/agents?dialog=new", cookie)
	assert.Contains(t, w.Body.String(), "Thêm đại lý mới")
	assert.Contains(t, w.Body.String(), agent.DefaultPassword)

	w = h.Get("/admin/agents?edit=a1", cookie)
	assert.Contains(t, w.Body.String(), "Cập nhật đại lý")
	assert.Contains(t, w.Body.String(), `value="0900"`)
	assert.NotContains(t, w.Body.String(), agent.DefaultPassword)

	// unknown rows open nothing
	w = h.Get("/admin/agents?edit=zz", cookie)
	assert.NotContains(t, w.Body.String(), "modal-backdrop")
}

func TestCreateReturnsToSamePosition(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 0)
	h.Mux.HandleFunc("POST /admin/agents", func(w http.ResponseWriter, r *http.Request) {
		handlertest.JSON(w, http.StatusCreated, agent.Agent{ID: "a9", Name: "Hoa"})
	})

	w := h.Post("/admin/agents?page=2&limit=5", agentForm("Hoa", "0933", true), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/agents?limit=5&page=2", w.Header().Get("Location"))
	assert.Equal(t, []string{"POST /admin/agents"}, h.Requests())

	w = h.Get(w.Header().Get("Location"), cookie)
	assert.Contains(t, w.Body.String(), "Cập nhật đại lý thành công!")

	// the notification is shown once
	w = h.Get("/admin/agents", cookie)
	assert.NotContains(t, w.Body.String(), "Cập nhật đại lý thành công!")
}

func TestCreateSendsActiveAgent(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 0)

	var sent map[string]interface{}
	h.Mux.HandleFunc("POST /admin/agents", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		handlertest.JSON(w, http.StatusCreated, agent.Agent{ID: "a9"})
	})

	// the create dialog starts with the agent active
	w := h.Get("/admin/agents?dialog=new", cookie)
	assert.Contains(t, w.Body.String(), `name="active" value="true" checked`)

	w = h.Post("/admin/agents", agentForm(" Hoa ", "0933", true), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, map[string]interface{}{"name": "Hoa", "phone": "0933", "active": true}, sent)
}

func TestSameCursorFetchesSameRows(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 12, agent.Agent{ID: "a1", Name: "Lan", Phone: "0900", Active: true})

	table := regexp.MustCompile(`(?s)<table.*?</table>`)
	first := h.Get("/admin/agents?page=2&limit=5&search=lan", cookie).Body.String()
	second := h.Get("/admin/agents?page=2&limit=5&search=lan", cookie).Body.String()

	require.NotEmpty(t, table.FindString(first))
	assert.Equal(t, table.FindString(first), table.FindString(second))
	assert.Contains(t, second, "Trang 2 / 3 (Tổng số: 12)")
	assert.Equal(t, []string{
		"GET /admin/agents?limit=5&page=2&search=lan",
		"GET /admin/agents?limit=5&page=2&search=lan",
	}, h.Requests())
}

func TestCreateFailureKeepsDraft(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 0)
	h.Mux.HandleFunc("POST /admin/agents", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusConflict, "Số điện thoại đã tồn tại")
	})

	w := h.Post("/admin/agents", agentForm("Hoa", "0933", true), cookie)
	assert.Equal(t, http.StatusConflict, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Số điện thoại đã tồn tại")
	assert.Contains(t, body, "Thêm đại lý mới")
	assert.Contains(t, body, `value="0933"`)
}

func TestCreateValidationSkipsNetwork(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 0)

	w := h.Post("/admin/agents", agentForm(" ", "0933", false), cookie)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Vui lòng nhập tên và số điện thoại")
	assert.Zero(t, countPrefix(h.Requests(), "POST "))
}

func TestUpdate(t *testing.T) {
	h, cookie := setup(t)
	h.Mux.HandleFunc("PUT /admin/agents/a1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := h.Post("/admin/agents/a1?page=1&limit=10", agentForm("Lan", "0900", false), cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/agents?limit=10&page=1", w.Header().Get("Location"))
	assert.Equal(t, []string{"PUT /admin/agents/a1"}, h.Requests())
}

func TestDeleteKeepsPage(t *testing.T) {
	h, cookie := setup(t)
	h.Mux.HandleFunc("DELETE /admin/agents/a1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := h.Get("/admin/agents/a1/delete?page=3&limit=5", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Các dữ liệu liên quan có thể bị ảnh hưởng!")
	assert.Empty(t, h.Requests())

	w = h.Post("/admin/agents/a1/delete?page=3&limit=5", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/agents?limit=5&page=3", w.Header().Get("Location"))
	assert.Equal(t, []string{"DELETE /admin/agents/a1"}, h.Requests())
}

func TestDeleteFailureFlashesServerMessage(t *testing.T) {
	h, cookie := setup(t)
	serveAgents(h, 0)
	h.Mux.HandleFunc("DELETE /admin/agents/a1", func(w http.ResponseWriter, r *http.Request) {
		handlertest.Fail(w, http.StatusBadRequest, "Đại lý đang có mã giảm giá")
	})

	w := h.Post("/admin/agents/a1/delete", url.Values{}, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = h.Get(w.Header().Get("Location"), cookie)
	assert.Contains(t, w.Body.String(), "Đại lý đang có mã giảm giá")
}
