// internal/handlers/dashboard/dashboard.go
package dashboard

import (
	"net/http"

	"jiudi-console/internal/domain/stats"
	statsService "jiudi-console/internal/service/stats"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	stats    *statsService.StatsService
	heading  string
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewAdminDashboardHandler(svc *statsService.StatsService, renderer *web.Renderer, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{stats: svc, heading: "Tổng quan hệ thống", renderer: renderer, logger: logger}
}

func NewAgentDashboardHandler(svc *statsService.StatsService, renderer *web.Renderer, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{stats: svc, heading: "Tổng quan đại lý", renderer: renderer, logger: logger}
}

// Show fetches the figures once per render. A failure shows zeros.
func (h *DashboardHandler) Show(c *gin.Context) {
	st, err := h.stats.Get(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to load dashboard stats", zap.Error(err))
	}
	h.renderer.HTML(c, http.StatusOK, "dashboard", web.View{
		Title: "Tổng quan",
		Data:  NewView(h.heading, st),
	})
}

// View is the dashboard template data.
type View struct {
	Heading string
	Summary stats.Summary
	Revenue Chart
	Orders  Chart
}

func NewView(heading string, st stats.Stats) View {
	st = st.Normalized()
	return View{
		Heading: heading,
		Summary: *st.Summary,
		Revenue: RevenueChart(st.Daily),
		Orders:  OrdersChart(st.Daily),
	}
}
