// internal/app/router.go
package app

import (
	"net/http"

	agentHandler "jiudi-console/internal/handlers/agent"
	authHandler "jiudi-console/internal/handlers/auth"
	configHandler "jiudi-console/internal/handlers/config"
	couponHandler "jiudi-console/internal/handlers/coupon"
	dashboardHandler "jiudi-console/internal/handlers/dashboard"
	orderHandler "jiudi-console/internal/handlers/order"
	wsHandler "jiudi-console/internal/handlers/websocket"
	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/response"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	AdminDashboard *dashboardHandler.DashboardHandler
	AgentDashboard *dashboardHandler.DashboardHandler
	AgentHandler   *agentHandler.AgentHandler
	AdminCoupons   *couponHandler.CouponHandler
	AgentCoupons   *couponHandler.CouponHandler
	AdminOrders    *orderHandler.OrderHandler
	AgentOrders    *orderHandler.OrderHandler
	ConfigHandler  *configHandler.ConfigHandler
	WSHandler      *wsHandler.WebSocketHandler
	AuthMiddleware *middleware.AuthMiddleware
	Renderer       *web.Renderer
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "ok", nil)
	})

	// ==================== Assets ====================
	r.StaticFS("/static", web.StaticFS())

	r.NoRoute(h.AuthMiddleware.Session(), func(c *gin.Context) {
		h.Renderer.Error(c, http.StatusNotFound)
	})

	// Every page below runs with the console session.
	pages := r.Group("", h.AuthMiddleware.Session())

	// ==================== Public Auth Routes ====================
	pages.GET("/", h.AuthHandler.Root)
	pages.GET("/login", h.AuthHandler.ShowLogin)
	pages.POST("/login", h.AuthHandler.Login)
	pages.POST("/logout", h.AuthHandler.Logout)

	// ==================== WebSocket ====================
	pages.GET("/ws", h.WSHandler.HandleConnection)

	// ==================== Signed-in Routes ====================
	signedIn := pages.Group("", h.AuthMiddleware.RequireIdentity())
	{
		signedIn.GET("/change-password", h.AuthHandler.ShowChangePassword)
		signedIn.POST("/change-password", h.AuthHandler.ChangePassword)
	}

	// ==================== Admin ====================
	admin := pages.Group("/admin", h.AuthMiddleware.AdminOnly())
	{
		admin.GET("", h.AdminDashboard.Show)
		h.AgentHandler.Mount(admin, "/agents")
		h.AdminCoupons.Mount(admin, "/coupons")
		h.AdminOrders.Mount(admin, "/orders")
		admin.POST("/orders/sync", h.AdminOrders.Sync)
		admin.GET("/config", h.ConfigHandler.Show)
		admin.POST("/config", h.ConfigHandler.Save)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Agent ====================
	agent := pages.Group("/agent", h.AuthMiddleware.AgentOnly())
	{
		agent.GET("", h.AgentDashboard.Show)
		h.AgentCoupons.Mount(agent, "/coupons")
		h.AgentOrders.Mount(agent, "/orders")
	}
}
