// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"net/url"
	"time"

	"jiudi-console/internal/middleware"
	"jiudi-console/internal/pkg/response"
	ws "jiudi-console/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

// sameOrigin admits browsers on the console's own host only; the session
// cookie would otherwise ride along on cross-site sockets.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

type WebSocketHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewWebSocketHandler(hub *ws.Hub, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection upgrades a signed-in tab. The console session cookie is
// the credential; no token ever reaches the browser.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	sess := middleware.GetSession(c)
	identity := middleware.GetIdentity(c)
	if sess == nil || identity == nil {
		response.Error(c, http.StatusUnauthorized, "authentication required", ws.ErrUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, sess.ID(), identity.Role)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

// GetStats reports connection counts, overall and for the caller's session.
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"timestamp":         time.Now(),
	}
	if sess := middleware.GetSession(c); sess != nil {
		stats["session_connections"] = h.hub.SessionClients(sess.ID())
	}
	response.Success(c, http.StatusOK, "websocket stats", stats)
}
