// internal/handlers/order/order.go
package order

import (
	"fmt"
	"net/http"

	"jiudi-console/internal/domain/order"
	wstypes "jiudi-console/internal/domain/websocket"
	agentHandler "jiudi-console/internal/handlers/agent"
	"jiudi-console/internal/handlers/crud"
	"jiudi-console/internal/middleware"
	xerrors "jiudi-console/internal/pkg/errors"
	"jiudi-console/internal/pkg/session"
	agentService "jiudi-console/internal/service/agent"
	orderService "jiudi-console/internal/service/order"
	"jiudi-console/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	titleSyncFailed = "Lỗi đồng bộ"
	msgSyncFailed   = "Có lỗi khi đồng bộ WooCommerce"
)

// Notifier pushes a notification to the open tabs of a console session.
type Notifier interface {
	Notify(sessionID string, n wstypes.NotificationData)
}

// OrderHandler is a read-only order list. The admin variant can also pull
// new orders from WooCommerce.
type OrderHandler struct {
	*crud.Page[order.Order, struct{}]
	orders   *orderService.OrderService
	notifier Notifier
}

func NewAdminOrderHandler(svc *orderService.OrderService, agents *agentService.AgentService, notifier Notifier, renderer *web.Renderer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		Page: &crud.Page[order.Order, struct{}]{
			Base:          "/admin/orders",
			Template:      "orders",
			Title:         "Doanh Thu & Đơn Hàng",
			FilterKey:     "agentId",
			FilterDefault: "all",
			Lister:        svc,
			Extras:        []crud.Extra{agentHandler.OptionsExtra(agents)},
			Renderer:      renderer,
			Logger:        logger.Named("admin_orders"),
		},
		orders:   svc,
		notifier: notifier,
	}
}

func NewAgentOrderHandler(svc *orderService.OrderService, renderer *web.Renderer, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		Page: &crud.Page[order.Order, struct{}]{
			Base:     "/agent/orders",
			Template: "orders",
			Title:    "Đơn Hàng & Hoa Hồng",
			Lister:   svc,
			Renderer: renderer,
			Logger:   logger.Named("agent_orders"),
		},
		orders: svc,
	}
}

// Sync imports orders from WooCommerce and returns to the list with its
// filters intact. The outcome is flashed here and pushed live to the
// session's other tabs; the submitting tab is named in the form so it can
// skip the duplicate.
func (h *OrderHandler) Sync(c *gin.Context) {
	st := h.State(c)
	sess := middleware.MustGetSession(c)

	var n wstypes.NotificationData
	result, err := h.orders.Sync(c.Request.Context())
	if err != nil {
		h.Logger.Error("order sync failed", zap.Error(err))
		msg := xerrors.ServerMessage(err, msgSyncFailed)
		middleware.Flash(c, session.Failure(titleSyncFailed, msg))
		n = wstypes.NotificationData{Kind: string(session.FlashError), Title: titleSyncFailed, Message: msg}
	} else {
		msg := fmt.Sprintf("Đồng bộ hoàn tất: %d đơn hàng mới/được cập nhật", result.Imported)
		h.Logger.Info("orders synced", zap.Int("imported", result.Imported))
		middleware.Flash(c, session.Success(crud.TitleSuccess, msg))
		n = wstypes.NotificationData{Kind: string(session.FlashSuccess), Title: crud.TitleSuccess, Message: msg}
	}

	if h.notifier != nil {
		n.Origin = c.PostForm("tab")
		h.notifier.Notify(sess.ID(), n)
	}
	middleware.Redirect(c, http.StatusSeeOther, st.URL(h.Base))
}
