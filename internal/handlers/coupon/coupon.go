// internal/handlers/coupon/coupon.go
package coupon

import (
	"context"

	"jiudi-console/internal/domain/coupon"
	agentHandler "jiudi-console/internal/handlers/agent"
	"jiudi-console/internal/handlers/crud"
	agentService "jiudi-console/internal/service/agent"
	configService "jiudi-console/internal/service/config"
	couponService "jiudi-console/internal/service/coupon"
	"jiudi-console/internal/web"

	"go.uber.org/zap"
)

// CouponHandler is a coupon management page, admin or agent scoped.
type CouponHandler struct {
	*crud.Page[coupon.Coupon, coupon.Draft]
}

var messages = crud.Messages{
	Created:       "Tạo mã giảm giá và đồng bộ thành công!",
	Updated:       "Cập nhật mã giảm giá thành công!",
	Deleted:       "Xoá mã giảm giá thành công!",
	SaveFailed:    "Lỗi thao tác",
	DeleteFailed:  "Xoá thất bại",
	ConfirmDelete: "Bạn có chắc chắn xoá mã giảm giá này?",
}

// NewAdminCouponHandler lists every coupon, filterable by agent. Each
// coupon must be assigned to an agent.
func NewAdminCouponHandler(svc *couponService.CouponService, agents *agentService.AgentService, renderer *web.Renderer, logger *zap.Logger) *CouponHandler {
	msgs := messages
	msgs.ConfirmDelete = "Bạn có chắc chắn xoá mã giảm giá này (Đồng bộ xoá từ WordPress)?"

	return &CouponHandler{
		Page: &crud.Page[coupon.Coupon, coupon.Draft]{
			Base:          "/admin/coupons",
			Template:      "coupons",
			Title:         "Mã Quản Lý Giảm Giá",
			FilterKey:     "agentId",
			FilterDefault: "all",
			Lister:        svc,
			Writer:        svc,
			ID:            couponID,
			NewDraft:      coupon.NewDraft,
			DraftFrom:     coupon.DraftFrom,
			Normalize:     coupon.Draft.Normalize,
			Messages:      msgs,
			Extras:        []crud.Extra{agentHandler.OptionsExtra(agents)},
			Renderer:      renderer,
			Logger:        logger.Named("admin_coupons"),
		},
	}
}

// NewAgentCouponHandler lists the signed-in agent's coupons. The current
// discount rules are shown in the form when they can be fetched.
func NewAgentCouponHandler(svc *couponService.CouponService, rules *configService.ConfigService, renderer *web.Renderer, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		Page: &crud.Page[coupon.Coupon, coupon.Draft]{
			Base:      "/agent/coupons",
			Template:  "coupons",
			Title:     "Mã Giảm Giá Của Tôi",
			Lister:    svc,
			Writer:    svc,
			ID:        couponID,
			NewDraft:  coupon.NewDraft,
			DraftFrom: coupon.DraftFrom,
			Normalize: coupon.Draft.Normalize,
			Messages:  messages,
			Extras: []crud.Extra{{
				Name:     "rules",
				Optional: true,
				Fetch: func(ctx context.Context) (interface{}, error) {
					r, err := rules.AgentRules(ctx)
					if err != nil {
						return nil, err
					}
					return r, nil
				},
			}},
			Renderer: renderer,
			Logger:   logger.Named("agent_coupons"),
		},
	}
}

func couponID(c coupon.Coupon) string { return c.ID }
