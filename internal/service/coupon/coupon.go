// internal/service/coupon/coupon.go
package coupon

import (
	"context"

	"jiudi-console/internal/domain/coupon"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/pagination"
	"jiudi-console/internal/pkg/resource"

	"go.uber.org/zap"
)

// CouponService manages coupons in one scope. The admin scope assigns every
// coupon to an agent; the agent scope is bound to the caller's credential.
type CouponService struct {
	coupons      *resource.Resource[coupon.Coupon, coupon.Payload]
	requireAgent bool
	logger       *zap.Logger
}

func NewAdminCouponService(client *apiclient.Client, logger *zap.Logger) *CouponService {
	return &CouponService{
		coupons:      resource.New[coupon.Coupon, coupon.Payload](client, "/admin/coupons"),
		requireAgent: true,
		logger:       logger,
	}
}

func NewAgentCouponService(client *apiclient.Client, logger *zap.Logger) *CouponService {
	return &CouponService{
		coupons: resource.New[coupon.Coupon, coupon.Payload](client, "/agent/coupons"),
		logger:  logger,
	}
}

func (s *CouponService) List(ctx context.Context, st pagination.State) (resource.ListResult[coupon.Coupon], error) {
	return s.coupons.List(ctx, st)
}

// Create validates d and creates the coupon. The API mirrors it to the store.
func (s *CouponService) Create(ctx context.Context, d coupon.Draft) error {
	p, err := d.Payload(s.requireAgent)
	if err != nil {
		return resource.Invalid(err)
	}
	if err := s.coupons.Create(ctx, p); err != nil {
		return err
	}
	s.logger.Info("coupon created",
		zap.String("code", p.Code),
		zap.String("agent_id", p.AgentID),
	)
	return nil
}

func (s *CouponService) Update(ctx context.Context, id string, d coupon.Draft) error {
	p, err := d.Payload(s.requireAgent)
	if err != nil {
		return resource.Invalid(err)
	}
	if err := s.coupons.Update(ctx, id, p); err != nil {
		return err
	}
	s.logger.Info("coupon updated", zap.String("coupon_id", id))
	return nil
}

func (s *CouponService) Delete(ctx context.Context, id string) error {
	if err := s.coupons.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("coupon deleted", zap.String("coupon_id", id))
	return nil
}
