// internal/service/order/order.go
package order

import (
	"context"

	"jiudi-console/internal/domain/order"
	"jiudi-console/internal/pkg/apiclient"
	"jiudi-console/internal/pkg/pagination"
	"jiudi-console/internal/pkg/resource"

	"go.uber.org/zap"
)

// OrderService reads synced orders. Orders are never written from here.
type OrderService struct {
	client *apiclient.Client
	orders *resource.Resource[order.Order, struct{}]
	logger *zap.Logger
}

func NewAdminOrderService(client *apiclient.Client, logger *zap.Logger) *OrderService {
	return newOrderService(client, "/admin/orders", logger)
}

func NewAgentOrderService(client *apiclient.Client, logger *zap.Logger) *OrderService {
	return newOrderService(client, "/agent/orders", logger)
}

func newOrderService(client *apiclient.Client, base string, logger *zap.Logger) *OrderService {
	return &OrderService{
		client: client,
		orders: resource.New[order.Order, struct{}](client, base),
		logger: logger,
	}
}

func (s *OrderService) List(ctx context.Context, st pagination.State) (resource.ListResult[order.Order], error) {
	return s.orders.List(ctx, st)
}

// Sync asks the API to reconcile orders with the store.
func (s *OrderService) Sync(ctx context.Context) (*order.SyncResult, error) {
	var res order.SyncResult
	if err := s.client.Post(ctx, "/wc/sync-orders", nil, &res); err != nil {
		return nil, err
	}
	s.logger.Info("orders synced", zap.Int("imported", res.Imported))
	return &res, nil
}
