// internal/domain/order/entity.go
package order

import (
	"time"

	"jiudi-console/internal/domain/agent"

	"github.com/shopspring/decimal"
)

// Status mirrors the WooCommerce order states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
	StatusFailed     Status = "failed"
	StatusDraft      Status = "checkout-draft"
	StatusTrash      Status = "trash"
)

// BadgeClass picks the css modifier for the status badge.
func (s Status) BadgeClass() string {
	switch s {
	case StatusCompleted:
		return "badge-green"
	case StatusProcessing:
		return "badge-blue"
	case StatusOnHold:
		return "badge-yellow"
	case StatusCancelled:
		return "badge-red"
	default:
		return "badge-gray"
	}
}

// Order is a read-only mirror of a synced store order.
type Order struct {
	ID             string          `json:"_id"`
	WCOrderID      int64           `json:"wcOrderId"`
	Total          decimal.Decimal `json:"total"`
	DiscountTotal  decimal.Decimal `json:"discountTotal"`
	CouponCodeUsed string          `json:"couponCodeUsed,omitempty"`
	Agent          *agent.Ref      `json:"agentId,omitempty"`
	Status         Status          `json:"status"`
	DateCreated    time.Time       `json:"dateCreated"`
	CustomerName   string          `json:"customerName"`
}

// HasDiscount reports whether a coupon reduced the order total.
func (o Order) HasDiscount() bool {
	return o.DiscountTotal.IsPositive()
}

// SyncResult is returned by the order sync endpoint.
type SyncResult struct {
	Imported int `json:"imported"`
}
