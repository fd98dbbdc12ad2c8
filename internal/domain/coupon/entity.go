// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"jiudi-console/internal/domain/agent"
	"jiudi-console/internal/pkg/money"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent   DiscountType = "percent"
	DiscountFixedCart DiscountType = "fixed_cart"
)

func (t DiscountType) Valid() bool {
	switch t {
	case DiscountPercent, DiscountFixedCart:
		return true
	default:
		return false
	}
}

// Label is the table text for the discount type.
func (t DiscountType) Label() string {
	switch t {
	case DiscountPercent:
		return "Giảm theo %"
	case DiscountFixedCart:
		return "Giảm tiền (VNĐ)"
	default:
		return string(t)
	}
}

// Unit is the suffix shown next to the value input.
func (t DiscountType) Unit() string {
	if t == DiscountFixedCart {
		return "VNĐ"
	}
	return "%"
}

type Coupon struct {
	ID            string          `json:"_id"`
	Code          string          `json:"code"`
	DiscountType  DiscountType    `json:"discountType"`
	DiscountValue decimal.Decimal `json:"discountValue"`
	Agent         *agent.Ref      `json:"agentId,omitempty"`
	Active        *bool           `json:"active,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ValueLabel renders the discount as "10%" or a VND amount.
func (c Coupon) ValueLabel() string {
	if c.DiscountType == DiscountPercent {
		return c.DiscountValue.String() + "%"
	}
	return money.FormatVND(c.DiscountValue)
}

// IsActive treats a missing flag as active.
func (c Coupon) IsActive() bool {
	return c.Active == nil || *c.Active
}
