// internal/domain/config/entity.go
package config

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DiscountRuleConfig bounds the coupons agents may create. It is a
// singleton owned by the API.
type DiscountRuleConfig struct {
	MinDiscountPercent decimal.Decimal `json:"minDiscountPercent"`
	MaxDiscountPercent decimal.Decimal `json:"maxDiscountPercent"`
	MinDiscountFixed   decimal.Decimal `json:"minDiscountFixed"`
	MaxDiscountFixed   decimal.Decimal `json:"maxDiscountFixed"`
	ApplyRules         bool            `json:"applyRules"`
}

// DefaultRules is shown when nothing could be fetched.
func DefaultRules() DiscountRuleConfig {
	return DiscountRuleConfig{
		MinDiscountPercent: decimal.Zero,
		MaxDiscountPercent: decimal.NewFromInt(100),
		MinDiscountFixed:   decimal.Zero,
		MaxDiscountFixed:   decimal.NewFromInt(999999999),
		ApplyRules:         true,
	}
}

// MarshalJSON writes the bounds as JSON numbers, which is what the API stores.
func (c DiscountRuleConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MinDiscountPercent json.Number `json:"minDiscountPercent"`
		MaxDiscountPercent json.Number `json:"maxDiscountPercent"`
		MinDiscountFixed   json.Number `json:"minDiscountFixed"`
		MaxDiscountFixed   json.Number `json:"maxDiscountFixed"`
		ApplyRules         bool        `json:"applyRules"`
	}{
		MinDiscountPercent: json.Number(c.MinDiscountPercent.String()),
		MaxDiscountPercent: json.Number(c.MaxDiscountPercent.String()),
		MinDiscountFixed:   json.Number(c.MinDiscountFixed.String()),
		MaxDiscountFixed:   json.Number(c.MaxDiscountFixed.String()),
		ApplyRules:         c.ApplyRules,
	})
}
