// internal/domain/stats/entity.go
package stats

import "github.com/shopspring/decimal"

type Summary struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalOrders   int64           `json:"totalOrders"`
	DiscountGiven decimal.Decimal `json:"discountGiven"`
}

type DailyPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// Stats is the dashboard payload. Either part may be absent on the wire.
type Stats struct {
	Summary *Summary     `json:"summary"`
	Daily   []DailyPoint `json:"daily"`
}

// Normalized fills absent parts with a zero summary and an empty series.
func (s *Stats) Normalized() Stats {
	out := Stats{Summary: &Summary{}, Daily: []DailyPoint{}}
	if s == nil {
		return out
	}
	if s.Summary != nil {
		out.Summary = s.Summary
	}
	if s.Daily != nil {
		out.Daily = s.Daily
	}
	return out
}
