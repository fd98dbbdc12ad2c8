package dashboard

import (
	"jiudi-console/internal/domain/stats"
	"jiudi-console/internal/pkg/money"

	"github.com/shopspring/decimal"
)

// Chart is a bar chart drawn with plain CSS heights.
type Chart struct {
	Title string
	Bars  []Bar
}

// Bar is one day. Percent is its height relative to the tallest bar.
type Bar struct {
	Label   string
	Value   string
	Percent float64
}

var hundred = decimal.NewFromInt(100)

func RevenueChart(days []stats.DailyPoint) Chart {
	values := make([]decimal.Decimal, len(days))
	for i, d := range days {
		values[i] = d.Revenue
	}
	return build("Biểu đồ Doanh thu", days, values, money.FormatVND)
}

func OrdersChart(days []stats.DailyPoint) Chart {
	values := make([]decimal.Decimal, len(days))
	for i, d := range days {
		values[i] = decimal.NewFromInt(d.Orders)
	}
	return build("Biểu đồ Đơn hàng", days, values, money.GroupThousands)
}

func build(title string, days []stats.DailyPoint, values []decimal.Decimal, format func(decimal.Decimal) string) Chart {
	peak := decimal.Zero
	for _, v := range values {
		if v.GreaterThan(peak) {
			peak = v
		}
	}

	bars := make([]Bar, len(days))
	for i, d := range days {
		bars[i] = Bar{Label: d.Date, Value: format(values[i])}
		if peak.IsPositive() && values[i].IsPositive() {
			bars[i].Percent = values[i].Mul(hundred).Div(peak).Round(1).InexactFloat64()
		}
	}
	return Chart{Title: title, Bars: bars}
}
