// internal/web/funcs.go
package web

import (
	"html/template"
	"time"

	"jiudi-console/internal/domain/agent"
	"jiudi-console/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var saigon = loadZone()

func loadZone() *time.Location {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"vnd": money.FormatVND,
		"count": func(n int64) string {
			return money.GroupThousands(decimal.NewFromInt(n))
		},
		"datetime":  formatDateTime,
		"date":      formatDate,
		"agentName": agentName,
		"agentDefaultPassword": func() string {
			return agent.DefaultPassword
		},
	}
}

// formatDateTime renders t the way the console shows timestamps.
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(saigon).Format("15:04 02/01/2006")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(saigon).Format("02/01/2006")
}

func agentName(ref *agent.Ref, fallback string) string {
	return ref.DisplayName(fallback)
}
