// internal/web/nav.go
package web

import (
	"strings"

	"jiudi-console/internal/domain/auth"
)

type NavItem struct {
	Label  string
	Path   string
	Active bool
}

// NavFor lists the sidebar links of a role and marks the current one.
func NavFor(role auth.Role, current string) []NavItem {
	var items []NavItem
	switch role {
	case auth.RoleAdmin:
		items = []NavItem{
			{Label: "Tổng quan", Path: "/admin"},
			{Label: "Đại lý", Path: "/admin/agents"},
			{Label: "Mã giảm giá", Path: "/admin/coupons"},
			{Label: "Đơn hàng", Path: "/admin/orders"},
			{Label: "Cấu hình", Path: "/admin/config"},
		}
	case auth.RoleAgent:
		items = []NavItem{
			{Label: "Tổng quan", Path: "/agent"},
			{Label: "Mã giảm giá", Path: "/agent/coupons"},
			{Label: "Đơn hàng", Path: "/agent/orders"},
		}
	default:
		return nil
	}

	home := role.Home()
	for i := range items {
		p := items[i].Path
		if p == home {
			items[i].Active = current == home
		} else {
			items[i].Active = current == p || strings.HasPrefix(current, p+"/")
		}
	}
	return items
}
