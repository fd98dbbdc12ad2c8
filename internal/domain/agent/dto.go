// internal/domain/agent/dto.go
package agent

import (
	"errors"
	"strings"
)

// Draft is the create/edit form for an agent.
type Draft struct {
	Name   string `json:"name" form:"name"`
	Phone  string `json:"phone" form:"phone"`
	Active bool   `json:"active" form:"active"`
}

// NewDraft is the empty create form. New agents start active.
func NewDraft() Draft {
	return Draft{Active: true}
}

// DraftFrom copies the editable fields of a.
func DraftFrom(a Agent) Draft {
	return Draft{Name: a.Name, Phone: a.Phone, Active: a.Active}
}

// Validate trims the draft and checks required fields.
func (d *Draft) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	if d.Name == "" || d.Phone == "" {
		return errors.New("Vui lòng nhập tên và số điện thoại")
	}
	return nil
}
