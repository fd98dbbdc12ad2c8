// internal/domain/coupon/dto.go
package coupon

import (
	"encoding/json"
	"errors"
	"strings"

	"jiudi-console/internal/pkg/money"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingAgent = errors.New("Vui lòng chọn đại lý!")
	ErrMissingCode  = errors.New("Vui lòng nhập mã code")
	ErrBadValue     = errors.New("Mức giảm phải là số lớn hơn 0")
)

// Draft is the coupon create/edit form. DiscountValue stays a string so a
// rejected submit re-renders exactly what was typed.
type Draft struct {
	Code          string       `form:"code"`
	DiscountType  DiscountType `form:"discountType"`
	DiscountValue string       `form:"discountValue"`
	AgentID       string       `form:"agentId"`
}

// Payload is the body sent to the coupon endpoints.
type Payload struct {
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue json.Number  `json:"discountValue"`
	AgentID       string       `json:"agentId,omitempty"`
}

// NewDraft is the empty create form.
func NewDraft() Draft {
	return Draft{DiscountType: DiscountPercent, DiscountValue: "0"}
}

// DraftFrom copies the editable fields of c.
func DraftFrom(c Coupon) Draft {
	d := Draft{
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue.String(),
	}
	if c.Agent != nil {
		d.AgentID = c.Agent.ID
	}
	return d
}

// Normalize uppercases the code and defaults an unknown discount type.
func (d Draft) Normalize() Draft {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.DiscountValue = strings.TrimSpace(d.DiscountValue)
	if !d.DiscountType.Valid() {
		d.DiscountType = DiscountPercent
	}
	return d
}

// Payload validates the draft and builds the request body. requireAgent is
// set for the admin variant, which must assign every coupon to an agent.
func (d Draft) Payload(requireAgent bool) (Payload, error) {
	d = d.Normalize()
	if requireAgent && d.AgentID == "" {
		return Payload{}, ErrMissingAgent
	}
	if d.Code == "" {
		return Payload{}, ErrMissingCode
	}
	v, err := decimal.NewFromString(d.DiscountValue)
	if err != nil || v.LessThan(decimal.NewFromInt(1)) {
		return Payload{}, ErrBadValue
	}

	p := Payload{
		Code:          d.Code,
		DiscountType:  d.DiscountType,
		DiscountValue: money.Number(v),
	}
	if requireAgent {
		p.AgentID = d.AgentID
	}
	return p, nil
}
