// internal/domain/config/dto.go
package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RulesForm is the raw discount rule form. Values stay strings so a
// rejected submit can be re-rendered exactly as typed.
type RulesForm struct {
	MinDiscountPercent string `form:"minDiscountPercent"`
	MaxDiscountPercent string `form:"maxDiscountPercent"`
	MinDiscountFixed   string `form:"minDiscountFixed"`
	MaxDiscountFixed   string `form:"maxDiscountFixed"`
	ApplyRules         string `form:"applyRules"`
}

// FormFromRules renders a config back into form values.
func FormFromRules(c DiscountRuleConfig) RulesForm {
	apply := ""
	if c.ApplyRules {
		apply = "on"
	}
	return RulesForm{
		MinDiscountPercent: c.MinDiscountPercent.String(),
		MaxDiscountPercent: c.MaxDiscountPercent.String(),
		MinDiscountFixed:   c.MinDiscountFixed.String(),
		MaxDiscountFixed:   c.MaxDiscountFixed.String(),
		ApplyRules:         apply,
	}
}

// Applied reports whether the apply-rules switch is on.
func (f RulesForm) Applied() bool {
	return f.ApplyRules == "on" || f.ApplyRules == "true"
}

// Parse converts the form into a config. Empty numeric fields count as zero.
func (f RulesForm) Parse() (DiscountRuleConfig, error) {
	var out DiscountRuleConfig
	fields := []struct {
		label string
		raw   string
		dst   *decimal.Decimal
	}{
		{"% giảm tối thiểu", f.MinDiscountPercent, &out.MinDiscountPercent},
		{"% giảm tối đa", f.MaxDiscountPercent, &out.MaxDiscountPercent},
		{"số tiền giảm tối thiểu", f.MinDiscountFixed, &out.MinDiscountFixed},
		{"số tiền giảm tối đa", f.MaxDiscountFixed, &out.MaxDiscountFixed},
	}
	for _, fld := range fields {
		raw := strings.TrimSpace(fld.raw)
		if raw == "" {
			*fld.dst = decimal.Zero
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return DiscountRuleConfig{}, fmt.Errorf("giá trị %s không hợp lệ", fld.label)
		}
		*fld.dst = v
	}
	out.ApplyRules = f.Applied()
	return out, nil
}
