// internal/domain/agent/entity.go
package agent

import (
	"bytes"
	"encoding/json"
)

// DefaultPassword is assigned by the API to every new agent account.
const DefaultPassword = "123456789"

type Agent struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
}

// Ref is an agent reference embedded in coupons and orders. The API sends
// either the populated {_id, name} object or a bare id string.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain Ref
	return json.Unmarshal(data, (*plain)(r))
}

// DisplayName returns the agent name or fallback for a missing reference.
func (r *Ref) DisplayName(fallback string) string {
	if r == nil || r.Name == "" {
		return fallback
	}
	return r.Name
}
