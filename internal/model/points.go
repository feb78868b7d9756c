package model

import "encoding/json"

// PointBalance is a user's running point total stored in points.json.
type PointBalance struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`

	Extra Extra `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
func (p *PointBalance) UnmarshalJSON(data []byte) error {
	type plain PointBalance
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	extra, err := splitExtra(data, pointKeys)
	if err != nil {
		return err
	}
	*p = PointBalance(v)
	p.Extra = extra
	return nil
}

// MarshalJSON writes the known fields followed by Extra.
func (p PointBalance) MarshalJSON() ([]byte, error) {
	type plain PointBalance
	return joinExtra(plain(p), p.Extra)
}

// DisplayName returns the stored name, or a short id-based fallback for
// records written without one.
func (p PointBalance) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	id := []rune(p.UserID)
	if len(id) > 6 {
		id = id[:6]
	}
	return "user-" + string(id)
}
