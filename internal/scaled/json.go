package scaled

import (
	"encoding/json"
	"fmt"
)

// wireNumber is the persisted {mantissa, exponent} shape.
type wireNumber struct {
	Mantissa float64 `json:"mantissa"`
	Exponent int     `json:"exponent"`
}

// MarshalJSON encodes n as {"mantissa":m,"exponent":e}.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireNumber{Mantissa: n.mantissa, Exponent: n.exponent})
}

// UnmarshalJSON decodes the {mantissa, exponent} shape and normalizes it.
// Legacy plain-number values are handled by the snapshot package, not here.
func (n *Number) UnmarshalJSON(data []byte) error {
	var w wireNumber
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode scaled number: %w", err)
	}
	*n = New(w.Mantissa, w.Exponent)
	return nil
}
