// Package snapshot loads persisted progression state, including the legacy
// shapes written before totals were stored as scaled numbers.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/osse101/xpscale/internal/domain"
	"github.com/osse101/xpscale/internal/scaled"
)

// Kind tags the shape a Value was stored in.
type Kind uint8

const (
	// KindNone is an absent or null value.
	KindNone Kind = iota
	// KindReal is a legacy plain number.
	KindReal
	// KindScaled is a {mantissa, exponent} pair.
	KindScaled
)

func (k Kind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindScaled:
		return "scaled"
	}
	return "none"
}

// Value is a persisted quantity in either of its stored shapes. It is
// converted to a scaled.Number once, through Upgrade.
type Value struct {
	kind   Kind
	real   float64
	scaled scaled.Number
}

// Real wraps a legacy plain number.
func Real(f float64) Value {
	return Value{kind: KindReal, real: f}
}

// Scaled wraps a scaled number.
func Scaled(n scaled.Number) Value {
	return Value{kind: KindScaled, scaled: n}
}

// Kind returns the stored shape.
func (v Value) Kind() Kind { return v.kind }

// Upgrade converts v to a normalized scaled.Number. Absent values are zero.
func (v Value) Upgrade() scaled.Number {
	switch v.kind {
	case KindReal:
		return scaled.FromFloat(v.real)
	case KindScaled:
		return v.scaled.Normalize()
	}
	return scaled.Zero()
}

// UnmarshalJSON accepts a bare number, a {mantissa, exponent} object or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*v = Value{}
		return nil
	case data[0] == '{':
		var n scaled.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
		}
		*v = Scaled(n)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	*v = Real(f)
	return nil
}

// MarshalJSON writes the value in the shape it was stored in.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindReal:
		return json.Marshal(v.real)
	case KindScaled:
		return json.Marshal(v.scaled)
	}
	return []byte("null"), nil
}
