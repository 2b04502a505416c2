// Package scaled implements a sign·mantissa·10^exponent number for
// quantities that outgrow float64 while keeping relative precision.
//
// Every Number is normalized: the zero value is {0, 0} and any other value
// has 1 <= |mantissa| < 10. Canonical form is unique, so two Numbers hold the
// same value iff they are == to each other.
package scaled

import (
	"math"
	"strconv"
	"strings"

	"github.com/osse101/xpscale/internal/domain"
)

// Number is an immutable scaled value. The zero Number is zero.
type Number struct {
	mantissa float64
	exponent int
}

// Zero returns the canonical zero value.
func Zero() Number {
	return Number{}
}

// New builds a Number from raw parts and normalizes it. Non-finite mantissas
// collapse to zero.
func New(mantissa float64, exponent int) Number {
	return normalize(mantissa, exponent)
}

// FromFloat converts a native float. Zero and non-finite input return zero.
//
// The mantissa holds the shortest decimal digits of n, so FromFloat and
// Float64 round trip exactly for values with up to 15 significant digits.
func FromFloat(n float64) Number {
	return normalize(n, 0)
}

// FromInt converts a whole number.
func FromInt(n int64) Number {
	return FromFloat(float64(n))
}

// Mantissa returns the normalized mantissa.
func (n Number) Mantissa() float64 { return n.mantissa }

// Exponent returns the power of ten.
func (n Number) Exponent() int { return n.exponent }

// Normalize returns n in canonical form. Values built through this package
// are already canonical, so this is the identity for them.
func (n Number) Normalize() Number {
	return normalize(n.mantissa, n.exponent)
}

// Float64 converts back to a native float. Exponents above MaxFloatExponent
// give a signed infinity and exponents below MinFloatExponent give zero.
func (n Number) Float64() float64 {
	switch {
	case n.mantissa == 0:
		return 0
	case n.exponent > MaxFloatExponent:
		return math.Inf(n.Sign())
	case n.exponent < MinFloatExponent:
		return 0
	}
	return scaleDecimal(n.mantissa, n.exponent)
}

// IsZero reports whether n is zero.
func (n Number) IsZero() bool { return n.mantissa == 0 }

// Sign returns -1, 0 or +1.
func (n Number) Sign() int {
	switch {
	case n.mantissa > 0:
		return 1
	case n.mantissa < 0:
		return -1
	}
	return 0
}

// Neg flips the sign.
func (n Number) Neg() Number {
	if n.IsZero() {
		return n
	}
	return Number{mantissa: -n.mantissa, exponent: n.exponent}
}

// Abs returns |n|.
func (n Number) Abs() Number {
	if n.mantissa < 0 {
		return n.Neg()
	}
	return n
}

// Add returns n + o.
//
// When the exponents differ by more than PrecisionLossThreshold the operand
// with the larger exponent is returned unchanged and the smaller one is
// dropped as negligible.
func (n Number) Add(o Number) Number {
	if n.IsZero() {
		return o
	}
	if o.IsZero() {
		return n
	}

	hi, lo := n, o
	if o.exponent > n.exponent {
		hi, lo = o, n
	}

	d := hi.exponent - lo.exponent
	if d > PrecisionLossThreshold {
		return hi
	}

	if a, ok := hi.native(); ok {
		if b, ok := lo.native(); ok {
			if sum := a + b; !math.IsInf(sum, 0) {
				return FromFloat(sum)
			}
		}
	}

	return normalize(hi.mantissa+scaleDecimal(lo.mantissa, -d), hi.exponent)
}

// Sub returns n - o.
func (n Number) Sub(o Number) Number {
	return n.Add(o.Neg())
}

// Mul returns n * o.
func (n Number) Mul(o Number) Number {
	if n.IsZero() || o.IsZero() {
		return Number{}
	}
	if a, ok := n.native(); ok {
		if b, ok := o.native(); ok {
			if p := a * b; isNormal(p) {
				return FromFloat(p)
			}
		}
	}
	return normalize(n.mantissa*o.mantissa, n.exponent+o.exponent)
}

// MulFloat multiplies by a native float, converted with FromFloat.
func (n Number) MulFloat(f float64) Number {
	return n.Mul(FromFloat(f))
}

// Div returns n / o, or domain.ErrDivisionByZero when o is zero.
func (n Number) Div(o Number) (Number, error) {
	if o.IsZero() {
		return Number{}, domain.ErrDivisionByZero
	}
	if n.IsZero() {
		return Number{}, nil
	}
	if a, ok := n.native(); ok {
		if b, ok := o.native(); ok {
			if q := a / b; isNormal(q) {
				return FromFloat(q), nil
			}
		}
	}
	return normalize(n.mantissa/o.mantissa, n.exponent-o.exponent), nil
}

// DivFloat divides by a native float, converted with FromFloat.
func (n Number) DivFloat(f float64) (Number, error) {
	return n.Div(FromFloat(f))
}

// Cmp returns -1, 0 or +1 as n is less than, equal to or greater than o.
// The ordering is total and agrees with Float64 ordering inside the native
// range.
func (n Number) Cmp(o Number) int {
	ns, oSign := n.Sign(), o.Sign()
	if ns != oSign {
		if ns < oSign {
			return -1
		}
		return 1
	}
	if ns == 0 {
		return 0
	}

	if n.exponent != o.exponent {
		// Positive values grow with the exponent, negative values shrink.
		if (n.exponent > o.exponent) == (ns > 0) {
			return 1
		}
		return -1
	}

	switch {
	case n.mantissa > o.mantissa:
		return 1
	case n.mantissa < o.mantissa:
		return -1
	}
	return 0
}

// Equal reports whether n and o hold the same value.
func (n Number) Equal(o Number) bool {
	return n == o
}

// GreaterOrEqualFloat reports n >= f.
func (n Number) GreaterOrEqualFloat(f float64) bool {
	return n.Cmp(FromFloat(f)) >= 0
}

// LessThanFloat reports n < f.
func (n Number) LessThanFloat(f float64) bool {
	return n.Cmp(FromFloat(f)) < 0
}

// Floor rounds toward negative infinity.
//
// Values with an exponent of integralExponent or more carry no fractional
// digits at double precision and are returned unchanged.
func (n Number) Floor() Number {
	switch {
	case n.IsZero(), n.exponent >= integralExponent:
		return n
	case n.exponent < 0:
		if n.mantissa > 0 {
			return Number{}
		}
		return FromFloat(-1)
	}

	return FromFloat(math.Floor(n.Float64()))
}

// native returns n as a float64 when it converts without overflow and stays
// a normal float, so native arithmetic on it is correctly rounded.
func (n Number) native() (float64, bool) {
	if n.exponent >= MaxFloatExponent || n.exponent <= MinFloatExponent {
		return 0, false
	}
	return n.Float64(), true
}

func isNormal(f float64) bool {
	abs := math.Abs(f)
	return abs >= minNormalFloat && !math.IsInf(abs, 0)
}

func normalize(mantissa float64, exponent int) Number {
	if mantissa == 0 || math.IsNaN(mantissa) || math.IsInf(mantissa, 0) {
		return Number{}
	}
	m, shift := decimalParts(mantissa)
	return Number{mantissa: m, exponent: exponent + shift}
}

// decimalParts splits v into a mantissa with 1 <= |m| < 10 and a power of
// ten. The mantissa is parsed from the shortest decimal digits of v.
func decimalParts(v float64) (float64, int) {
	digits, exponent := splitExponent(strconv.FormatFloat(v, 'e', -1, 64))
	m, _ := strconv.ParseFloat(digits, 64)
	if math.Abs(m) >= 10 {
		// 17 digits just under ten can parse to exactly ten
		m /= 10
		exponent++
	}
	return m, exponent
}

// scaleDecimal returns m * 10^k rounded once. Results past the float64 range
// come back as a signed infinity or zero.
func scaleDecimal(m float64, k int) float64 {
	if m == 0 || k == 0 {
		return m
	}
	digits, exponent := splitExponent(strconv.FormatFloat(m, 'e', -1, 64))
	v, _ := strconv.ParseFloat(digits+"e"+strconv.Itoa(exponent+k), 64)
	return v
}

func splitExponent(s string) (string, int) {
	i := strings.IndexByte(s, 'e')
	exponent, _ := strconv.Atoi(s[i+1:])
	return s[:i], exponent
}
