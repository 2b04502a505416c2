package scaled

const (
	// PrecisionLossThreshold is the exponent difference above which Add
	// returns the larger operand unchanged. Balance data depends on this exact
	// cutoff; do not change it.
	PrecisionLossThreshold = 25

	// MaxFloatExponent is the largest exponent Float64 converts without
	// returning a signed infinity.
	MaxFloatExponent = 308

	// MinFloatExponent is the smallest exponent Float64 converts without
	// underflowing to zero.
	MinFloatExponent = -308

	// DisplayCutoffExponent is the exponent from which DisplayString switches
	// from grouped integers to "{mantissa}e{exponent}".
	DisplayCutoffExponent = 6

	// DefaultDisplayDecimals is the mantissa precision used by String.
	DefaultDisplayDecimals = 2
)

// integralExponent is the exponent from which every normalized value is
// already a whole number at double precision.
const integralExponent = 15

// minNormalFloat is the smallest positive normal float64.
const minNormalFloat = 0x1p-1022
