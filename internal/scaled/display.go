package scaled

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayLanguage selects digit grouping for small values.
var DisplayLanguage = language.Japanese

// DisplayString renders n for people. Values below 10^DisplayCutoffExponent
// in magnitude print as a grouped whole number ("123,456"); larger values
// print as "{mantissa}e{exponent}" with the mantissa rounded to decimals
// places ("1.23e7").
func (n Number) DisplayString(decimals int) string {
	return n.DisplayStringIn(DisplayLanguage, decimals)
}

// DisplayStringIn is DisplayString with an explicit grouping language.
func (n Number) DisplayStringIn(tag language.Tag, decimals int) string {
	if n.IsZero() {
		return "0"
	}
	if decimals < 0 {
		decimals = 0
	}

	if n.exponent < DisplayCutoffExponent {
		return message.NewPrinter(tag).Sprintf("%d", int64(math.Round(n.Float64())))
	}

	return strconv.FormatFloat(n.mantissa, 'f', decimals, 64) + "e" + strconv.Itoa(n.exponent)
}

// String implements fmt.Stringer.
func (n Number) String() string {
	return n.DisplayString(DefaultDisplayDecimals)
}
