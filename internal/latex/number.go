package latex

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Placeholder is emitted wherever a numeric value is unavailable.
const Placeholder = "TBD"

// Decimal precision per value class.
const (
	RatioDecimals  int32 = 3 // rates, ratios, gaps
	PValueDecimals int32 = 6
	CountDecimals  int32 = 0
)

// Usable reports whether v holds a finite number.
func Usable(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Fixed renders v with exactly decimals digits after the point. Rounding is
// half away from zero on the shortest decimal form of v, which keeps the
// output independent of the platform's float printing.
func Fixed(v float64, decimals int32) string {
	return decimal.NewFromFloat(v).StringFixed(decimals)
}

// Plain renders v as a bare fixed-precision number, or Placeholder.
func Plain(v *float64, decimals int32) string {
	if !Usable(v) {
		return Placeholder
	}
	return Fixed(*v, decimals)
}

// Num renders v wrapped in siunitx \num{...}, or Placeholder.
func Num(v *float64, decimals int32) string {
	if !Usable(v) {
		return Placeholder
	}
	return `\num{` + Fixed(*v, decimals) + `}`
}

// Percent renders a fraction as a percentage inside \num{...}, or Placeholder.
func Percent(v *float64, decimals int32) string {
	if !Usable(v) {
		return Placeholder
	}
	pct := decimal.NewFromFloat(*v).Mul(decimal.NewFromInt(100))
	return `\num{` + pct.StringFixed(decimals) + `}`
}

// Count renders a count inside \num{...}.
func Count(n int) string {
	return `\num{` + strconv.Itoa(n) + `}`
}

// Flag renders a boolean as 0 or 1.
func Flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Float returns a pointer to v, for building optional values inline.
func Float(v float64) *float64 {
	return &v
}
