package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PriceScale is the fixed-point scale of ITCH prices.
const PriceScale = 10_000

const priceExp = -4

// PriceFromDecimal converts a dollar amount to fixed point, rounding half away from zero.
func PriceFromDecimal(d decimal.Decimal) int64 {
	return d.Shift(-priceExp).Round(0).IntPart()
}

// PriceFromString parses a dollar string such as "25.3150" (TAQ) to fixed point.
func PriceFromString(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return PriceFromDecimal(d), nil
}

// PriceDecimal returns the fixed-point price as an exact decimal.
func PriceDecimal(p int64) decimal.Decimal {
	return decimal.New(p, priceExp)
}

// Dollars converts a fixed-point price to a float dollar amount.
func Dollars(p int64) float64 {
	return PriceDecimal(p).InexactFloat64()
}

// CentTick returns the price rounded to the nearest cent, in cents.
func CentTick(p int64) int64 {
	return PriceDecimal(p).Round(2).Shift(2).IntPart()
}

// ScaledCentTick returns factor × price rounded to the nearest cent, in cents.
func ScaledCentTick(p int64, factor decimal.Decimal) int64 {
	return PriceDecimal(p).Mul(factor).Round(2).Shift(2).IntPart()
}

// CentDollars converts a cent tick back to dollars.
func CentDollars(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
