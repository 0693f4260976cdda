package domain

import "github.com/shopspring/decimal"

// MinorUnitExponent is the number of decimal places in the settlement currency.
const MinorUnitExponent = 2

// RoundMoney rounds half away from zero to whole cents.
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MinorUnitExponent)
}

// ToMinorUnits converts a major-unit amount into the integer cents the gateway
// expects, e.g. 59.985 -> 5999.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return RoundMoney(amount).Shift(MinorUnitExponent).IntPart()
}

// FromMinorUnits converts gateway cents back into a major-unit amount.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}
