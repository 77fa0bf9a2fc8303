package calculation

import "github.com/shopspring/decimal"

// shrimpSpecies are priced per single weight unit instead of per mon.
// Matching is exact and case-sensitive; every other species is priced per mon.
var shrimpSpecies = map[string]struct{}{
	"Bagda":      {},
	"Golda":      {},
	"Venami":     {},
	"Horina":     {},
	"Caka Cingi": {},
}

// IsShrimp reports whether fishType is priced per weight unit.
func IsShrimp(fishType string) bool {
	_, ok := shrimpSpecies[fishType]
	return ok
}

// ShrimpSpecies returns the shrimp species names in display order.
func ShrimpSpecies() []string {
	return []string{"Bagda", "Golda", "Venami", "Horina", "Caka Cingi"}
}

// UnitFor returns the pricing unit of a line.
func UnitFor(txType TransactionType, fishType string) Unit {
	switch {
	case txType == TransactionTypePona:
		return UnitHazar
	case IsShrimp(fishType):
		return UnitKG
	default:
		return UnitMon
	}
}

// DeductionRate returns the weight deduction percentage applied to fishType.
func (s Settings) DeductionRate(fishType string) decimal.Decimal {
	if IsShrimp(fishType) {
		return rateOr(s.ShrimpDeductionRate, DefaultShrimpDeductionRate)
	}
	return rateOr(s.FishDeductionRate, DefaultFishDeductionRate)
}

// EffectiveCommissionRate returns the commission percentage used for txType.
func (s Settings) EffectiveCommissionRate(txType TransactionType) decimal.Decimal {
	if txType == TransactionTypePona {
		return rateOr(s.PonaCommissionRate, DefaultPonaCommissionRate)
	}
	return rateOr(s.CommissionRate, DefaultCommissionRate)
}

// DerivePakaWeight applies the species deduction to a raw weight, rounded to
// two decimals.
func DerivePakaWeight(fishType string, kacha decimal.Decimal, s Settings) decimal.Decimal {
	rate := s.DeductionRate(fishType)
	factor := decimal.NewFromInt(1).Sub(rate.Div(hundred))
	return kacha.Mul(factor).Round(2)
}

func rateOr(v decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return def
}
