package calculation

import "github.com/shopspring/decimal"

// MaxMoney is the largest magnitude any money field can take. Amounts beyond
// it saturate, so sums and differences of money fields always fit in int64.
const MaxMoney int64 = 1_000_000_000_000_000

var (
	hundred  = decimal.NewFromInt(100)
	half     = decimal.NewFromFloat(0.5)
	maxMoney = decimal.NewFromInt(MaxMoney)
)

// Calculate derives every monetary field of a transaction from its entries.
//
// Items that cannot be priced are dropped rather than rejected, numeric input
// is coerced with ParseNumber, and paid amounts above the payable total show
// up as a negative due. Calculate never fails and is safe for concurrent use.
func Calculate(in Input, settings Settings) Result {
	txType := TransactionTypeFish
	if in.TransactionType == TransactionTypePona {
		txType = TransactionTypePona
	}
	isPona := txType == TransactionTypePona
	commissionRate := settings.EffectiveCommissionRate(txType)

	res := Result{
		TransactionType:  txType,
		Items:            make([]Item, 0, len(in.Items)),
		TotalQuantity:    decimal.Zero,
		TotalKachaWeight: decimal.Zero,
		TotalPakaWeight:  decimal.Zero,
		TotalWeight:      decimal.Zero,
		CommissionRate:   commissionRate,
	}
	gross := decimal.Zero

	for _, raw := range in.Items {
		item := normalizeItem(txType, raw)
		if !priceable(isPona, item) {
			continue
		}

		if isPona {
			item.ItemGrossAmount = RoundMoney(item.Quantity.Mul(item.Rate))
			res.TotalQuantity = res.TotalQuantity.Add(item.Quantity)
		} else {
			item.ItemTotalWeight = item.PakaWeight
			item.ItemGrossAmount = RoundMoney(fishLineAmount(item))
			res.TotalKachaWeight = res.TotalKachaWeight.Add(item.KachaWeight)
			res.TotalPakaWeight = res.TotalPakaWeight.Add(item.PakaWeight)
			res.TotalWeight = res.TotalWeight.Add(item.ItemTotalWeight)
		}

		gross = gross.Add(decimal.NewFromInt(item.ItemGrossAmount))
		res.Items = append(res.Items, item)
	}

	res.GrossAmount = RoundMoney(gross)

	// Commission is taken from the farmer only; the buyer pays gross.
	res.CommissionAmount = RoundMoney(decimal.NewFromInt(res.GrossAmount).Mul(commissionRate).Div(hundred))
	res.NetFarmerAmount = res.GrossAmount - res.CommissionAmount

	res.FarmerPaidAmount = RoundMoney(in.FarmerPaidAmount.Decimal())
	res.FarmerDueAmount = res.NetFarmerAmount - res.FarmerPaidAmount
	res.IsFarmerPaid = res.FarmerDueAmount <= 0

	res.BuyerPayable = res.GrossAmount
	res.PaidAmount = RoundMoney(in.PaidAmount.Decimal())
	res.DueAmount = res.BuyerPayable - res.PaidAmount
	res.IsPaid = res.DueAmount <= 0

	return res
}

// RoundMoney rounds to the nearest whole currency unit, halves going up
// (toward positive infinity), and saturates at ±MaxMoney.
func RoundMoney(v decimal.Decimal) int64 {
	r := v.Add(half).Floor()
	switch {
	case r.GreaterThan(maxMoney):
		return MaxMoney
	case r.LessThan(maxMoney.Neg()):
		return -MaxMoney
	}
	return r.IntPart()
}

func normalizeItem(txType TransactionType, raw ItemInput) Item {
	unit := raw.Unit
	if unit == "" {
		unit = UnitFor(txType, raw.FishType)
	}

	return Item{
		FishType:        raw.FishType,
		FishCategory:    raw.FishCategory,
		Unit:            unit,
		Quantity:        raw.Quantity.Decimal(),
		Rate:            raw.Rate.Decimal(),
		RatePerMon:      raw.RatePerMon.Decimal(),
		KachaWeight:     raw.KachaWeight.Decimal(),
		PakaWeight:      raw.PakaWeight.Decimal(),
		ItemTotalWeight: decimal.Zero,
	}
}

func priceable(isPona bool, item Item) bool {
	if isPona {
		return item.Quantity.IsPositive() && item.Rate.IsPositive()
	}
	hasWeight := item.KachaWeight.IsPositive() || item.PakaWeight.IsPositive()
	return hasWeight && item.RatePerMon.IsPositive()
}

func fishLineAmount(item Item) decimal.Decimal {
	if IsShrimp(item.FishType) {
		return item.ItemTotalWeight.Mul(item.RatePerMon)
	}
	// Multiply before dividing so whole-mon prices stay exact.
	return item.ItemTotalWeight.Mul(item.RatePerMon).Div(MonWeight)
}
