package calculation

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func rate(v string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(v), Valid: true}
}

func fishItem(fishType, kacha, paka, ratePerMon string) ItemInput {
	return ItemInput{
		FishType:     fishType,
		FishCategory: "Large",
		KachaWeight:  NumberOf(kacha),
		PakaWeight:   NumberOf(paka),
		RatePerMon:   NumberOf(ratePerMon),
	}
}

func ponaItem(fishType, qty, r string) ItemInput {
	return ItemInput{
		FishType:     fishType,
		FishCategory: "Pona",
		Quantity:     NumberOf(qty),
		Rate:         NumberOf(r),
	}
}

func TestCalculate_FishStandardSpecies(t *testing.T) {
	res := Calculate(Input{
		TransactionType: TransactionTypeFish,
		Items:           []ItemInput{fishItem("Rui", "100", "95", "5000")},
	}, Settings{CommissionRate: rate("2.5")})

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(11875), res.Items[0].ItemGrossAmount)
	assertDecimal(t, "95", res.Items[0].ItemTotalWeight)
	assert.Equal(t, UnitMon, res.Items[0].Unit)

	assert.Equal(t, int64(11875), res.GrossAmount)
	assert.Equal(t, int64(297), res.CommissionAmount)
	assert.Equal(t, int64(11578), res.NetFarmerAmount)
	assertDecimal(t, "100", res.TotalKachaWeight)
	assertDecimal(t, "95", res.TotalPakaWeight)
	assertDecimal(t, "95", res.TotalWeight)
	assertDecimal(t, "0", res.TotalQuantity)
	assertDecimal(t, "2.5", res.CommissionRate)
}

func TestCalculate_ShrimpPricedPerWeightUnit(t *testing.T) {
	res := Calculate(Input{
		Items: []ItemInput{fishItem("Bagda", "", "10", "800")},
	}, Settings{})

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(8000), res.Items[0].ItemGrossAmount)
	assert.Equal(t, UnitKG, res.Items[0].Unit)
	assert.Equal(t, TransactionTypeFish, res.TransactionType)
	assert.Equal(t, int64(200), res.CommissionAmount)
}

func TestCalculate_ShrimpMatchIsCaseSensitive(t *testing.T) {
	res := Calculate(Input{
		Items: []ItemInput{fishItem("bagda", "", "40", "800")},
	}, Settings{})

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(800), res.Items[0].ItemGrossAmount)
}

func TestCalculate_Pona(t *testing.T) {
	res := Calculate(Input{
		TransactionType: TransactionTypePona,
		Items:           []ItemInput{ponaItem("Golda", "5", "1200")},
	}, Settings{PonaCommissionRate: rate("3.0")})

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(6000), res.Items[0].ItemGrossAmount)
	assert.Equal(t, UnitHazar, res.Items[0].Unit)
	assertDecimal(t, "0", res.Items[0].ItemTotalWeight)
	assert.Equal(t, int64(6000), res.GrossAmount)
	assert.Equal(t, int64(180), res.CommissionAmount)
	assert.Equal(t, int64(5820), res.NetFarmerAmount)
	assertDecimal(t, "5", res.TotalQuantity)
	assertDecimal(t, "0", res.TotalWeight)
	assertDecimal(t, "3", res.CommissionRate)
}

func TestCalculate_Overpayment(t *testing.T) {
	res := Calculate(Input{
		TransactionType: TransactionTypePona,
		Items:           []ItemInput{ponaItem("Golda", "10", "1000")},
		PaidAmount:      NumberOf("12000"),
	}, Settings{})

	assert.Equal(t, int64(10000), res.GrossAmount)
	assert.Equal(t, int64(-2000), res.DueAmount)
	assert.True(t, res.IsPaid)
}

func TestCalculate_DropsUnpriceableItems(t *testing.T) {
	res := Calculate(Input{
		Items: []ItemInput{
			fishItem("Rui", "100", "95", "0"),
			fishItem("Katla", "42", "40", "4000"),
		},
	}, Settings{})

	require.Len(t, res.Items, 1)
	assert.Equal(t, "Katla", res.Items[0].FishType)
	assert.Equal(t, int64(4000), res.GrossAmount)
	assertDecimal(t, "42", res.TotalKachaWeight)
}

func TestCalculate_ValidityRules(t *testing.T) {
	tests := []struct {
		name  string
		input Input
		kept  int
	}{
		{
			name:  "fish kacha only is kept",
			input: Input{Items: []ItemInput{fishItem("Rui", "10", "", "100")}},
			kept:  1,
		},
		{
			name:  "fish without weight is dropped",
			input: Input{Items: []ItemInput{fishItem("Rui", "0", "0", "100")}},
			kept:  0,
		},
		{
			name:  "fish negative rate is dropped",
			input: Input{Items: []ItemInput{fishItem("Rui", "10", "10", "-5")}},
			kept:  0,
		},
		{
			name:  "pona zero quantity is dropped",
			input: Input{TransactionType: TransactionTypePona, Items: []ItemInput{ponaItem("Golda", "0", "10")}},
			kept:  0,
		},
		{
			name:  "pona missing rate is dropped",
			input: Input{TransactionType: TransactionTypePona, Items: []ItemInput{ponaItem("Golda", "3", "")}},
			kept:  0,
		},
		{
			name: "pona ignores weight fields",
			input: Input{TransactionType: TransactionTypePona, Items: []ItemInput{
				fishItem("Golda", "10", "10", "100"),
			}},
			kept: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.input, Settings{})
			assert.Len(t, res.Items, tt.kept)
		})
	}
}

func TestCalculate_FishKachaOnlyPricesAtZero(t *testing.T) {
	res := Calculate(Input{Items: []ItemInput{fishItem("Rui", "10", "", "100")}}, Settings{})

	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(0), res.Items[0].ItemGrossAmount)
	assertDecimal(t, "10", res.TotalKachaWeight)
	assertDecimal(t, "0", res.TotalPakaWeight)
}

func TestCalculate_EmptyItems(t *testing.T) {
	settingsCases := []Settings{
		{},
		{CommissionRate: rate("7"), PonaCommissionRate: rate("9")},
	}

	for _, s := range settingsCases {
		for _, txType := range []TransactionType{TransactionTypeFish, TransactionTypePona} {
			res := Calculate(Input{TransactionType: txType}, s)

			assert.Empty(t, res.Items)
			assert.NotNil(t, res.Items)
			assert.Equal(t, int64(0), res.GrossAmount)
			assert.Equal(t, int64(0), res.CommissionAmount)
			assert.Equal(t, int64(0), res.NetFarmerAmount)
			assert.Equal(t, int64(0), res.DueAmount)
			assert.Equal(t, int64(0), res.FarmerDueAmount)
			assert.True(t, res.IsPaid)
			assert.True(t, res.IsFarmerPaid)
		}
	}
}

func TestCalculate_CommissionRateFallbacks(t *testing.T) {
	fish := Calculate(Input{Items: []ItemInput{fishItem("Rui", "", "40", "1000")}}, Settings{})
	assertDecimal(t, "2.5", fish.CommissionRate)
	assert.Equal(t, int64(25), fish.CommissionAmount)

	pona := Calculate(Input{
		TransactionType: TransactionTypePona,
		Items:           []ItemInput{ponaItem("Golda", "1", "1000")},
	}, Settings{CommissionRate: rate("10")})
	assertDecimal(t, "3", pona.CommissionRate)
	assert.Equal(t, int64(30), pona.CommissionAmount)

	zero := Calculate(Input{Items: []ItemInput{fishItem("Rui", "", "40", "1000")}}, Settings{CommissionRate: rate("0")})
	assertDecimal(t, "0", zero.CommissionRate)
	assert.Equal(t, int64(0), zero.CommissionAmount)
	assert.Equal(t, int64(1000), zero.NetFarmerAmount)
}

func TestCalculate_RoundsHalfUp(t *testing.T) {
	// 20 * 2.5% = 0.5
	res := Calculate(Input{Items: []ItemInput{fishItem("Bagda", "", "1", "20")}}, Settings{})
	assert.Equal(t, int64(1), res.CommissionAmount)
	assert.Equal(t, int64(19), res.NetFarmerAmount)

	// 1 / 40 * 20 = 0.5
	res = Calculate(Input{Items: []ItemInput{fishItem("Rui", "", "1", "20")}}, Settings{})
	assert.Equal(t, int64(1), res.Items[0].ItemGrossAmount)

	// 1.005 * 100 is exactly 100.5 in decimal arithmetic.
	res = Calculate(Input{
		TransactionType: TransactionTypePona,
		Items:           []ItemInput{ponaItem("Golda", "1.005", "100")},
	}, Settings{})
	assert.Equal(t, int64(101), res.Items[0].ItemGrossAmount)
}

func TestCalculate_NegativePaidAmountsAreNotClamped(t *testing.T) {
	res := Calculate(Input{
		Items:            []ItemInput{fishItem("Rui", "", "40", "1000")},
		PaidAmount:       NumberOf("-100"),
		FarmerPaidAmount: NumberOf("-2.5"),
	}, Settings{})

	assert.Equal(t, int64(-100), res.PaidAmount)
	assert.Equal(t, int64(1100), res.DueAmount)
	assert.False(t, res.IsPaid)

	// Half rounds toward positive infinity.
	assert.Equal(t, int64(-2), res.FarmerPaidAmount)
	assert.Equal(t, res.NetFarmerAmount+2, res.FarmerDueAmount)
}

func TestCalculate_FarmerFullyPaid(t *testing.T) {
	res := Calculate(Input{
		Items:            []ItemInput{fishItem("Rui", "", "40", "1000")},
		FarmerPaidAmount: NumberOf("975"),
	}, Settings{})

	assert.Equal(t, int64(975), res.NetFarmerAmount)
	assert.Equal(t, int64(0), res.FarmerDueAmount)
	assert.True(t, res.IsFarmerPaid)
	assert.False(t, res.IsPaid)
}

func TestCalculate_Invariants(t *testing.T) {
	inputs := []Input{
		{Items: []ItemInput{
			fishItem("Rui", "100", "97.5", "5230"),
			fishItem("Golda", "12.3", "11.69", "915"),
			fishItem("Katla", "7", "6.83", "4410"),
		}, PaidAmount: NumberOf("5000"), FarmerPaidAmount: NumberOf("1234.4")},
		{TransactionType: TransactionTypePona, Items: []ItemInput{
			ponaItem("Golda", "2.5", "333"),
			ponaItem("Bagda", "7", "1111.11"),
		}, PaidAmount: NumberOf("-40")},
	}

	for _, in := range inputs {
		s := Settings{CommissionRate: rate("2.75"), PonaCommissionRate: rate("3.3")}
		res := Calculate(in, s)

		var sum int64
		for _, item := range res.Items {
			sum += item.ItemGrossAmount
		}
		assert.Equal(t, sum, res.GrossAmount)

		wantCommission := RoundMoney(decimal.NewFromInt(res.GrossAmount).Mul(res.CommissionRate).Div(decimal.NewFromInt(100)))
		assert.Equal(t, wantCommission, res.CommissionAmount)
		assert.Equal(t, res.GrossAmount, res.NetFarmerAmount+res.CommissionAmount)
		assert.Equal(t, res.NetFarmerAmount-res.FarmerPaidAmount, res.FarmerDueAmount)
		assert.Equal(t, res.FarmerDueAmount <= 0, res.IsFarmerPaid)
		assert.Equal(t, res.GrossAmount, res.BuyerPayable)
		assert.Equal(t, res.BuyerPayable-res.PaidAmount, res.DueAmount)
		assert.Equal(t, res.DueAmount <= 0, res.IsPaid)
	}
}

func TestCalculate_PreservesItemOrder(t *testing.T) {
	res := Calculate(Input{Items: []ItemInput{
		fishItem("Katla", "", "40", "100"),
		fishItem("Rui", "", "40", "0"),
		fishItem("Bagda", "", "1", "100"),
		fishItem("Boal", "", "40", "100"),
	}}, Settings{})

	got := make([]string, 0, len(res.Items))
	for _, item := range res.Items {
		got = append(got, item.FishType)
	}
	assert.Equal(t, []string{"Katla", "Bagda", "Boal"}, got)
}

func TestCalculate_UnknownTypeUsesFishBranch(t *testing.T) {
	res := Calculate(Input{
		TransactionType: "pona",
		Items:           []ItemInput{fishItem("Rui", "", "40", "1000")},
	}, Settings{})

	assert.Equal(t, TransactionTypeFish, res.TransactionType)
	assert.Equal(t, int64(1000), res.GrossAmount)
}

func TestCalculate_KeepsExplicitUnit(t *testing.T) {
	item := fishItem("Rui", "", "40", "1000")
	item.Unit = UnitKG
	res := Calculate(Input{Items: []ItemInput{item}}, Settings{})

	require.Len(t, res.Items, 1)
	assert.Equal(t, UnitKG, res.Items[0].Unit)
	assert.Equal(t, int64(1000), res.Items[0].ItemGrossAmount)
}

func TestCalculate_DecodesLooseJSON(t *testing.T) {
	payload := `{
		"transaction_type": "Fish",
		"items": [
			{"fish_type": "Rui", "kacha_weight": "100", "paka_weight": 95, "rate_per_mon": "5000"},
			{"fish_type": "Katla", "kacha_weight": null, "rate_per_mon": "abc"}
		],
		"paid_amount": "1000.4"
	}`

	var in Input
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	res := Calculate(in, Settings{})
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(11875), res.GrossAmount)
	assert.Equal(t, int64(1000), res.PaidAmount)
	assert.Equal(t, int64(10875), res.DueAmount)
	assert.Equal(t, int64(0), res.FarmerPaidAmount)
}

func TestRoundMoney_Saturates(t *testing.T) {
	assert.Equal(t, MaxMoney, RoundMoney(decimal.RequireFromString("1e19")))
	assert.Equal(t, MaxMoney, RoundMoney(decimal.RequireFromString("2e19")))
	assert.Equal(t, -MaxMoney, RoundMoney(decimal.RequireFromString("-1e19")))
	assert.Equal(t, MaxMoney, RoundMoney(decimal.NewFromInt(MaxMoney)))
	assert.Equal(t, int64(3), RoundMoney(decimal.RequireFromString("2.5")))
}

func TestCalculate_HugeInputsDoNotWrap(t *testing.T) {
	for _, qty := range []string{"1e19", "2e19", "1e2000000000"} {
		t.Run(qty, func(t *testing.T) {
			res := Calculate(Input{
				TransactionType: TransactionTypePona,
				Items:           []ItemInput{ponaItem("Golda", qty, "1")},
			}, Settings{})

			assert.Equal(t, MaxMoney, res.GrossAmount)
			assert.Equal(t, MaxMoney, res.DueAmount)
			assert.False(t, res.IsPaid)
			assert.Equal(t, res.GrossAmount, res.NetFarmerAmount+res.CommissionAmount)
		})
	}
}

func TestCalculate_SumOfSaturatedItemsStaysBounded(t *testing.T) {
	items := make([]ItemInput, 20)
	for i := range items {
		items[i] = ponaItem("Golda", "1e18", "1")
	}
	res := Calculate(Input{
		TransactionType:  TransactionTypePona,
		Items:            items,
		PaidAmount:       NumberOf("-1e30"),
		FarmerPaidAmount: NumberOf("-1e30"),
	}, Settings{})

	assert.Equal(t, MaxMoney, res.GrossAmount)
	assert.Equal(t, -MaxMoney, res.PaidAmount)
	assert.Equal(t, 2*MaxMoney, res.DueAmount)
	assert.False(t, res.IsPaid)
	assert.False(t, res.IsFarmerPaid)
}

func TestCalculate_TinyExponentIsCheap(t *testing.T) {
	start := time.Now()
	res := Calculate(Input{
		TransactionType: TransactionTypePona,
		Items:           []ItemInput{ponaItem("Golda", "1e-5000000", "1")},
	}, Settings{})
	assert.Less(t, time.Since(start), time.Second)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.GrossAmount)
}

func TestCalculate_Idempotent(t *testing.T) {
	in := Input{
		Items:      []ItemInput{fishItem("Rui", "100", "95", "5000"), fishItem("Golda", "3", "2.85", "950")},
		PaidAmount: NumberOf("700"),
	}
	s := Settings{CommissionRate: rate("2.5")}

	first, err := json.Marshal(Calculate(in, s))
	require.NoError(t, err)
	second, err := json.Marshal(Calculate(in, s))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCalculate_ConcurrentCallsAgree(t *testing.T) {
	in := Input{Items: []ItemInput{fishItem("Rui", "100", "95", "5000")}}
	want := Calculate(in, Settings{})

	var wg sync.WaitGroup
	results := make([]Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Calculate(in, Settings{})
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want.GrossAmount, got.GrossAmount)
		assert.Equal(t, want.CommissionAmount, got.CommissionAmount)
	}
}
