package calculation

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"42", "42"},
		{"  12.50  ", "12.5"},
		{"12.5kg", "12.5"},
		{"-3", "-3"},
		{"+7", "7"},
		{".5", "0.5"},
		{"5.", "5"},
		{"1e3", "1000"},
		{"2.5e-1", "0.25"},
		{"4e", "4"},
		{"1,000", "1"},
		{"NaN", "0"},
		{"1e-31", "0"},
		{"1e-5000000", "0"},
		{"7e-99999999999999999999", "0"},
		{"1e-30", "0.000000000000000000000000000001"},
		{"2e99999", "2000000000000000000000000000000"},
		{"3e99999999999999999999", "3000000000000000000000000000000"},
		{"0.12345678901234567", "0.123456789012"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assertDecimal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestParseNumber_HugeExponentIsCheap(t *testing.T) {
	start := time.Now()
	for _, raw := range []string{"1e-2000000000", "1e2000000000", "9.99e-5000000"} {
		RoundMoney(ParseNumber(raw))
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var payload struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
		E Number `json:"e"`
		F Number `json:"f"`
	}

	err := json.Unmarshal([]byte(`{"a": 12.25, "b": "7", "c": null, "d": "", "e": true}`), &payload)
	require.NoError(t, err)

	assertDecimal(t, "12.25", payload.A.Decimal())
	assert.True(t, payload.A.IsSet())
	assertDecimal(t, "7", payload.B.Decimal())
	assert.False(t, payload.C.IsSet())
	assertDecimal(t, "0", payload.C.Decimal())
	assert.False(t, payload.D.IsSet())
	assert.True(t, payload.E.IsSet())
	assertDecimal(t, "0", payload.E.Decimal())
	assert.False(t, payload.F.IsSet())
}

func TestNumber_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		A Number `json:"a"`
		B Number `json:"b"`
	}{A: NumberOf("9.50"), B: Number{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": 9.5, "b": null}`, string(out))
}

func TestSpecies(t *testing.T) {
	for _, name := range ShrimpSpecies() {
		assert.True(t, IsShrimp(name), name)
	}
	assert.False(t, IsShrimp("Rui"))
	assert.False(t, IsShrimp("Caka cingi"))

	assert.Equal(t, UnitHazar, UnitFor(TransactionTypePona, "Rui"))
	assert.Equal(t, UnitKG, UnitFor(TransactionTypeFish, "Golda"))
	assert.Equal(t, UnitMon, UnitFor(TransactionTypeFish, "Pangas"))
}

func TestDerivePakaWeight(t *testing.T) {
	assertDecimal(t, "97.5", DerivePakaWeight("Rui", ParseNumber("100"), Settings{}))
	assertDecimal(t, "95", DerivePakaWeight("Bagda", ParseNumber("100"), Settings{}))
	assertDecimal(t, "11.69", DerivePakaWeight("Golda", ParseNumber("12.3"), Settings{}))
	assertDecimal(t, "90", DerivePakaWeight("Rui", ParseNumber("100"), Settings{FishDeductionRate: rate("10")}))
	assertDecimal(t, "100", DerivePakaWeight("Bagda", ParseNumber("100"), Settings{ShrimpDeductionRate: rate("0")}))
}
