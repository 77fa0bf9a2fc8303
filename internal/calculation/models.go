// Package calculation turns auction entries into the monetary fields stored on
// a transaction. Everything here is pure: no I/O, no shared state.
package calculation

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TransactionTypeFish TransactionType = "Fish"
	TransactionTypePona TransactionType = "Pona"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeFish || t == TransactionTypePona
}

type Unit string

const (
	UnitKG    Unit = "KG"
	UnitMon   Unit = "Mon"
	UnitHazar Unit = "Hazar"
	UnitPiece Unit = "Piece"
)

// MonWeight is the number of weight units in one mon.
var MonWeight = decimal.NewFromInt(40)

// Default commission and deduction percentages used when settings leave them unset.
var (
	DefaultCommissionRate      = decimal.NewFromFloat(2.5)
	DefaultPonaCommissionRate  = decimal.NewFromInt(3)
	DefaultShrimpDeductionRate = decimal.NewFromInt(5)
	DefaultFishDeductionRate   = decimal.NewFromFloat(2.5)
)

// Input is one transaction as entered at the auction.
type Input struct {
	TransactionType  TransactionType `json:"transaction_type"`
	Items            []ItemInput     `json:"items"`
	PaidAmount       Number          `json:"paid_amount"`
	FarmerPaidAmount Number          `json:"farmer_paid_amount"`
}

// ItemInput is a raw line item. Fish lines use the weight fields and
// RatePerMon; Pona lines use Quantity and Rate.
type ItemInput struct {
	FishType     string `json:"fish_type"`
	FishCategory string `json:"fish_category"`
	Unit         Unit   `json:"unit,omitempty"`

	RatePerMon  Number `json:"rate_per_mon"`
	KachaWeight Number `json:"kacha_weight"`
	PakaWeight  Number `json:"paka_weight"`

	Quantity Number `json:"quantity"`
	Rate     Number `json:"rate"`
}

// Settings carries the arot configuration the engine reads. Unset rates fall
// back to the package defaults.
type Settings struct {
	CommissionRate      decimal.NullDecimal
	PonaCommissionRate  decimal.NullDecimal
	ShrimpDeductionRate decimal.NullDecimal
	FishDeductionRate   decimal.NullDecimal
}

// Item is a line item that passed validation, with explicit numeric fields
// and its derived amounts.
type Item struct {
	FishType        string          `json:"fish_type"`
	FishCategory    string          `json:"fish_category"`
	Unit            Unit            `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	Rate            decimal.Decimal `json:"rate"`
	RatePerMon      decimal.Decimal `json:"rate_per_mon"`
	KachaWeight     decimal.Decimal `json:"kacha_weight"`
	PakaWeight      decimal.Decimal `json:"paka_weight"`
	ItemTotalWeight decimal.Decimal `json:"item_total_weight"`
	ItemGrossAmount int64           `json:"item_gross_amount"`
}

// Result is the full set of derived fields for a transaction. Money is in
// whole currency units.
type Result struct {
	TransactionType  TransactionType `json:"transaction_type"`
	Items            []Item          `json:"items"`
	TotalQuantity    decimal.Decimal `json:"total_quantity"`
	TotalKachaWeight decimal.Decimal `json:"total_kacha_weight"`
	TotalPakaWeight  decimal.Decimal `json:"total_paka_weight"`
	TotalWeight      decimal.Decimal `json:"total_weight"`
	GrossAmount      int64           `json:"gross_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount int64           `json:"commission_amount"`
	NetFarmerAmount  int64           `json:"net_farmer_amount"`
	FarmerPaidAmount int64           `json:"farmer_paid_amount"`
	FarmerDueAmount  int64           `json:"farmer_due_amount"`
	IsFarmerPaid     bool            `json:"is_farmer_paid"`
	BuyerPayable     int64           `json:"buyer_payable"`
	PaidAmount       int64           `json:"paid_amount"`
	DueAmount        int64           `json:"due_amount"`
	IsPaid           bool            `json:"is_paid"`
}
