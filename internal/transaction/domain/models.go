package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/arot/internal/calculation"
	"gorm.io/datatypes"
)

// Transaction is one stored auction sale. Every amount on it comes from the
// calculation engine; nothing here is recomputed on read.
type Transaction struct {
	ID              snowflake.ID                `gorm:"primaryKey" json:"id"`
	ReceiptNo       string                      `gorm:"type:varchar(64);not null;uniqueIndex" json:"receipt_no"`
	TransactionType calculation.TransactionType `gorm:"type:varchar(16);not null;index" json:"transaction_type"`
	Date            datatypes.Date              `gorm:"not null;index" json:"date"`
	FarmerName      string                      `gorm:"type:varchar(255);not null;index" json:"farmer_name"`
	BuyerName       string                      `gorm:"type:varchar(255);not null;index" json:"buyer_name"`
	Items           []Item                      `gorm:"foreignKey:TransactionID" json:"items"`

	TotalQuantity    decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"total_quantity"`
	TotalKachaWeight decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"total_kacha_weight"`
	TotalPakaWeight  decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"total_paka_weight"`
	TotalWeight      decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"total_weight"`
	GrossAmount      int64           `gorm:"not null" json:"gross_amount"`
	CommissionRate   decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"commission_rate"`
	CommissionAmount int64           `gorm:"not null" json:"commission_amount"`
	NetFarmerAmount  int64           `gorm:"not null" json:"net_farmer_amount"`
	FarmerPaidAmount int64           `gorm:"not null" json:"farmer_paid_amount"`
	FarmerDueAmount  int64           `gorm:"not null" json:"farmer_due_amount"`
	IsFarmerPaid     bool            `gorm:"not null;index" json:"is_farmer_paid"`
	BuyerPayable     int64           `gorm:"not null" json:"buyer_payable"`
	PaidAmount       int64           `gorm:"not null" json:"paid_amount"`
	DueAmount        int64           `gorm:"not null" json:"due_amount"`
	IsPaid           bool            `gorm:"not null;index" json:"is_paid"`

	CreatedBy string     `gorm:"type:varchar(255)" json:"created_by,omitempty"`
	UpdatedBy string     `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	IsDeleted bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// Item is a priced line of a transaction, kept in input order by Position.
type Item struct {
	ID              snowflake.ID     `gorm:"primaryKey" json:"id"`
	TransactionID   snowflake.ID     `gorm:"not null;index" json:"-"`
	Position        int              `gorm:"not null" json:"position"`
	FishType        string           `gorm:"type:varchar(128);not null" json:"fish_type"`
	FishCategory    string           `gorm:"type:varchar(64);not null" json:"fish_category"`
	Unit            calculation.Unit `gorm:"type:varchar(16);not null" json:"unit"`
	Quantity        decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"quantity"`
	Rate            decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"rate"`
	RatePerMon      decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"rate_per_mon"`
	KachaWeight     decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"kacha_weight"`
	PakaWeight      decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"paka_weight"`
	ItemTotalWeight decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"item_total_weight"`
	ItemGrossAmount int64            `gorm:"not null" json:"item_gross_amount"`
}

func (Item) TableName() string {
	return "transaction_items"
}

// ApplyResult copies every derived field of res onto t and replaces its items.
// newID supplies ids for the fresh item rows.
func (t *Transaction) ApplyResult(res calculation.Result, newID func() snowflake.ID) {
	t.TransactionType = res.TransactionType
	t.TotalQuantity = res.TotalQuantity
	t.TotalKachaWeight = res.TotalKachaWeight
	t.TotalPakaWeight = res.TotalPakaWeight
	t.TotalWeight = res.TotalWeight
	t.GrossAmount = res.GrossAmount
	t.CommissionRate = res.CommissionRate
	t.CommissionAmount = res.CommissionAmount
	t.NetFarmerAmount = res.NetFarmerAmount
	t.FarmerPaidAmount = res.FarmerPaidAmount
	t.FarmerDueAmount = res.FarmerDueAmount
	t.IsFarmerPaid = res.IsFarmerPaid
	t.BuyerPayable = res.BuyerPayable
	t.PaidAmount = res.PaidAmount
	t.DueAmount = res.DueAmount
	t.IsPaid = res.IsPaid

	t.Items = make([]Item, 0, len(res.Items))
	for i, it := range res.Items {
		t.Items = append(t.Items, Item{
			ID:              newID(),
			TransactionID:   t.ID,
			Position:        i,
			FishType:        it.FishType,
			FishCategory:    it.FishCategory,
			Unit:            it.Unit,
			Quantity:        it.Quantity,
			Rate:            it.Rate,
			RatePerMon:      it.RatePerMon,
			KachaWeight:     it.KachaWeight,
			PakaWeight:      it.PakaWeight,
			ItemTotalWeight: it.ItemTotalWeight,
			ItemGrossAmount: it.ItemGrossAmount,
		})
	}
}

// Stats summarises live transactions for the dashboard.
type Stats struct {
	TotalTransactions int64 `json:"total_transactions"`
	TotalGrossAmount  int64 `json:"total_gross_amount"`
	TotalCommission   int64 `json:"total_commission"`
	TotalDue          int64 `json:"total_due"`
	DueCount          int64 `json:"due_count"`
}
