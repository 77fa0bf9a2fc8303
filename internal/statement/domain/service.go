package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/arot/internal/calculation"
)

type Party string

const (
	PartyBuyer  Party = "buyer"
	PartyFarmer Party = "farmer"
)

type StatementRequest struct {
	Name            string
	TransactionType string
	StartDate       *time.Time
	EndDate         *time.Time
}

// Line is one stored transaction as it appears on a statement. Amounts are
// the persisted values.
type Line struct {
	TransactionID   snowflake.ID                `json:"transaction_id"`
	ReceiptNo       string                      `json:"receipt_no"`
	Date            string                      `json:"date"`
	TransactionType calculation.TransactionType `json:"transaction_type"`
	Counterparty    string                      `json:"counterparty"`
	GrossAmount     int64                       `json:"gross_amount"`
	Commission      int64                       `json:"commission_amount,omitempty"`
	NetAmount       int64                       `json:"net_amount,omitempty"`
	PaidAmount      int64                       `json:"paid_amount"`
	DueAmount       int64                       `json:"due_amount"`
	IsPaid          bool                        `json:"is_paid"`
}

type Totals struct {
	GrossAmount int64 `json:"gross_amount"`
	Commission  int64 `json:"commission_amount,omitempty"`
	NetAmount   int64 `json:"net_amount,omitempty"`
	PaidAmount  int64 `json:"paid_amount"`
	DueAmount   int64 `json:"due_amount"`
}

type Statement struct {
	Key         string     `json:"key"`
	Party       Party      `json:"party"`
	Name        string     `json:"name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Lines       []Line     `json:"lines"`
	Totals      Totals     `json:"totals"`
	GeneratedAt time.Time  `json:"generated_at"`
}

type Service interface {
	BuyerStatement(ctx context.Context, req StatementRequest) (Statement, error)
	FarmerStatement(ctx context.Context, req StatementRequest) (Statement, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrNotFound    = errors.New("statement_not_found")
)
