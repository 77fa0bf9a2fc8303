package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/arot/internal/calculation"
)

// TransactionRequest is the body of create, update and preview calls.
type TransactionRequest struct {
	TransactionType  calculation.TransactionType `json:"transaction_type"`
	Date             string                      `json:"date"`
	FarmerName       string                      `json:"farmer_name"`
	BuyerName        string                      `json:"buyer_name"`
	Items            []calculation.ItemInput     `json:"items"`
	PaidAmount       calculation.Number          `json:"paid_amount"`
	FarmerPaidAmount calculation.Number          `json:"farmer_paid_amount"`
}

type GetTransactionRequest struct {
	ID string
}

type ListTransactionRequest struct {
	FarmerName      string
	BuyerName       string
	TransactionType string
	IsPaid          *bool
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
}

type ListTransactionResponse struct {
	Transactions []Transaction `json:"transactions"`
	Count        int           `json:"count"`
	Total        int64         `json:"total"`
}

type Service interface {
	// Preview calculates without storing, on the same path Create uses.
	Preview(ctx context.Context, req TransactionRequest) (calculation.Result, error)
	Create(ctx context.Context, req TransactionRequest) (Transaction, error)
	Update(ctx context.Context, id string, req TransactionRequest) (Transaction, error)
	Get(ctx context.Context, req GetTransactionRequest) (Transaction, error)
	List(ctx context.Context, req ListTransactionRequest) (ListTransactionResponse, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (Stats, error)
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 250
)

var (
	ErrInvalidID              = errors.New("invalid_id")
	ErrNotFound               = errors.New("not_found")
	ErrInvalidDate            = errors.New("invalid_date")
	ErrInvalidFarmerName      = errors.New("invalid_farmer_name")
	ErrInvalidBuyerName       = errors.New("invalid_buyer_name")
	ErrInvalidTransactionType = errors.New("invalid_transaction_type")
	ErrEmptyItems             = errors.New("empty_items")
	ErrInvalidFishType        = errors.New("invalid_fish_type")
	ErrNegativeRate           = errors.New("negative_rate")
	ErrNegativeWeight         = errors.New("negative_weight")
	ErrNegativePaidAmount     = errors.New("negative_paid_amount")
	ErrNegativeQuantity       = errors.New("negative_quantity")
	ErrAmountTooLarge         = errors.New("amount_too_large")
	ErrNoPricedItems          = errors.New("no_priced_items")
	ErrInvalidDateRange       = errors.New("invalid_date_range")
	ErrDuplicateReceipt       = errors.New("duplicate_receipt_no")
)
