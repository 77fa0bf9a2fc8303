package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/arot/internal/calculation"
	"gorm.io/gorm"
)

// ListFilter selects live transactions. Names match exactly, ignoring case.
// A zero Limit returns every match.
type ListFilter struct {
	FarmerName      string
	BuyerName       string
	TransactionType calculation.TransactionType
	IsPaid          *bool
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	// Ascending orders oldest first; the default is newest first.
	Ascending bool
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, t *Transaction) error
	// Replace overwrites the derived fields and items of a live transaction.
	Replace(ctx context.Context, db *gorm.DB, t *Transaction) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Transaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Transaction, int64, error)
	SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, actor string) (bool, error)
	Stats(ctx context.Context, db *gorm.DB) (Stats, error)
}

// ReceiptAllocator reserves receipt numbers inside the caller's transaction.
type ReceiptAllocator interface {
	Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error)
}
