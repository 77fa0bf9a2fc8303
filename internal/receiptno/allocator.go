package receiptno

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/arot/internal/observability/metrics"
	"github.com/smallbiznis/arot/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sequence is the last number handed out in one period.
type Sequence struct {
	Period    string    `gorm:"primaryKey;type:varchar(16)"`
	LastValue int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Sequence) TableName() string {
	return "receipt_sequences"
}

// Allocator hands out receipt numbers that are unique and gap-free per period
// as long as callers pass the transaction that stores the receipt.
type Allocator struct {
	db       *gorm.DB
	log      *zap.Logger
	locker   PeriodLocker
	metrics  *metrics.Metrics
	template string
}

func NewAllocator(conn *gorm.DB, log *zap.Logger, locker PeriodLocker, m *metrics.Metrics, template string) (*Allocator, error) {
	if template == "" {
		template = DefaultTemplate
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	if locker == nil {
		locker = noopLocker{}
	}
	return &Allocator{
		db:       conn,
		log:      log.Named("receiptno.allocator"),
		locker:   locker,
		metrics:  m,
		template: template,
	}, nil
}

// Next reserves the next number for the period containing at. When tx is
// non-nil the reservation commits or rolls back with it.
func (a *Allocator) Next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	start := time.Now()
	receiptNo, err := a.next(ctx, tx, at)
	status := "ok"
	if err != nil {
		status = "error"
		if errors.Is(err, ErrLockTimeout) {
			status = "lock_timeout"
		}
	}
	a.metrics.RecordReceiptAllocation(status, time.Since(start))
	return receiptNo, err
}

func (a *Allocator) next(ctx context.Context, tx *gorm.DB, at time.Time) (string, error) {
	period := PeriodFor(a.template, at)

	release, err := a.locker.Acquire(ctx, "receipt:lock:"+period)
	if err != nil {
		return "", fmt.Errorf("lock receipt period %s: %w", period, err)
	}
	defer release()

	conn := tx
	if conn == nil {
		conn = a.db
	}

	var seq int64
	err = conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := increment(tx, period, at)
		seq = v
		return err
	})
	if err != nil {
		return "", fmt.Errorf("advance receipt sequence %s: %w", period, err)
	}

	receiptNo, err := FormatReceiptNumber(a.template, at, seq)
	if err != nil {
		return "", err
	}
	a.log.Debug("receipt number allocated", zap.String("period", period), zap.String("receipt_no", receiptNo))
	return receiptNo, nil
}

// increment bumps the period row, creating it on first use. The UPDATE takes
// the row lock, so the following read sees this caller's value.
func increment(tx *gorm.DB, period string, at time.Time) (int64, error) {
	now := at.UTC()
	for attempt := 0; attempt < 2; attempt++ {
		res := tx.Model(&Sequence{}).
			Where("period = ?", period).
			Updates(map[string]any{
				"last_value": gorm.Expr("last_value + 1"),
				"updated_at": now,
			})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected == 1 {
			var row Sequence
			if err := tx.Where("period = ?", period).Take(&row).Error; err != nil {
				return 0, err
			}
			return row.LastValue, nil
		}

		// Savepoint, so a duplicate insert leaves the outer transaction usable.
		err := tx.Transaction(func(sp *gorm.DB) error {
			return sp.Create(&Sequence{Period: period, LastValue: 1, UpdatedAt: now}).Error
		})
		if err == nil {
			return 1, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return 0, err
		}
		// Lost the insert race; the row exists now, so update it.
	}
	return 0, fmt.Errorf("receipt sequence %s: concurrent initialisation", period)
}
