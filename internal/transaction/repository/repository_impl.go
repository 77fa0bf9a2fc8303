package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/arot/internal/transaction/domain"
	"github.com/smallbiznis/arot/pkg/db/option"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, t *domain.Transaction) error {
	return db.WithContext(ctx).Create(t).Error
}

func (r *repo) Replace(ctx context.Context, db *gorm.DB, t *domain.Transaction) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Transaction{}).
			Where("id = ? AND is_deleted = ?", t.ID, false).
			Select("*").
			Omit("id", "receipt_no", "created_by", "created_at", "is_deleted", "deleted_at", "Items").
			Updates(t)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Where("transaction_id = ?", t.ID).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if len(t.Items) == 0 {
			return nil
		}
		return tx.Create(&t.Items).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Transaction, error) {
	var t domain.Transaction
	err := db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("id = ? AND is_deleted = ?", id, false).
		Take(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Transaction, int64, error) {
	opts := filterOptions(filter)

	stmt := db.WithContext(ctx).Model(&domain.Transaction{}).Where("is_deleted = ?", false)
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}

	var total int64
	if err := stmt.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	desc := !filter.Ascending
	stmt = option.OrderBy(
		clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: desc},
		clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: desc},
	).Apply(stmt)
	stmt = option.WithLimit(filter.Limit).Apply(stmt)

	var items []*domain.Transaction
	if err := stmt.Preload("Items", orderItems).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repo) SoftDelete(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time, actor string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{
			"is_deleted": true,
			"deleted_at": at,
			"updated_by": actor,
			"updated_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *repo) Stats(ctx context.Context, db *gorm.DB) (domain.Stats, error) {
	var stats domain.Stats
	err := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select(`COUNT(*) AS total_transactions,
			COALESCE(SUM(gross_amount), 0) AS total_gross_amount,
			COALESCE(SUM(commission_amount), 0) AS total_commission,
			COALESCE(SUM(due_amount), 0) AS total_due,
			COALESCE(SUM(CASE WHEN due_amount > 0 THEN 1 ELSE 0 END), 0) AS due_count`).
		Where("is_deleted = ?", false).
		Scan(&stats).Error
	return stats, err
}

func filterOptions(filter domain.ListFilter) []option.QueryOption {
	var opts []option.QueryOption
	if filter.FarmerName != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "farmer_name", Operator: option.IEQ, Value: filter.FarmerName}))
	}
	if filter.BuyerName != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "buyer_name", Operator: option.IEQ, Value: filter.BuyerName}))
	}
	if filter.TransactionType != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "transaction_type", Operator: option.EQ, Value: string(filter.TransactionType)}))
	}
	if filter.IsPaid != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "is_paid", Operator: option.EQ, Value: *filter.IsPaid}))
	}
	if filter.StartDate != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "date", Operator: option.GTE, Value: datatypes.Date(*filter.StartDate)}))
	}
	if filter.EndDate != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{Field: "date", Operator: option.LTE, Value: datatypes.Date(*filter.EndDate)}))
	}
	return opts
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
