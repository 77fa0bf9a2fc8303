// Package option holds composable query modifiers for repository reads.
package option

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueryOption interface {
	Apply(*gorm.DB) *gorm.DB
}

type QueryOptionFunc func(*gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

type Operator string

const (
	EQ  Operator = "="
	NEQ Operator = "<>"
	GT  Operator = ">"
	GTE Operator = ">="
	LT  Operator = "<"
	LTE Operator = "<="
	// IEQ compares text case-insensitively.
	IEQ Operator = "ieq"
)

type Condition struct {
	Field    string
	Operator Operator
	Value    any
}

// ApplyOperator filters on a single column. Field names come from code, never
// from request input.
func ApplyOperator(cond Condition) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		col := clause.Column{Name: cond.Field}
		switch cond.Operator {
		case EQ:
			return db.Where(clause.Eq{Column: col, Value: cond.Value})
		case NEQ:
			return db.Where(clause.Neq{Column: col, Value: cond.Value})
		case GT:
			return db.Where(clause.Gt{Column: col, Value: cond.Value})
		case GTE:
			return db.Where(clause.Gte{Column: col, Value: cond.Value})
		case LT:
			return db.Where(clause.Lt{Column: col, Value: cond.Value})
		case LTE:
			return db.Where(clause.Lte{Column: col, Value: cond.Value})
		case IEQ:
			return db.Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", cond.Field), cond.Value)
		default:
			_ = db.AddError(fmt.Errorf("unsupported operator %q", cond.Operator))
			return db
		}
	})
}

type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, OrderBy: orderBy, Allow: allow}
}

// WithSortBy orders by SortBy when it is allowed, else by created_at when
// that is allowed. OrderBy defaults to descending.
func WithSortBy(q QuerySortBy) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		field := strings.TrimSpace(q.SortBy)
		if !q.Allow[field] {
			field = "created_at"
			if !q.Allow[field] {
				return db
			}
		}
		desc := !strings.EqualFold(strings.TrimSpace(q.OrderBy), "asc")
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc})
	})
}

// OrderBy appends fixed orderings, such as a tie-breaker after the primary sort.
func OrderBy(columns ...clause.OrderByColumn) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		for _, c := range columns {
			db = db.Order(c)
		}
		return db
	})
}

func WithLimit(limit int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Limit(limit)
	})
}
