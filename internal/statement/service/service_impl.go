package service

import (
	"context"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/arot/internal/calculation"
	"github.com/smallbiznis/arot/internal/clock"
	"github.com/smallbiznis/arot/internal/statement/domain"
	txdomain "github.com/smallbiznis/arot/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  txdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  txdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("statement.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) BuyerStatement(ctx context.Context, req domain.StatementRequest) (domain.Statement, error) {
	return s.build(ctx, domain.PartyBuyer, req)
}

func (s *Service) FarmerStatement(ctx context.Context, req domain.StatementRequest) (domain.Statement, error) {
	return s.build(ctx, domain.PartyFarmer, req)
}

func (s *Service) build(ctx context.Context, party domain.Party, req domain.StatementRequest) (domain.Statement, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Statement{}, domain.ErrInvalidName
	}

	filter := txdomain.ListFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Ascending: true,
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return domain.Statement{}, txdomain.ErrInvalidDateRange
	}
	if raw := strings.TrimSpace(req.TransactionType); raw != "" {
		txType := calculation.TransactionType(raw)
		if !txType.Valid() {
			return domain.Statement{}, txdomain.ErrInvalidTransactionType
		}
		filter.TransactionType = txType
	}
	if party == domain.PartyBuyer {
		filter.BuyerName = name
	} else {
		filter.FarmerName = name
	}

	rows, _, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.Statement{}, err
	}
	if len(rows) == 0 {
		return domain.Statement{}, domain.ErrNotFound
	}

	stmt := domain.Statement{
		Key:         StatementKey(party, name),
		Party:       party,
		Name:        name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Lines:       make([]domain.Line, 0, len(rows)),
		GeneratedAt: s.clock.Now(),
	}
	for _, t := range rows {
		line := lineFor(party, t)
		stmt.Lines = append(stmt.Lines, line)
		stmt.Totals.GrossAmount += line.GrossAmount
		stmt.Totals.Commission += line.Commission
		stmt.Totals.NetAmount += line.NetAmount
		stmt.Totals.PaidAmount += line.PaidAmount
		stmt.Totals.DueAmount += line.DueAmount
	}

	s.log.Debug("statement built",
		zap.String("party", string(party)),
		zap.String("key", stmt.Key),
		zap.Int("lines", len(stmt.Lines)),
	)
	return stmt, nil
}

// StatementKey is a stable, filename-safe identifier for a party statement.
func StatementKey(party domain.Party, name string) string {
	return "statement-" + string(party) + "-" + slug.Make(name)
}

func lineFor(party domain.Party, t *txdomain.Transaction) domain.Line {
	line := domain.Line{
		TransactionID:   t.ID,
		ReceiptNo:       t.ReceiptNo,
		Date:            time.Time(t.Date).Format("2006-01-02"),
		TransactionType: t.TransactionType,
		GrossAmount:     t.GrossAmount,
	}
	if party == domain.PartyBuyer {
		line.Counterparty = t.FarmerName
		line.PaidAmount = t.PaidAmount
		line.DueAmount = t.DueAmount
		line.IsPaid = t.IsPaid
		return line
	}
	line.Counterparty = t.BuyerName
	line.Commission = t.CommissionAmount
	line.NetAmount = t.NetFarmerAmount
	line.PaidAmount = t.FarmerPaidAmount
	line.DueAmount = t.FarmerDueAmount
	line.IsPaid = t.IsFarmerPaid
	return line
}
