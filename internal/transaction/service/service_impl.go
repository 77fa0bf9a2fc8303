package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/arot/internal/calculation"
	"github.com/smallbiznis/arot/internal/clock"
	obscontext "github.com/smallbiznis/arot/internal/observability/context"
	"github.com/smallbiznis/arot/internal/observability/metrics"
	settingsdomain "github.com/smallbiznis/arot/internal/settings/domain"
	"github.com/smallbiznis/arot/internal/transaction/domain"
	"github.com/smallbiznis/arot/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Settings settingsdomain.Service
	Receipts domain.ReceiptAllocator
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	settings settingsdomain.Service
	receipts domain.ReceiptAllocator
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("transaction.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		settings: p.Settings,
		receipts: p.Receipts,
		metrics:  p.Metrics,
	}
}

func (s *Service) Preview(ctx context.Context, req domain.TransactionRequest) (calculation.Result, error) {
	txType, err := normalizeType(req.TransactionType)
	if err != nil {
		return calculation.Result{}, err
	}
	if err := validateAmounts(req); err != nil {
		return calculation.Result{}, err
	}

	res, err := s.calculate(ctx, txType, req)
	if err != nil {
		return calculation.Result{}, err
	}
	s.metrics.RecordTransaction(string(txType), "preview", len(req.Items), len(res.Items), res.GrossAmount)
	return res, nil
}

func (s *Service) Create(ctx context.Context, req domain.TransactionRequest) (domain.Transaction, error) {
	txType, v, err := s.validate(req)
	if err != nil {
		return domain.Transaction{}, err
	}

	res, err := s.calculate(ctx, txType, req)
	if err != nil {
		return domain.Transaction{}, err
	}
	if len(res.Items) == 0 {
		return domain.Transaction{}, domain.ErrNoPricedItems
	}

	now := s.clock.Now()
	actor := obscontext.ActorFromContext(ctx)
	record := domain.Transaction{
		ID:         s.genID.Generate(),
		Date:       datatypes.Date(v.date),
		FarmerName: v.farmerName,
		BuyerName:  v.buyerName,
		CreatedBy:  actor,
		UpdatedBy:  actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	record.ApplyResult(res, s.genID.Generate)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		receiptNo, err := s.receipts.Next(ctx, tx, now)
		if err != nil {
			return err
		}
		record.ReceiptNo = receiptNo
		return s.repo.Insert(ctx, tx, &record)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Transaction{}, fmt.Errorf("%w: %s", domain.ErrDuplicateReceipt, record.ReceiptNo)
		}
		return domain.Transaction{}, err
	}

	s.metrics.RecordTransaction(string(txType), "create", len(req.Items), len(res.Items), res.GrossAmount)
	s.log.Info("transaction created",
		zap.String("transaction_id", record.ID.String()),
		zap.String("receipt_no", record.ReceiptNo),
		zap.String("transaction_type", string(record.TransactionType)),
		zap.Int64("gross_amount", record.GrossAmount),
		zap.Int("dropped_items", len(req.Items)-len(res.Items)),
	)
	return record, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.TransactionRequest) (domain.Transaction, error) {
	txID, err := parseID(id)
	if err != nil {
		return domain.Transaction{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, txID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if existing == nil {
		return domain.Transaction{}, domain.ErrNotFound
	}

	txType, v, err := s.validate(req)
	if err != nil {
		return domain.Transaction{}, err
	}

	res, err := s.calculate(ctx, txType, req)
	if err != nil {
		return domain.Transaction{}, err
	}
	if len(res.Items) == 0 {
		return domain.Transaction{}, domain.ErrNoPricedItems
	}

	record := *existing
	record.Date = datatypes.Date(v.date)
	record.FarmerName = v.farmerName
	record.BuyerName = v.buyerName
	record.UpdatedBy = obscontext.ActorFromContext(ctx)
	record.UpdatedAt = s.clock.Now()
	record.ApplyResult(res, s.genID.Generate)

	if err := s.repo.Replace(ctx, s.db, &record); err != nil {
		return domain.Transaction{}, err
	}

	s.metrics.RecordTransaction(string(txType), "update", len(req.Items), len(res.Items), res.GrossAmount)
	s.log.Info("transaction updated",
		zap.String("transaction_id", record.ID.String()),
		zap.String("receipt_no", record.ReceiptNo),
		zap.Int64("gross_amount", record.GrossAmount),
	)
	return record, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetTransactionRequest) (domain.Transaction, error) {
	txID, err := parseID(req.ID)
	if err != nil {
		return domain.Transaction{}, err
	}

	t, err := s.repo.FindByID(ctx, s.db, txID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if t == nil {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return *t, nil
}

func (s *Service) List(ctx context.Context, req domain.ListTransactionRequest) (domain.ListTransactionResponse, error) {
	filter := domain.ListFilter{
		FarmerName: strings.TrimSpace(req.FarmerName),
		BuyerName:  strings.TrimSpace(req.BuyerName),
		IsPaid:     req.IsPaid,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Limit:      clampLimit(req.Limit),
	}
	if raw := strings.TrimSpace(req.TransactionType); raw != "" {
		txType := calculation.TransactionType(raw)
		if !txType.Valid() {
			return domain.ListTransactionResponse{}, domain.ErrInvalidTransactionType
		}
		filter.TransactionType = txType
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return domain.ListTransactionResponse{}, domain.ErrInvalidDateRange
	}

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.ListTransactionResponse{}, err
	}

	txs := make([]domain.Transaction, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		txs = append(txs, *item)
	}

	return domain.ListTransactionResponse{Transactions: txs, Count: len(txs), Total: total}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	txID, err := parseID(id)
	if err != nil {
		return err
	}

	actor := obscontext.ActorFromContext(ctx)
	ok, err := s.repo.SoftDelete(ctx, s.db, txID, s.clock.Now(), actor)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}

	s.log.Info("transaction deleted", zap.String("transaction_id", txID.String()), zap.String("actor", actor))
	return nil
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	return s.repo.Stats(ctx, s.db)
}

func (s *Service) validate(req domain.TransactionRequest) (calculation.TransactionType, validated, error) {
	txType, err := normalizeType(req.TransactionType)
	if err != nil {
		return "", validated{}, err
	}
	v, err := validateRecord(req)
	if err != nil {
		return "", validated{}, err
	}
	if err := validateAmounts(req); err != nil {
		return "", validated{}, err
	}
	return txType, v, nil
}

// calculate is the one path from a request to engine output.
func (s *Service) calculate(ctx context.Context, txType calculation.TransactionType, req domain.TransactionRequest) (calculation.Result, error) {
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return calculation.Result{}, fmt.Errorf("load settings: %w", err)
	}
	res := calculation.Calculate(toInput(txType, req, settings), settings)
	// A saturated total no longer reflects the entered figures.
	if res.GrossAmount >= calculation.MaxMoney {
		return calculation.Result{}, domain.ErrAmountTooLarge
	}
	return res, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		return domain.MaxListLimit
	default:
		return limit
	}
}
