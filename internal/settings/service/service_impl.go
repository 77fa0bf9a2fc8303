package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/arot/internal/calculation"
	"github.com/smallbiznis/arot/internal/clock"
	"github.com/smallbiznis/arot/internal/config"
	obscontext "github.com/smallbiznis/arot/internal/observability/context"
	"github.com/smallbiznis/arot/internal/settings/domain"
	"github.com/smallbiznis/arot/pkg/db"
	"github.com/smallbiznis/arot/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg   config.Config
	Log   *zap.Logger
	Clock clock.Clock
	Repo  repository.Repository[domain.Settings]
}

type Service struct {
	arot  config.ArotConfig
	log   *zap.Logger
	clock clock.Clock
	repo  repository.Repository[domain.Settings]
}

func New(p Params) domain.Service {
	return &Service{
		arot:  p.Cfg.Arot,
		log:   p.Log.Named("settings.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

var hundred = decimal.NewFromInt(100)

func (s *Service) Get(ctx context.Context) (domain.Settings, error) {
	row, err := s.repo.FindOne(ctx, &domain.Settings{ID: domain.SingletonID})
	if err != nil {
		return domain.Settings{}, err
	}
	if row != nil {
		return *row, nil
	}

	defaults := s.defaults()
	if err := s.repo.Create(ctx, &defaults); err != nil {
		// Another request created the row first.
		if db.IsDuplicateKeyErr(err) {
			return s.mustFind(ctx)
		}
		return domain.Settings{}, err
	}

	s.log.Info("settings initialized",
		zap.String("arot_name", defaults.ArotName),
		zap.String("commission_rate", defaults.CommissionRate.String()),
	)
	return defaults, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Settings, error) {
	if err := validateUpdate(req); err != nil {
		return domain.Settings{}, err
	}

	current, err := s.Get(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	applyRate(&current.CommissionRate, req.CommissionRate)
	applyRate(&current.PonaCommissionRate, req.PonaCommissionRate)
	applyRate(&current.ShrimpDeductionRate, req.ShrimpDeductionRate)
	applyRate(&current.FishDeductionRate, req.FishDeductionRate)
	applyText(&current.ArotName, req.ArotName)
	applyText(&current.ArotLocation, req.ArotLocation)
	applyText(&current.Mobile, req.Mobile)
	applyText(&current.Tagline, req.Tagline)
	applyText(&current.Email, req.Email)
	applyText(&current.LogoURL, req.LogoURL)

	current.UpdatedBy = obscontext.ActorFromContext(ctx)
	current.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, &current); err != nil {
		return domain.Settings{}, err
	}

	s.log.Info("settings updated",
		zap.String("actor", current.UpdatedBy),
		zap.String("commission_rate", current.CommissionRate.String()),
		zap.String("pona_commission_rate", current.PonaCommissionRate.String()),
	)
	return current, nil
}

func (s *Service) Snapshot(ctx context.Context) (calculation.Settings, error) {
	row, err := s.Get(ctx)
	if err != nil {
		return calculation.Settings{}, err
	}
	return ToCalculation(row), nil
}

// ToCalculation maps a stored row onto the engine's settings.
func ToCalculation(row domain.Settings) calculation.Settings {
	return calculation.Settings{
		CommissionRate:      decimal.NewNullDecimal(row.CommissionRate),
		PonaCommissionRate:  decimal.NewNullDecimal(row.PonaCommissionRate),
		ShrimpDeductionRate: decimal.NewNullDecimal(row.ShrimpDeductionRate),
		FishDeductionRate:   decimal.NewNullDecimal(row.FishDeductionRate),
	}
}

func (s *Service) defaults() domain.Settings {
	commission := calculation.ParseNumber(s.arot.DefaultCommissionRate)
	if !commission.IsPositive() || commission.GreaterThan(hundred) {
		commission = calculation.DefaultCommissionRate
	}

	name := strings.TrimSpace(s.arot.Name)
	if name == "" {
		name = domain.DefaultArotName
	}
	location := strings.TrimSpace(s.arot.Location)
	if location == "" {
		location = domain.DefaultArotLocation
	}

	now := s.clock.Now()
	return domain.Settings{
		ID:                  domain.SingletonID,
		ArotName:            name,
		ArotLocation:        location,
		Mobile:              domain.DefaultMobile,
		Tagline:             domain.DefaultTagline,
		CommissionRate:      commission,
		PonaCommissionRate:  calculation.DefaultPonaCommissionRate,
		ShrimpDeductionRate: calculation.DefaultShrimpDeductionRate,
		FishDeductionRate:   calculation.DefaultFishDeductionRate,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (s *Service) mustFind(ctx context.Context) (domain.Settings, error) {
	row, err := s.repo.FindOne(ctx, &domain.Settings{ID: domain.SingletonID})
	if err != nil {
		return domain.Settings{}, err
	}
	if row == nil {
		return domain.Settings{}, fmt.Errorf("settings row %d vanished after conflict", domain.SingletonID)
	}
	return *row, nil
}

func validateUpdate(req domain.UpdateSettingsRequest) error {
	for _, r := range []*decimal.Decimal{req.CommissionRate, req.PonaCommissionRate} {
		if r != nil && !inPercentRange(*r) {
			return domain.ErrInvalidCommissionRate
		}
	}
	for _, r := range []*decimal.Decimal{req.ShrimpDeductionRate, req.FishDeductionRate} {
		if r != nil && !inPercentRange(*r) {
			return domain.ErrInvalidDeductionRate
		}
	}
	if req.ArotName != nil && strings.TrimSpace(*req.ArotName) == "" {
		return domain.ErrInvalidArotName
	}
	if req.ArotLocation != nil && strings.TrimSpace(*req.ArotLocation) == "" {
		return domain.ErrInvalidArotLocation
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return domain.ErrInvalidEmail
		}
	}
	return nil
}

func inPercentRange(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(hundred)
}

func applyRate(dst *decimal.Decimal, v *decimal.Decimal) {
	if v != nil {
		*dst = *v
	}
}

func applyText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
