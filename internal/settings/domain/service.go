package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/arot/internal/calculation"
)

// UpdateSettingsRequest is a partial update; nil fields are left unchanged.
type UpdateSettingsRequest struct {
	CommissionRate      *decimal.Decimal `json:"commission_rate"`
	PonaCommissionRate  *decimal.Decimal `json:"pona_commission_rate"`
	ShrimpDeductionRate *decimal.Decimal `json:"shrimp_deduction_rate"`
	FishDeductionRate   *decimal.Decimal `json:"fish_deduction_rate"`
	ArotName            *string          `json:"arot_name"`
	ArotLocation        *string          `json:"arot_location"`
	Mobile              *string          `json:"mobile"`
	Tagline             *string          `json:"tagline"`
	Email               *string          `json:"email"`
	LogoURL             *string          `json:"logo_url"`
}

type Service interface {
	// Get returns the settings row, creating it with defaults on first use.
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error)
	// Snapshot returns the values the calculation engine reads.
	Snapshot(ctx context.Context) (calculation.Settings, error)
}

var (
	ErrInvalidCommissionRate = errors.New("invalid_commission_rate")
	ErrInvalidDeductionRate  = errors.New("invalid_deduction_rate")
	ErrInvalidArotName       = errors.New("invalid_arot_name")
	ErrInvalidArotLocation   = errors.New("invalid_arot_location")
	ErrInvalidEmail          = errors.New("invalid_email")
)
