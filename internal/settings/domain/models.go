package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// SingletonID is the primary key of the only settings row.
const SingletonID snowflake.ID = 1

const (
	DefaultArotName     = "Chitalmari-Bagerhat Motsho Arot"
	DefaultArotLocation = "Foltita Bazar, Fakirhat, Bagerhat"
	DefaultMobile       = "01700000000"
	DefaultTagline      = "Safe Fish, Fair Price"
)

type Settings struct {
	ID                  snowflake.ID    `gorm:"primaryKey" json:"id"`
	ArotName            string          `gorm:"type:varchar(255);not null" json:"arot_name"`
	ArotLocation        string          `gorm:"type:varchar(255);not null" json:"arot_location"`
	Mobile              string          `gorm:"type:varchar(32)" json:"mobile"`
	Tagline             string          `gorm:"type:varchar(255)" json:"tagline"`
	Email               string          `gorm:"type:varchar(255)" json:"email"`
	LogoURL             string          `gorm:"column:logo_url;type:varchar(512)" json:"logo_url"`
	CommissionRate      decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"commission_rate"`
	PonaCommissionRate  decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"pona_commission_rate"`
	ShrimpDeductionRate decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"shrimp_deduction_rate"`
	FishDeductionRate   decimal.Decimal `gorm:"type:numeric(9,4);not null" json:"fish_deduction_rate"`
	UpdatedBy           string          `gorm:"type:varchar(255)" json:"updated_by,omitempty"`
	CreatedAt           time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"not null" json:"updated_at"`
}

func (Settings) TableName() string {
	return "arot_settings"
}
