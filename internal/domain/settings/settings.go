package settings

import (
	"context"

	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SystemSettings is the single-row configuration record. There is exactly
// one row; Load callers receive defaults when it has never been saved.
type SystemSettings struct {
	shared.BaseEntity
	CompanyName              string          `gorm:"size:100;not null"`
	Currency                 string          `gorm:"size:3;not null;default:'EUR'"`
	QRBaseURL                string          `gorm:"size:255;not null"`
	PrintAgentURL            string          `gorm:"size:255"`
	DefaultLossFactorPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:2.0"`
}

// TableName returns the table name for GORM
func (SystemSettings) TableName() string {
	return "system_settings"
}

// Defaults returns the settings used before the row is first saved
func Defaults() *SystemSettings {
	return &SystemSettings{
		BaseEntity:               shared.NewBaseEntity(),
		CompanyName:              "LCREE",
		Currency:                 "EUR",
		QRBaseURL:                "https://lcree.example.com",
		DefaultLossFactorPercent: decimal.NewFromFloat(2.0),
	}
}

// Validate checks the settings are usable
func (s *SystemSettings) Validate() error {
	if s.CompanyName == "" {
		return shared.NewDomainError("INVALID_SETTINGS", "Company name cannot be empty")
	}
	if s.QRBaseURL == "" {
		return shared.NewDomainError("INVALID_SETTINGS", "QR base URL cannot be empty")
	}
	if s.DefaultLossFactorPercent.IsNegative() || s.DefaultLossFactorPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_SETTINGS", "Default loss factor must be between 0 and 100 percent")
	}
	return nil
}

// Repository loads and stores the settings singleton
type Repository interface {
	// Load returns the current settings, or Defaults() when none are stored.
	Load(ctx context.Context) (*SystemSettings, error)
	Save(ctx context.Context, s *SystemSettings) error
}
