package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleChannel is where a sale was made.
type SaleChannel string

const (
	SaleChannelDirect    SaleChannel = "DIRECT"
	SaleChannelShop      SaleChannel = "SHOP"
	SaleChannelWholesale SaleChannel = "WHOLESALE"
)

// IsValid checks if the channel is valid
func (c SaleChannel) IsValid() bool {
	switch c {
	case SaleChannelDirect, SaleChannelShop, SaleChannelWholesale:
		return true
	}
	return false
}

// Sale records the revenue side of a committed production run. Every commit
// creates exactly one sale in the same transaction; Revenue is qty times the
// container retail price at commit time.
type Sale struct {
	shared.BaseEntity
	ProductionID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Channel      SaleChannel     `gorm:"size:20;not null;default:'DIRECT'"`
	Qty          int64           `gorm:"not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Revenue      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Profit       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	SoldAt       time.Time       `gorm:"not null;index"`
	SoldBy       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates the sale record for a completed production run
func NewSale(productionID uuid.UUID, channel SaleChannel, qty int64, unitPrice, costTotal decimal.Decimal, soldBy *uuid.UUID) (*Sale, error) {
	if productionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCTION", "Production ID cannot be empty")
	}
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Sale quantity must be positive")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CHANNEL", "Unknown sale channel %q", channel)
	}
	revenue := unitPrice.Mul(decimal.NewFromInt(qty))
	return &Sale{
		BaseEntity:   shared.NewBaseEntity(),
		ProductionID: productionID,
		Channel:      channel,
		Qty:          qty,
		UnitPrice:    unitPrice,
		Revenue:      revenue,
		CostTotal:    costTotal,
		Profit:       revenue.Sub(costTotal),
		SoldAt:       time.Now(),
		SoldBy:       soldBy,
	}, nil
}
