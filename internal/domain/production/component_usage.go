package production

import (
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentUsage is one append-only ledger row recording what a production
// run consumed from a single stock resource. BeforeStock and AfterStock are
// captured inside the same transaction as the deduction, so the ledger
// reconstructs the full stock movement without joins.
type ComponentUsage struct {
	shared.BaseEntity
	ProductionID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Resource      inventory.ResourceRef `gorm:"embedded;embeddedPrefix:resource_"`
	QtyUsed       decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	Unit          string                `gorm:"size:10;not null"`
	BeforeStock   decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	AfterStock    decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	UnitCostAtUse decimal.Decimal       `gorm:"type:decimal(10,4);not null"`
	CostTotal     decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (ComponentUsage) TableName() string {
	return "production_component_usages"
}

// NewComponentUsage records one stock deduction.
func NewComponentUsage(productionID uuid.UUID, resource inventory.ResourceRef, qtyUsed decimal.Decimal, unit string, beforeStock, unitCostAtUse decimal.Decimal) (*ComponentUsage, error) {
	if productionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCTION", "Production ID cannot be empty")
	}
	if err := resource.Validate(); err != nil {
		return nil, err
	}
	if qtyUsed.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Usage quantity must be positive")
	}
	after := beforeStock.Sub(qtyUsed)
	if after.IsNegative() {
		return nil, shared.ErrNegativeStock
	}
	return &ComponentUsage{
		BaseEntity:    shared.NewBaseEntity(),
		ProductionID:  productionID,
		Resource:      resource,
		QtyUsed:       qtyUsed,
		Unit:          unit,
		BeforeStock:   beforeStock,
		AfterStock:    after,
		UnitCostAtUse: unitCostAtUse,
		CostTotal:     qtyUsed.Mul(unitCostAtUse).Round(2),
	}, nil
}
