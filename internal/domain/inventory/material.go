package inventory

import (
	"time"

	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialCategory classifies a stocked material.
type MaterialCategory string

const (
	MaterialCategoryAlcohol  MaterialCategory = "ALCOHOL"
	MaterialCategoryFixateur MaterialCategory = "FIXATEUR"
	MaterialCategoryWater    MaterialCategory = "WATER"
	MaterialCategoryBottle   MaterialCategory = "PACKAGING_BOTTLE"
	MaterialCategoryPart     MaterialCategory = "PACKAGING_PART"
	MaterialCategoryLabel    MaterialCategory = "PACKAGING_LABEL"
	MaterialCategoryBox      MaterialCategory = "PACKAGING_BOX"
	MaterialCategoryTool     MaterialCategory = "TOOL"
	MaterialCategoryOther    MaterialCategory = "OTHER"
)

// IsValid checks if the category is valid
func (c MaterialCategory) IsValid() bool {
	switch c {
	case MaterialCategoryAlcohol, MaterialCategoryFixateur, MaterialCategoryWater,
		MaterialCategoryBottle, MaterialCategoryPart, MaterialCategoryLabel,
		MaterialCategoryBox, MaterialCategoryTool, MaterialCategoryOther:
		return true
	}
	return false
}

// MaterialUnit is the stock-keeping unit of a material.
type MaterialUnit string

const (
	// MaterialUnitML measures liquids in milliliters
	MaterialUnitML MaterialUnit = "ML"
	// MaterialUnitPCS counts discrete pieces
	MaterialUnitPCS MaterialUnit = "PCS"
)

// Material is a fungible stocked item: alcohol, water, packaging parts,
// labels, tools. CostPerUnit is a moving weighted average updated on every
// receipt; StockQty never goes negative.
type Material struct {
	shared.BaseEntity
	shared.SoftDeletable
	Name         string           `gorm:"size:100;not null;index"`
	Category     MaterialCategory `gorm:"size:20;not null;index"`
	Unit         MaterialUnit     `gorm:"size:10;not null"`
	StockQty     decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	MinQty       decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	CostPerUnit  decimal.Decimal  `gorm:"type:decimal(10,4);not null;default:0"`
	SkuOrBarcode *string          `gorm:"size:100;uniqueIndex"`
	IsTracked    bool             `gorm:"not null;default:true"`
	CostIncluded bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new stocked material
func NewMaterial(name string, category MaterialCategory, unit MaterialUnit) (*Material, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Material name cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CATEGORY", "Unknown material category %q", category)
	}
	return &Material{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Category:   category,
		Unit:       unit,
		StockQty:   decimal.Zero,
		MinQty:     decimal.Zero,
	}, nil
}

// Receive adds qty units at unitCost and blends the cost basis into the
// moving weighted average:
// new_cost = (old_qty*old_cost + qty*unit_cost) / (old_qty + qty)
func (m *Material) Receive(qty, unitCost decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}
	m.CostPerUnit = WeightedAverageCost(m.StockQty, m.CostPerUnit, qty, unitCost)
	m.StockQty = m.StockQty.Add(qty)
	m.UpdatedAt = time.Now()
	return nil
}

// Consume deducts qty from stock. The caller must hold a row lock.
// Returns shared.ErrNegativeStock when qty exceeds the current stock;
// callers validate sufficiency first, so this is a defensive check.
func (m *Material) Consume(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}
	if qty.GreaterThan(m.StockQty) {
		return shared.ErrNegativeStock
	}
	m.StockQty = m.StockQty.Sub(qty)
	m.UpdatedAt = time.Now()
	return nil
}

// IsBelowMinimum returns true when stock has fallen under the reorder threshold
func (m *Material) IsBelowMinimum() bool {
	return m.MinQty.IsPositive() && m.StockQty.LessThan(m.MinQty)
}
