package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionStatus is the lifecycle status of a production run.
type ProductionStatus string

const (
	// StatusDraft means the run has been created but not committed
	StatusDraft ProductionStatus = "DRAFT"
	// StatusReady means validation passed and stock mutation is in progress
	StatusReady ProductionStatus = "READY"
	// StatusDone means the run committed and its sale was recorded
	StatusDone ProductionStatus = "DONE"
	// StatusFailed means the commit was rolled back
	StatusFailed ProductionStatus = "FAILED"
)

// IsValid checks if the status is valid
func (s ProductionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusReady, StatusDone, StatusFailed:
		return true
	}
	return false
}

// Production is one committed run of filling containers with a fragrance.
// Cost fields and the loss factor are snapshots taken at commit time, so
// later catalog changes never rewrite a run's history.
type Production struct {
	shared.BaseEntity
	FragranceID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	ContainerID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	RecipeID                 uuid.UUID        `gorm:"type:uuid;not null"`
	Qty                      int64            `gorm:"not null"`
	Status                   ProductionStatus `gorm:"size:10;not null;default:'DRAFT';index"`
	LossFactorOilPercent     decimal.Decimal  `gorm:"type:decimal(5,2);not null"`
	OilRequiredML            decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	CostOilTotal             decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	CostMaterialsTotal       decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	CostTotal                decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0"`
	CommittedAt              *time.Time
	CommittedBy              *uuid.UUID `gorm:"type:uuid"`
	FailureReason            string     `gorm:"size:255"`

	ComponentUsages []ComponentUsage `gorm:"foreignKey:ProductionID;references:ID"`
	ProducedItems   []ProducedItem   `gorm:"foreignKey:ProductionID;references:ID"`
}

// TableName returns the table name for GORM
func (Production) TableName() string {
	return "productions"
}

// NewProduction creates a draft run. lossFactor and oilRequired are the
// commit-time snapshots computed from the container configuration.
func NewProduction(fragranceID, containerID, recipeID uuid.UUID, qty int64, lossFactor, oilRequiredML decimal.Decimal) (*Production, error) {
	if qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Production quantity must be positive")
	}
	if fragranceID == uuid.Nil || containerID == uuid.Nil || recipeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Fragrance, container and recipe are required")
	}
	return &Production{
		BaseEntity:           shared.NewBaseEntity(),
		FragranceID:          fragranceID,
		ContainerID:          containerID,
		RecipeID:             recipeID,
		Qty:                  qty,
		Status:               StatusDraft,
		LossFactorOilPercent: lossFactor,
		OilRequiredML:        oilRequiredML,
	}, nil
}

// MarkReady transitions DRAFT to READY once validation has passed
func (p *Production) MarkReady() error {
	if p.Status != StatusDraft {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot mark production %s ready from %s", p.ID, p.Status)
	}
	p.Status = StatusReady
	p.UpdatedAt = time.Now()
	return nil
}

// Complete transitions READY to DONE, sealing cost totals.
func (p *Production) Complete(costOil, costMaterials decimal.Decimal, committedBy uuid.UUID) error {
	if p.Status != StatusReady {
		return shared.NewDomainErrorf("INVALID_STATE", "Cannot complete production %s from %s", p.ID, p.Status)
	}
	now := time.Now()
	p.Status = StatusDone
	p.CostOilTotal = costOil
	p.CostMaterialsTotal = costMaterials
	p.CostTotal = costOil.Add(costMaterials)
	p.CommittedAt = &now
	p.CommittedBy = &committedBy
	p.UpdatedAt = now
	return nil
}

// Fail marks a run as rolled back with a reason
func (p *Production) Fail(reason string) {
	p.Status = StatusFailed
	p.FailureReason = reason
	p.UpdatedAt = time.Now()
}

// UnitCost returns the per-unit cost of a completed run
func (p *Production) UnitCost() decimal.Decimal {
	if p.Qty <= 0 {
		return decimal.Zero
	}
	return p.CostTotal.DivRound(decimal.NewFromInt(p.Qty), 4)
}
