package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OilBatchStatus is the lifecycle status of an oil lot.
type OilBatchStatus string

const (
	// OilBatchStatusAvailable means the batch can be consumed by production
	OilBatchStatusAvailable OilBatchStatus = "AVAILABLE"
	// OilBatchStatusLocked means the batch is withheld from production
	OilBatchStatusLocked OilBatchStatus = "LOCKED"
	// OilBatchStatusExhausted means the batch has no remaining volume
	OilBatchStatusExhausted OilBatchStatus = "EXHAUSTED"
)

// IsValid checks if the status is valid
func (s OilBatchStatus) IsValid() bool {
	switch s {
	case OilBatchStatusAvailable, OilBatchStatusLocked, OilBatchStatusExhausted:
		return true
	}
	return false
}

// OilBatch is one physical lot of fragrance oil. Remaining volume and the
// cost basis move together: CostPerML is always CostTotal / original volume
// basis recomputed whenever either side changes, and the status flips to
// EXHAUSTED exactly when QtyML reaches zero.
type OilBatch struct {
	shared.BaseEntity
	shared.SoftDeletable
	FragranceID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Barcode             string          `gorm:"size:100;not null;uniqueIndex"`
	QtyML               decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostTotal           decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CostPerML           decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	Status              OilBatchStatus  `gorm:"size:20;not null;default:'AVAILABLE';index"`
	OrderItemID         *uuid.UUID      `gorm:"type:uuid"` // purchase-order line this lot came from
	ReceivedAt          time.Time       `gorm:"not null;index"`
	ExpiryDate          *time.Time
	TheoreticalVolumeML decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	MeasuredVolumeML    *decimal.Decimal `gorm:"type:decimal(10,2)"`
	TolerancePercent    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:3.0"`
	LastVerifiedAt      *time.Time
}

// TableName returns the table name for GORM
func (OilBatch) TableName() string {
	return "oil_batches"
}

// NewOilBatch creates a new oil lot. Cost per ml is derived from the total.
func NewOilBatch(fragranceID uuid.UUID, barcode string, qtyML, costTotal decimal.Decimal, orderItemID *uuid.UUID) (*OilBatch, error) {
	if fragranceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FRAGRANCE", "Fragrance ID cannot be empty")
	}
	if qtyML.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch volume must be positive")
	}
	if costTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Batch cost cannot be negative")
	}
	b := &OilBatch{
		BaseEntity:          shared.NewBaseEntity(),
		FragranceID:         fragranceID,
		Barcode:             barcode,
		QtyML:               qtyML,
		CostTotal:           costTotal,
		Status:              OilBatchStatusAvailable,
		OrderItemID:         orderItemID,
		ReceivedAt:          time.Now(),
		TheoreticalVolumeML: qtyML,
		TolerancePercent:    decimal.NewFromFloat(3.0),
	}
	b.recomputeCostPerML()
	return b, nil
}

// recomputeCostPerML keeps the derived unit cost in sync with totals.
func (b *OilBatch) recomputeCostPerML() {
	if b.QtyML.IsPositive() {
		b.CostPerML = b.CostTotal.DivRound(b.QtyML, 4)
	}
}

// IsAvailable returns true if the batch can be consumed
func (b *OilBatch) IsAvailable() bool {
	return b.Status == OilBatchStatusAvailable && !b.IsDeleted() && b.QtyML.IsPositive()
}

// Consume deducts amountML from the batch. The caller must hold a row lock.
// Returns shared.ErrNegativeStock when the amount exceeds the remaining
// volume; sufficiency is expected to be validated up front, so hitting this
// indicates a logic bug upstream.
func (b *OilBatch) Consume(amountML decimal.Decimal) error {
	if b.Status != OilBatchStatusAvailable {
		return shared.NewDomainErrorf("INVALID_STATE", "Oil batch %s is not available", b.Barcode)
	}
	if amountML.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumption amount must be positive")
	}
	if amountML.GreaterThan(b.QtyML) {
		return shared.ErrNegativeStock
	}
	// The cost basis of the consumed volume leaves with it, so CostPerML
	// stays constant across consumption.
	b.CostTotal = b.CostTotal.Sub(amountML.Mul(b.CostPerML))
	b.QtyML = b.QtyML.Sub(amountML)
	if b.QtyML.IsZero() {
		b.Status = OilBatchStatusExhausted
		b.CostTotal = decimal.Zero
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Lock withholds an available batch from production
func (b *OilBatch) Lock() {
	if b.Status == OilBatchStatusAvailable {
		b.Status = OilBatchStatusLocked
		b.UpdatedAt = time.Now()
	}
}

// Unlock releases a locked batch back to production
func (b *OilBatch) Unlock() {
	if b.Status == OilBatchStatusLocked {
		b.Status = OilBatchStatusAvailable
		b.UpdatedAt = time.Now()
	}
}

// Calibrate records a measured volume against the theoretical one.
func (b *OilBatch) Calibrate(measuredML decimal.Decimal) error {
	if measuredML.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Measured volume must be positive")
	}
	now := time.Now()
	b.MeasuredVolumeML = &measuredML
	b.LastVerifiedAt = &now
	b.UpdatedAt = now
	return nil
}

// ToleranceDeviation reports how far the measured volume deviates from the
// theoretical one. Returns nil when the batch has never been calibrated.
type ToleranceDeviation struct {
	DeviationML      decimal.Decimal `json:"deviation_ml"`
	DeviationPercent decimal.Decimal `json:"deviation_percent"`
	WithinTolerance  bool            `json:"within_tolerance"`
}

// GetToleranceDeviation computes the calibration deviation report
func (b *OilBatch) GetToleranceDeviation() *ToleranceDeviation {
	if b.MeasuredVolumeML == nil || !b.TheoreticalVolumeML.IsPositive() {
		return nil
	}
	deviation := b.MeasuredVolumeML.Sub(b.TheoreticalVolumeML).Abs()
	percent := deviation.Div(b.TheoreticalVolumeML).Mul(decimal.NewFromInt(100)).Round(2)
	return &ToleranceDeviation{
		DeviationML:      deviation,
		DeviationPercent: percent,
		WithinTolerance:  percent.LessThanOrEqual(b.TolerancePercent),
	}
}
