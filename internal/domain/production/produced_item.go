package production

import (
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProducedItem is one physical unit that came out of a production run.
// UID is the globally unique printable identifier; Serial is the 1-based
// position within the run. UnitCostSnapshot and PriceAtSale are frozen at
// commit time.
type ProducedItem struct {
	shared.BaseEntity
	ProductionID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UID              string          `gorm:"size:10;not null;uniqueIndex"`
	Serial           int64           `gorm:"not null"`
	UnitCostSnapshot decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	PriceAtSale      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	QRCodeURL        string          `gorm:"size:255;not null"`
}

// TableName returns the table name for GORM
func (ProducedItem) TableName() string {
	return "produced_items"
}

// NewProducedItem creates one unit of a production run
func NewProducedItem(productionID uuid.UUID, uid string, serial int64, unitCost, priceAtSale decimal.Decimal, qrCodeURL string) (*ProducedItem, error) {
	if productionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCTION", "Production ID cannot be empty")
	}
	if len(uid) != UIDLength {
		return nil, shared.NewDomainErrorf("INVALID_UID", "UID must be %d characters, got %d", UIDLength, len(uid))
	}
	if serial <= 0 {
		return nil, shared.NewDomainError("INVALID_SERIAL", "Serial must be positive")
	}
	return &ProducedItem{
		BaseEntity:       shared.NewBaseEntity(),
		ProductionID:     productionID,
		UID:              uid,
		Serial:           serial,
		UnitCostSnapshot: unitCost,
		PriceAtSale:      priceAtSale,
		QRCodeURL:        qrCodeURL,
	}, nil
}
