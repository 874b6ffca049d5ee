package catalog

import (
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContainerType classifies the finished-good format a container produces.
type ContainerType string

const (
	ContainerTypeParfum    ContainerType = "PARFUM"
	ContainerTypeRoomSpray ContainerType = "ROOM_SPRAY"
	ContainerTypeColonia   ContainerType = "COLONIA"
	ContainerTypeCarSpray  ContainerType = "CAR_SPRAY"
	ContainerTypeOilPure   ContainerType = "OIL_PURE"
	ContainerTypeAccessory ContainerType = "ACCESSORY"
)

// IsValid checks if the container type is valid
func (t ContainerType) IsValid() bool {
	switch t {
	case ContainerTypeParfum, ContainerTypeRoomSpray, ContainerTypeColonia,
		ContainerTypeCarSpray, ContainerTypeOilPure, ContainerTypeAccessory:
		return true
	}
	return false
}

// Container describes one sellable bottle/format: its fill volume, retail
// price and the oil loss factor applied during production. The loss factor
// is snapshotted onto each Production so later configuration changes do not
// rewrite history.
type Container struct {
	shared.BaseEntity
	shared.SoftDeletable
	Name                 string          `gorm:"size:100;not null"`
	Type                 ContainerType   `gorm:"size:20;not null;index"`
	FillVolumeML         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Barcode              string          `gorm:"size:100;not null;uniqueIndex"`
	PriceRetail          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LossFactorOilPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:2.0"`
	Active               bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Container) TableName() string {
	return "containers"
}

// NewContainer creates a new container configuration
func NewContainer(name string, containerType ContainerType, fillVolumeML, priceRetail, lossFactorOilPercent decimal.Decimal, barcode string) (*Container, error) {
	if !containerType.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_CONTAINER_TYPE", "Unknown container type %q", containerType)
	}
	if fillVolumeML.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_VOLUME", "Fill volume must be positive")
	}
	if lossFactorOilPercent.IsNegative() || lossFactorOilPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_LOSS_FACTOR", "Loss factor must be between 0 and 100 percent")
	}
	return &Container{
		BaseEntity:           shared.NewBaseEntity(),
		Name:                 name,
		Type:                 containerType,
		FillVolumeML:         fillVolumeML,
		Barcode:              barcode,
		PriceRetail:          priceRetail,
		LossFactorOilPercent: lossFactorOilPercent,
		Active:               true,
	}, nil
}

// OilRequiredFor returns the oil volume in ml needed to fill qty units of
// this container, including the loss factor overhead:
// fill_volume * (1 + loss_factor/100) * qty
func (c *Container) OilRequiredFor(qty int64) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(c.LossFactorOilPercent.Div(decimal.NewFromInt(100)))
	return c.FillVolumeML.Mul(factor).Mul(decimal.NewFromInt(qty))
}
