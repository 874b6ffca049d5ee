package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle status of a purchase order.
type OrderStatus string

const (
	// OrderStatusDraft means the order is being composed
	OrderStatusDraft OrderStatus = "DRAFT"
	// OrderStatusPlaced means the order has been sent to the supplier
	OrderStatusPlaced OrderStatus = "PLACED"
	// OrderStatusReceived means the goods arrived and stock was updated
	OrderStatusReceived OrderStatus = "RECEIVED"
	// OrderStatusCancelled means the order was abandoned before receipt
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPlaced, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// ItemTargetType says what kind of stock an order line lands in on receipt.
type ItemTargetType string

const (
	// TargetMaterial lines raise material stock and re-average its cost
	TargetMaterial ItemTargetType = "MATERIAL"
	// TargetOilBatch lines create one new oil lot each
	TargetOilBatch ItemTargetType = "OILBATCH"
)

// IsValid checks if the target type is valid
func (t ItemTargetType) IsValid() bool {
	return t == TargetMaterial || t == TargetOilBatch
}

// Order is a purchase order with its landed costs. ShippingCost and
// CustomsCost are allocated across the items proportionally to item value
// when the order is received; ReceivedAt doubles as the idempotency guard
// so a second receive call cannot double stock.
type Order struct {
	shared.BaseEntity
	SupplierName string          `gorm:"size:100;not null"`
	Reference    string          `gorm:"size:100"`
	Status       OrderStatus     `gorm:"size:10;not null;default:'DRAFT';index"`
	Currency     string          `gorm:"size:3;not null;default:'EUR'"`
	ShippingCost decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	CustomsCost  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PlacedAt     *time.Time
	ReceivedAt   *time.Time
	ReceivedBy   *uuid.UUID `gorm:"type:uuid"`
	Notes        string     `gorm:"type:text"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchase line. ItemValue (qty * unit_price) drives the
// landed-cost allocation; LandedUnitCost is filled in at receipt.
type OrderItem struct {
	shared.BaseEntity
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	TargetType        ItemTargetType  `gorm:"size:10;not null"`
	MaterialID        *uuid.UUID      `gorm:"type:uuid"` // set for MATERIAL targets
	FragranceID       *uuid.UUID      `gorm:"type:uuid"` // set for OILBATCH targets
	Description       string          `gorm:"size:255"`
	Qty               decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(10,4);not null"`
	AllocatedShipping decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	AllocatedCustoms  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	LandedUnitCost    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// ItemValue is qty times unit price before landed costs
func (i *OrderItem) ItemValue() decimal.Decimal {
	return i.Qty.Mul(i.UnitPrice)
}

// AllocatedTotal is the item's combined landed-cost share
func (i *OrderItem) AllocatedTotal() decimal.Decimal {
	return i.AllocatedShipping.Add(i.AllocatedCustoms)
}

// Validate checks the line references the right catalog entity for its target
func (i *OrderItem) Validate() error {
	if !i.TargetType.IsValid() {
		return shared.NewDomainErrorf("INVALID_TARGET", "Unknown order item target %q", i.TargetType)
	}
	if i.Qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Order item quantity must be positive")
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Order item price cannot be negative")
	}
	switch i.TargetType {
	case TargetMaterial:
		if i.MaterialID == nil || *i.MaterialID == uuid.Nil {
			return shared.NewDomainError("INVALID_TARGET", "Material order item must reference a material")
		}
	case TargetOilBatch:
		if i.FragranceID == nil || *i.FragranceID == uuid.Nil {
			return shared.NewDomainError("INVALID_TARGET", "Oil order item must reference a fragrance")
		}
	}
	return nil
}

// NewOrder creates a draft purchase order
func NewOrder(supplierName, currency string, shippingCost, customsCost decimal.Decimal, items []OrderItem) (*Order, error) {
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if shippingCost.IsNegative() || customsCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Landed costs cannot be negative")
	}
	if currency == "" {
		currency = "EUR"
	}
	order := &Order{
		BaseEntity:   shared.NewBaseEntity(),
		SupplierName: supplierName,
		Status:       OrderStatusDraft,
		Currency:     currency,
		ShippingCost: shippingCost,
		CustomsCost:  customsCost,
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, err
		}
		items[i].BaseEntity = shared.NewBaseEntity()
		items[i].OrderID = order.ID
	}
	order.Items = items
	return order, nil
}

// Place transitions DRAFT to PLACED
func (o *Order) Place() error {
	if o.Status != OrderStatusDraft {
		return shared.ErrInvalidOrderState
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot place an order with no items")
	}
	now := time.Now()
	o.Status = OrderStatusPlaced
	o.PlacedAt = &now
	o.UpdatedAt = now
	return nil
}

// MarkReceived seals the order after its stock effects were applied.
// A second call fails: ReceivedAt is the idempotency guard.
func (o *Order) MarkReceived(receivedBy uuid.UUID) error {
	if o.ReceivedAt != nil || o.Status == OrderStatusReceived {
		return shared.ErrInvalidOrderState
	}
	if o.Status != OrderStatusPlaced {
		return shared.ErrInvalidOrderState
	}
	now := time.Now()
	o.Status = OrderStatusReceived
	o.ReceivedAt = &now
	o.ReceivedBy = &receivedBy
	o.UpdatedAt = now
	return nil
}

// Cancel abandons an order that has not been received
func (o *Order) Cancel() error {
	if o.Status == OrderStatusReceived || o.Status == OrderStatusCancelled {
		return shared.ErrInvalidOrderState
	}
	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}
