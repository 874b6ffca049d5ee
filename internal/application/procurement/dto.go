package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the input for creating a purchase order
type CreateOrderRequest struct {
	SupplierName string             `json:"supplier_name" binding:"required,max=100"`
	Reference    string             `json:"reference" binding:"max=100"`
	Currency     string             `json:"currency" binding:"omitempty,len=3"`
	ShippingCost decimal.Decimal    `json:"shipping_cost"`
	CustomsCost  decimal.Decimal    `json:"customs_cost"`
	Notes        string             `json:"notes"`
	Items        []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest is one purchase line in a create request
type OrderItemRequest struct {
	TargetType  string          `json:"target_type" binding:"required,oneof=MATERIAL OILBATCH"`
	MaterialID  *uuid.UUID      `json:"material_id"`
	FragranceID *uuid.UUID      `json:"fragrance_id"`
	Description string          `json:"description" binding:"max=255"`
	Qty         decimal.Decimal `json:"qty" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// OrderItemResponse is one purchase line in API responses
type OrderItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	TargetType        string          `json:"target_type"`
	MaterialID        *uuid.UUID      `json:"material_id,omitempty"`
	FragranceID       *uuid.UUID      `json:"fragrance_id,omitempty"`
	Description       string          `json:"description"`
	Qty               decimal.Decimal `json:"qty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	AllocatedShipping decimal.Decimal `json:"allocated_shipping"`
	AllocatedCustoms  decimal.Decimal `json:"allocated_customs"`
	LandedUnitCost    decimal.Decimal `json:"landed_unit_cost"`
}

// OrderResponse is a purchase order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	SupplierName string              `json:"supplier_name"`
	Reference    string              `json:"reference"`
	Status       string              `json:"status"`
	Currency     string              `json:"currency"`
	ShippingCost decimal.Decimal     `json:"shipping_cost"`
	CustomsCost  decimal.Decimal     `json:"customs_cost"`
	PlacedAt     *time.Time          `json:"placed_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	Notes        string              `json:"notes"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *procurement.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemResponse{
			ID:                item.ID,
			TargetType:        string(item.TargetType),
			MaterialID:        item.MaterialID,
			FragranceID:       item.FragranceID,
			Description:       item.Description,
			Qty:               item.Qty,
			UnitPrice:         item.UnitPrice,
			AllocatedShipping: item.AllocatedShipping,
			AllocatedCustoms:  item.AllocatedCustoms,
			LandedUnitCost:    item.LandedUnitCost,
		})
	}
	return OrderResponse{
		ID:           o.ID,
		SupplierName: o.SupplierName,
		Reference:    o.Reference,
		Status:       string(o.Status),
		Currency:     o.Currency,
		ShippingCost: o.ShippingCost,
		CustomsCost:  o.CustomsCost,
		PlacedAt:     o.PlacedAt,
		ReceivedAt:   o.ReceivedAt,
		Notes:        o.Notes,
		Items:        items,
		CreatedAt:    o.CreatedAt,
	}
}

// ReceiveResponse summarizes the stock effects of receiving an order
type ReceiveResponse struct {
	OrderID          uuid.UUID   `json:"order_id"`
	ReceivedAt       time.Time   `json:"received_at"`
	CreatedBatchIDs  []uuid.UUID `json:"created_batch_ids"`
	UpdatedMaterials []uuid.UUID `json:"updated_material_ids"`
}
