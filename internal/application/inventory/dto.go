package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// OilBatchResponse is an oil lot in API responses
type OilBatchResponse struct {
	ID                  uuid.UUID                     `json:"id"`
	FragranceID         uuid.UUID                     `json:"fragrance_id"`
	Barcode             string                        `json:"barcode"`
	QtyML               decimal.Decimal               `json:"qty_ml"`
	CostTotal           decimal.Decimal               `json:"cost_total"`
	CostPerML           decimal.Decimal               `json:"cost_per_ml"`
	Status              string                        `json:"status"`
	ReceivedAt          time.Time                     `json:"received_at"`
	ExpiryDate          *time.Time                    `json:"expiry_date,omitempty"`
	TheoreticalVolumeML decimal.Decimal               `json:"theoretical_volume_ml"`
	MeasuredVolumeML    *decimal.Decimal              `json:"measured_volume_ml,omitempty"`
	LastVerifiedAt      *time.Time                    `json:"last_verified_at,omitempty"`
	Deviation           *inventory.ToleranceDeviation `json:"deviation,omitempty"`
}

// ToOilBatchResponse converts a domain oil batch to a response
func ToOilBatchResponse(b *inventory.OilBatch) OilBatchResponse {
	return OilBatchResponse{
		ID:                  b.ID,
		FragranceID:         b.FragranceID,
		Barcode:             b.Barcode,
		QtyML:               b.QtyML,
		CostTotal:           b.CostTotal,
		CostPerML:           b.CostPerML,
		Status:              string(b.Status),
		ReceivedAt:          b.ReceivedAt,
		ExpiryDate:          b.ExpiryDate,
		TheoreticalVolumeML: b.TheoreticalVolumeML,
		MeasuredVolumeML:    b.MeasuredVolumeML,
		LastVerifiedAt:      b.LastVerifiedAt,
		Deviation:           b.GetToleranceDeviation(),
	}
}

// MaterialResponse is a material in API responses
type MaterialResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Unit           string          `json:"unit"`
	StockQty       decimal.Decimal `json:"stock_qty"`
	MinQty         decimal.Decimal `json:"min_qty"`
	CostPerUnit    decimal.Decimal `json:"cost_per_unit"`
	SkuOrBarcode   *string         `json:"sku_or_barcode,omitempty"`
	IsTracked      bool            `json:"is_tracked"`
	CostIncluded   bool            `json:"cost_included"`
	IsBelowMinimum bool            `json:"is_below_minimum"`
}

// ToMaterialResponse converts a domain material to a response
func ToMaterialResponse(m *inventory.Material) MaterialResponse {
	return MaterialResponse{
		ID:             m.ID,
		Name:           m.Name,
		Category:       string(m.Category),
		Unit:           string(m.Unit),
		StockQty:       m.StockQty,
		MinQty:         m.MinQty,
		CostPerUnit:    m.CostPerUnit,
		SkuOrBarcode:   m.SkuOrBarcode,
		IsTracked:      m.IsTracked,
		CostIncluded:   m.CostIncluded,
		IsBelowMinimum: m.IsBelowMinimum(),
	}
}

// CreateMaterialRequest is the input for creating a material
type CreateMaterialRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Category     string          `json:"category" binding:"required"`
	Unit         string          `json:"unit" binding:"required,oneof=ML PCS"`
	MinQty       decimal.Decimal `json:"min_qty"`
	SkuOrBarcode *string         `json:"sku_or_barcode"`
}

// AdjustMaterialRequest corrects a material stock level after a physical count
type AdjustMaterialRequest struct {
	NewQty decimal.Decimal `json:"new_qty" binding:"required"`
	Reason string          `json:"reason" binding:"required,max=255"`
}

// CalibrateBatchRequest records a measured volume for an oil lot
type CalibrateBatchRequest struct {
	MeasuredVolumeML decimal.Decimal `json:"measured_volume_ml" binding:"required"`
}

// CheckoutToolRequest takes a tool out of the workshop
type CheckoutToolRequest struct {
	MaterialID uuid.UUID `json:"material_id" binding:"required"`
	Note       string    `json:"note" binding:"max=255"`
}

// ToolCheckoutResponse is a checkout record in API responses
type ToolCheckoutResponse struct {
	ID         uuid.UUID  `json:"id"`
	MaterialID uuid.UUID  `json:"material_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Note       string     `json:"note"`
	CheckedOut time.Time  `json:"checked_out"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// ToToolCheckoutResponse converts a domain checkout to a response
func ToToolCheckoutResponse(c *inventory.ToolCheckout) ToolCheckoutResponse {
	return ToolCheckoutResponse{
		ID:         c.ID,
		MaterialID: c.MaterialID,
		UserID:     c.UserID,
		Note:       c.Note,
		CheckedOut: c.CheckedOut,
		ReturnedAt: c.ReturnedAt,
	}
}
