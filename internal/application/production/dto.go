package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// CommitRequest is the input for committing a production run. OilBatchIDs
// is the candidate set the operator offers the run; lots left out, for
// example a physically quarantined one, are never touched.
type CommitRequest struct {
	FragranceID uuid.UUID   `json:"fragrance_id" binding:"required"`
	ContainerID uuid.UUID   `json:"container_id" binding:"required"`
	Qty         int64       `json:"qty" binding:"required,min=1"`
	OilBatchIDs []uuid.UUID `json:"oil_batch_ids" binding:"required,min=1"`
	Channel     string      `json:"channel" binding:"omitempty,oneof=DIRECT SHOP WHOLESALE"`
}

// ProducedItemResponse is one produced unit in API responses
type ProducedItemResponse struct {
	UID              string          `json:"uid"`
	Serial           int64           `json:"serial"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot"`
	PriceAtSale      decimal.Decimal `json:"price_at_sale"`
	QRCodeURL        string          `json:"qr_code_url"`
}

// CommitResponse is the result of a committed production run
type CommitResponse struct {
	ProductionID  uuid.UUID              `json:"production_id"`
	SaleID        uuid.UUID              `json:"sale_id"`
	ProducedItems []ProducedItemResponse `json:"produced_items"`
	TotalCost     decimal.Decimal        `json:"total_cost"`
	TotalRevenue  decimal.Decimal        `json:"total_revenue"`
	Profit        decimal.Decimal        `json:"profit"`
	CommittedAt   time.Time              `json:"committed_at"`
}

// ProductionResponse is a production run in listings
type ProductionResponse struct {
	ID                   uuid.UUID       `json:"id"`
	FragranceID          uuid.UUID       `json:"fragrance_id"`
	ContainerID          uuid.UUID       `json:"container_id"`
	Qty                  int64           `json:"qty"`
	Status               string          `json:"status"`
	LossFactorOilPercent decimal.Decimal `json:"loss_factor_oil_percent"`
	OilRequiredML        decimal.Decimal `json:"oil_required_ml"`
	CostOilTotal         decimal.Decimal `json:"cost_oil_total"`
	CostMaterialsTotal   decimal.Decimal `json:"cost_materials_total"`
	CostTotal            decimal.Decimal `json:"cost_total"`
	CommittedAt          *time.Time      `json:"committed_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToProductionResponse converts a domain production run to a response
func ToProductionResponse(p *production.Production) ProductionResponse {
	return ProductionResponse{
		ID:                   p.ID,
		FragranceID:          p.FragranceID,
		ContainerID:          p.ContainerID,
		Qty:                  p.Qty,
		Status:               string(p.Status),
		LossFactorOilPercent: p.LossFactorOilPercent,
		OilRequiredML:        p.OilRequiredML,
		CostOilTotal:         p.CostOilTotal,
		CostMaterialsTotal:   p.CostMaterialsTotal,
		CostTotal:            p.CostTotal,
		CommittedAt:          p.CommittedAt,
		CreatedAt:            p.CreatedAt,
	}
}

// SaleResponse is a sale record in listings
type SaleResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductionID uuid.UUID       `json:"production_id"`
	Channel      string          `json:"channel"`
	Qty          int64           `json:"qty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Revenue      decimal.Decimal `json:"revenue"`
	CostTotal    decimal.Decimal `json:"cost_total"`
	Profit       decimal.Decimal `json:"profit"`
	SoldAt       time.Time       `json:"sold_at"`
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(s *production.Sale) SaleResponse {
	return SaleResponse{
		ID:           s.ID,
		ProductionID: s.ProductionID,
		Channel:      string(s.Channel),
		Qty:          s.Qty,
		UnitPrice:    s.UnitPrice,
		Revenue:      s.Revenue,
		CostTotal:    s.CostTotal,
		Profit:       s.Profit,
		SoldAt:       s.SoldAt,
	}
}

// ComponentUsageResponse is one consumption ledger row of a run
type ComponentUsageResponse struct {
	ResourceKind  string          `json:"resource_kind"`
	ResourceID    uuid.UUID       `json:"resource_id"`
	QtyUsed       decimal.Decimal `json:"qty_used"`
	Unit          string          `json:"unit"`
	BeforeStock   decimal.Decimal `json:"before_stock"`
	AfterStock    decimal.Decimal `json:"after_stock"`
	UnitCostAtUse decimal.Decimal `json:"unit_cost_at_use"`
	CostTotal     decimal.Decimal `json:"cost_total"`
}

// ProductionDetailResponse is a single run with its consumption ledger
// and produced units
type ProductionDetailResponse struct {
	ProductionResponse
	Usages []ComponentUsageResponse `json:"usages"`
	Items  []ProducedItemResponse   `json:"items"`
}

// ToProducedItemResponse converts one produced unit to a response
func ToProducedItemResponse(it *production.ProducedItem) ProducedItemResponse {
	return ProducedItemResponse{
		UID:              it.UID,
		Serial:           it.Serial,
		UnitCostSnapshot: it.UnitCostSnapshot,
		PriceAtSale:      it.PriceAtSale,
		QRCodeURL:        it.QRCodeURL,
	}
}

// ToProductionDetailResponse converts a run with preloaded associations
func ToProductionDetailResponse(p *production.Production) ProductionDetailResponse {
	detail := ProductionDetailResponse{
		ProductionResponse: ToProductionResponse(p),
		Usages:             make([]ComponentUsageResponse, 0, len(p.ComponentUsages)),
		Items:              make([]ProducedItemResponse, 0, len(p.ProducedItems)),
	}
	for i := range p.ComponentUsages {
		u := &p.ComponentUsages[i]
		detail.Usages = append(detail.Usages, ComponentUsageResponse{
			ResourceKind:  string(u.Resource.Kind),
			ResourceID:    u.Resource.ID,
			QtyUsed:       u.QtyUsed,
			Unit:          u.Unit,
			BeforeStock:   u.BeforeStock,
			AfterStock:    u.AfterStock,
			UnitCostAtUse: u.UnitCostAtUse,
			CostTotal:     u.CostTotal,
		})
	}
	for i := range p.ProducedItems {
		detail.Items = append(detail.Items, ToProducedItemResponse(&p.ProducedItems[i]))
	}
	return detail
}

// Label is the payload sent to the print agent for one produced item
type Label struct {
	UID           string    `json:"uid"`
	FragranceName string    `json:"fragrance_name"`
	ContainerName string    `json:"container_name"`
	BatchCode     string    `json:"batch_code"`
	ProducedAt    time.Time `json:"produced_at"`
	QRURL         string    `json:"qr_url"`
}
