package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
)

// Service handles stock operations outside the production path: material
// CRUD and adjustments, oil-lot calibration, tool checkouts, and the
// low-stock report.
type Service struct {
	scope TransactionScope
}

// NewService creates a stock service
func NewService(scope TransactionScope) *Service {
	return &Service{scope: scope}
}

// CreateMaterial registers a new stocked material
func (s *Service) CreateMaterial(ctx context.Context, req CreateMaterialRequest, actorID uuid.UUID) (*MaterialResponse, error) {
	material, err := inventory.NewMaterial(req.Name, inventory.MaterialCategory(req.Category), inventory.MaterialUnit(req.Unit))
	if err != nil {
		return nil, err
	}
	material.MinQty = req.MinQty
	material.SkuOrBarcode = req.SkuOrBarcode

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Materials().Save(ctx, material); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudCreate, &actorID, "material", &material.ID,
			audit.Payload{"name": material.Name, "category": string(material.Category)}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToMaterialResponse(material)
	return &resp, nil
}

// AdjustMaterial overwrites a material's stock level after a physical
// count. The delta and the reason go to the audit trail.
func (s *Service) AdjustMaterial(ctx context.Context, materialID uuid.UUID, req AdjustMaterialRequest, actorID uuid.UUID) (*MaterialResponse, error) {
	if req.NewQty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	var resp MaterialResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		materials, err := repos.Materials().FindForUpdateByIDs(ctx, []uuid.UUID{materialID})
		if err != nil {
			return err
		}
		if len(materials) == 0 {
			return shared.ErrNotFound
		}
		material := &materials[0]
		prevQty := material.StockQty
		delta := req.NewQty.Sub(prevQty)
		material.StockQty = req.NewQty
		if err := repos.Materials().Save(ctx, material); err != nil {
			return err
		}
		resp = ToMaterialResponse(material)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionMaterialAdjust, &actorID, "material", &material.ID,
			audit.Payload{
				"new_qty": req.NewQty.String(),
				"delta":   delta.String(),
				"reason":  req.Reason,
			}).WithBefore(audit.Payload{"stock_qty": prevQty.String()}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMaterial returns one material
func (s *Service) GetMaterial(ctx context.Context, materialID uuid.UUID) (*MaterialResponse, error) {
	var resp MaterialResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, err := repos.Materials().FindByID(ctx, materialID)
		if err != nil {
			return err
		}
		resp = ToMaterialResponse(material)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteMaterial soft-deletes a material. Historical component usages keep
// pointing at the row; only new recipes and adjustments stop seeing it.
func (s *Service) DeleteMaterial(ctx context.Context, materialID, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, err := repos.Materials().FindByID(ctx, materialID)
		if err != nil {
			return err
		}
		material.SoftDelete(actorID)
		if err := repos.Materials().Save(ctx, material); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudDelete, &actorID, "material", &material.ID,
			audit.Payload{"deleted": true}).
			WithBefore(audit.Payload{"name": material.Name}))
	})
}

// ListMaterials returns materials with pagination
func (s *Service) ListMaterials(ctx context.Context, filter shared.Filter) ([]MaterialResponse, int64, error) {
	var (
		materials []inventory.Material
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		materials, total, err = repos.Materials().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		responses = append(responses, ToMaterialResponse(&materials[i]))
	}
	return responses, total, nil
}

// LowStockReport lists tracked materials under their reorder threshold
func (s *Service) LowStockReport(ctx context.Context) ([]MaterialResponse, error) {
	var materials []inventory.Material
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		materials, err = repos.Materials().FindBelowMinimum(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	responses := make([]MaterialResponse, 0, len(materials))
	for i := range materials {
		responses = append(responses, ToMaterialResponse(&materials[i]))
	}
	return responses, nil
}

// GetBatch returns one oil lot
func (s *Service) GetBatch(ctx context.Context, batchID uuid.UUID) (*OilBatchResponse, error) {
	var resp OilBatchResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.OilBatches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		resp = ToOilBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetBatchByBarcode resolves a scanned lot barcode
func (s *Service) GetBatchByBarcode(ctx context.Context, barcode string) (*OilBatchResponse, error) {
	var resp OilBatchResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.OilBatches().FindByBarcode(ctx, barcode)
		if err != nil {
			return err
		}
		resp = ToOilBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListBatches returns oil lots with pagination
func (s *Service) ListBatches(ctx context.Context, filter shared.Filter) ([]OilBatchResponse, int64, error) {
	var (
		batches []inventory.OilBatch
		total   int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		batches, total, err = repos.OilBatches().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OilBatchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, ToOilBatchResponse(&batches[i]))
	}
	return responses, total, nil
}

// CalibrateBatch records a physical volume measurement for an oil lot and
// returns the lot with its deviation report.
func (s *Service) CalibrateBatch(ctx context.Context, batchID uuid.UUID, req CalibrateBatchRequest, actorID uuid.UUID) (*OilBatchResponse, error) {
	var resp OilBatchResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.OilBatches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		prevQty := batch.QtyML
		if err := batch.Calibrate(req.MeasuredVolumeML); err != nil {
			return err
		}
		if err := repos.OilBatches().Save(ctx, batch); err != nil {
			return err
		}
		resp = ToOilBatchResponse(batch)
		payload := audit.Payload{
			"barcode":     batch.Barcode,
			"measured_ml": req.MeasuredVolumeML.String(),
		}
		if resp.Deviation != nil {
			payload["deviation_percent"] = resp.Deviation.DeviationPercent.String()
			payload["within_tolerance"] = resp.Deviation.WithinTolerance
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionBatchAdjustment, &actorID, "oil_batch", &batch.ID, payload).
			WithBefore(audit.Payload{"qty_ml": prevQty.String()}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetBatchLock withholds an oil lot from production or releases it
func (s *Service) SetBatchLock(ctx context.Context, batchID uuid.UUID, locked bool, actorID uuid.UUID) (*OilBatchResponse, error) {
	var resp OilBatchResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		batch, err := repos.OilBatches().FindByID(ctx, batchID)
		if err != nil {
			return err
		}
		prevStatus := batch.Status
		if locked {
			batch.Lock()
		} else {
			batch.Unlock()
		}
		if err := repos.OilBatches().Save(ctx, batch); err != nil {
			return err
		}
		resp = ToOilBatchResponse(batch)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionBatchAdjustment, &actorID, "oil_batch", &batch.ID,
			audit.Payload{"barcode": batch.Barcode, "status": string(batch.Status)}).
			WithBefore(audit.Payload{"status": string(prevStatus)}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CheckoutTool records a TOOL-category material leaving the workshop.
// A tool can have at most one open checkout.
func (s *Service) CheckoutTool(ctx context.Context, req CheckoutToolRequest, actorID uuid.UUID) (*ToolCheckoutResponse, error) {
	var resp ToolCheckoutResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		material, err := repos.Materials().FindByID(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		if material.Category != inventory.MaterialCategoryTool {
			return shared.NewDomainErrorf("NOT_A_TOOL", "Material %q is not a tool", material.Name)
		}
		if _, err := repos.ToolCheckouts().FindOpenByMaterial(ctx, material.ID); err == nil {
			return shared.NewDomainErrorf("TOOL_CHECKED_OUT", "Tool %q is already checked out", material.Name)
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		checkout, err := inventory.NewToolCheckout(material.ID, actorID, req.Note)
		if err != nil {
			return err
		}
		if err := repos.ToolCheckouts().Save(ctx, checkout); err != nil {
			return err
		}
		resp = ToToolCheckoutResponse(checkout)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionToolCheckout, &actorID, "tool_checkout", &checkout.ID,
			audit.Payload{"material": material.Name, "note": req.Note}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReturnTool closes the open checkout of a tool
func (s *Service) ReturnTool(ctx context.Context, materialID, actorID uuid.UUID) (*ToolCheckoutResponse, error) {
	var resp ToolCheckoutResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		checkout, err := repos.ToolCheckouts().FindOpenByMaterial(ctx, materialID)
		if err != nil {
			return err
		}
		if err := checkout.Return(); err != nil {
			return err
		}
		if err := repos.ToolCheckouts().Save(ctx, checkout); err != nil {
			return err
		}
		resp = ToToolCheckoutResponse(checkout)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionToolReturn, &actorID, "tool_checkout", &checkout.ID,
			audit.Payload{"material_id": materialID.String()}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCheckouts returns checkout records with pagination
func (s *Service) ListCheckouts(ctx context.Context, filter shared.Filter) ([]ToolCheckoutResponse, int64, error) {
	var (
		checkouts []inventory.ToolCheckout
		total     int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		checkouts, total, err = repos.ToolCheckouts().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ToolCheckoutResponse, 0, len(checkouts))
	for i := range checkouts {
		responses = append(responses, ToToolCheckoutResponse(&checkouts[i]))
	}
	return responses, total, nil
}
