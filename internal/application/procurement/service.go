package procurement

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/shared"
)

// Service handles purchase orders and their receipt into stock.
type Service struct {
	scope TransactionScope
}

// NewService creates a procurement service
func NewService(scope TransactionScope) *Service {
	return &Service{scope: scope}
}

// Create builds a draft order from a request
func (s *Service) Create(ctx context.Context, req CreateOrderRequest, actorID uuid.UUID) (*OrderResponse, error) {
	items := make([]procurement.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, procurement.OrderItem{
			TargetType:  procurement.ItemTargetType(item.TargetType),
			MaterialID:  item.MaterialID,
			FragranceID: item.FragranceID,
			Description: item.Description,
			Qty:         item.Qty,
			UnitPrice:   item.UnitPrice,
		})
	}
	order, err := procurement.NewOrder(req.SupplierName, req.Currency, req.ShippingCost, req.CustomsCost, items)
	if err != nil {
		return nil, err
	}
	order.Reference = req.Reference
	order.Notes = req.Notes

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudCreate, &actorID, "order", &order.ID,
			audit.Payload{"supplier": order.SupplierName, "items": len(order.Items)}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Place transitions an order from DRAFT to PLACED
func (s *Service) Place(ctx context.Context, orderID, actorID uuid.UUID) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		prevStatus := order.Status
		if err := order.Place(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudUpdate, &actorID, "order", &order.ID,
			audit.Payload{"status": string(order.Status)}).
			WithBefore(audit.Payload{"status": string(prevStatus)}))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Receive applies an order's stock effects atomically: allocate landed
// costs across the items, raise material stock with re-averaged costs,
// create one oil lot per oil line, and seal the order. The row lock plus
// the received_at guard make a duplicate call a no-op failure instead of
// a double credit.
func (s *Service) Receive(ctx context.Context, orderID, actorID uuid.UUID) (*ReceiveResponse, error) {
	var result *ReceiveResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.ReceivedAt != nil || order.Status == procurement.OrderStatusReceived {
			return shared.ErrInvalidOrderState
		}
		if order.Status != procurement.OrderStatusPlaced {
			return shared.ErrInvalidOrderState
		}

		if err := procurement.AllocateLandedCosts(order.Items, order.ShippingCost, order.CustomsCost); err != nil {
			return err
		}

		materialIDs := collectMaterialIDs(order.Items)
		materials, err := repos.Materials().FindForUpdateByIDs(ctx, materialIDs)
		if err != nil {
			return err
		}
		materialByID := make(map[uuid.UUID]*inventory.Material, len(materials))
		for i := range materials {
			materialByID[materials[i].ID] = &materials[i]
		}

		var (
			createdBatches   []uuid.UUID
			updatedMaterials []uuid.UUID
			touchedMaterials []*inventory.Material
		)
		for i := range order.Items {
			item := &order.Items[i]
			switch item.TargetType {
			case procurement.TargetMaterial:
				material, ok := materialByID[*item.MaterialID]
				if !ok {
					return shared.NewDomainErrorf("MATERIAL_NOT_FOUND", "Order line material %s does not exist", item.MaterialID)
				}
				if err := material.Receive(item.Qty, item.LandedUnitCost); err != nil {
					return err
				}
				touchedMaterials = append(touchedMaterials, material)
				updatedMaterials = append(updatedMaterials, material.ID)

			case procurement.TargetOilBatch:
				landedTotal := item.ItemValue().Add(item.AllocatedTotal())
				batch, err := inventory.NewOilBatch(
					*item.FragranceID, oilBatchBarcode(item.ID), item.Qty, landedTotal, &item.ID)
				if err != nil {
					return err
				}
				if err := repos.OilBatches().Save(ctx, batch); err != nil {
					return err
				}
				createdBatches = append(createdBatches, batch.ID)
			}
		}
		if err := repos.Materials().SaveAll(ctx, touchedMaterials); err != nil {
			return err
		}

		prevStatus := order.Status
		if err := order.MarkReceived(actorID); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		if err := repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionOrderReceive, &actorID, "order", &order.ID,
			audit.Payload{
				"supplier":        order.SupplierName,
				"status":          string(order.Status),
				"created_batches": len(createdBatches),
				"materials":       len(updatedMaterials),
			}).WithBefore(audit.Payload{"status": string(prevStatus)})); err != nil {
			return err
		}

		result = &ReceiveResponse{
			OrderID:          order.ID,
			ReceivedAt:       *order.ReceivedAt,
			CreatedBatchIDs:  createdBatches,
			UpdatedMaterials: updatedMaterials,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel abandons an order before receipt
func (s *Service) Cancel(ctx context.Context, orderID, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		prevStatus := order.Status
		if err := order.Cancel(); err != nil {
			return err
		}
		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudUpdate, &actorID, "order", &order.ID,
			audit.Payload{"status": string(order.Status)}).
			WithBefore(audit.Payload{"status": string(prevStatus)}))
	})
}

// Get returns one order with its items
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	var resp OrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		resp = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// List returns orders with pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]OrderResponse, int64, error) {
	var (
		orders []procurement.Order
		total  int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		orders, total, err = repos.Orders().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, total, nil
}

// collectMaterialIDs gathers the material references of an order's lines
// sorted ascending for a stable lock order.
func collectMaterialIDs(items []procurement.OrderItem) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0, len(items))
	for i := range items {
		if items[i].TargetType == procurement.TargetMaterial && items[i].MaterialID != nil && !seen[*items[i].MaterialID] {
			seen[*items[i].MaterialID] = true
			ids = append(ids, *items[i].MaterialID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// oilBatchBarcode derives a lot barcode from the receipt time and the order
// line it came from.
func oilBatchBarcode(orderItemID uuid.UUID) string {
	short := orderItemID.String()[:8]
	return fmt.Sprintf("OB%s-%s", time.Now().UTC().Format("20060102150405"), short)
}
