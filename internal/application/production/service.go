package production

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/production"
	"github.com/lcree/backend/internal/domain/settings"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/lcree/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Printer sends label print jobs to the workshop print agent.
type Printer interface {
	PrintLabels(ctx context.Context, labels []Label) error
}

// Service orchestrates the production commit saga: validate everything,
// mutate all stock, write the ledger, mint item identifiers and the sale,
// all inside one transaction. Label printing happens strictly after commit.
type Service struct {
	scope        TransactionScope
	settingsRepo settings.Repository
	printer      Printer
}

// NewService creates a production service
func NewService(scope TransactionScope, settingsRepo settings.Repository, printer Printer) *Service {
	return &Service{
		scope:        scope,
		settingsRepo: settingsRepo,
		printer:      printer,
	}
}

// materialNeed pairs a locked material with its total requirement for a run.
type materialNeed struct {
	component catalog.RecipeComponent
	qtyNeeded decimal.Decimal
	material  *inventory.Material
}

// Commit executes a production run atomically. Either every stock deduction,
// ledger row, produced item and the sale land together, or nothing does.
func (s *Service) Commit(ctx context.Context, req CommitRequest, actorID uuid.UUID) (*CommitResponse, error) {
	if req.Qty <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Production quantity must be positive")
	}
	if len(req.OilBatchIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_CANDIDATES", "At least one candidate oil batch is required")
	}
	channel := production.SaleChannel(req.Channel)
	if req.Channel == "" {
		channel = production.SaleChannelDirect
	}

	sysSettings, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	var (
		result *CommitResponse
		labels []Label
	)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		fragrance, err := repos.Fragrances().FindByID(ctx, req.FragranceID)
		if err != nil {
			return err
		}
		container, err := repos.Containers().FindByID(ctx, req.ContainerID)
		if err != nil {
			return err
		}
		if !container.Active {
			return shared.NewDomainError("CONTAINER_INACTIVE", "Container is not active")
		}
		recipe, err := repos.Recipes().FindActiveByContainer(ctx, container.ID)
		if err != nil {
			return err
		}

		oilNeeded := container.OilRequiredFor(req.Qty)

		// Lock phase. The operator's candidate batches lock in ascending id
		// order, then materials in ascending id order, so concurrent commits
		// serialize cleanly. Lots outside the candidate set stay untouched.
		batches, err := repos.OilBatches().FindForUpdateByIDs(ctx, fragrance.ID, dedupeSorted(req.OilBatchIDs))
		if err != nil {
			return err
		}
		needs, err := lockMaterials(ctx, repos, recipe, req.Qty)
		if err != nil {
			return err
		}

		// Validate phase. Nothing is mutated until every requirement is
		// known to be satisfiable.
		oilAvailable := decimal.Zero
		for i := range batches {
			oilAvailable = oilAvailable.Add(batches[i].QtyML)
		}
		if oilAvailable.LessThan(oilNeeded) {
			return shared.NewInsufficientStockError(fragrance.Name, oilNeeded.String(), oilAvailable.String(), "ml")
		}
		for _, need := range needs {
			if need.material.StockQty.LessThan(need.qtyNeeded) {
				return shared.NewInsufficientStockError(
					need.material.Name, need.qtyNeeded.String(), need.material.StockQty.String(), string(need.material.Unit))
			}
		}

		run, err := production.NewProduction(
			fragrance.ID, container.ID, recipe.ID, req.Qty,
			container.LossFactorOilPercent, oilNeeded)
		if err != nil {
			return err
		}
		if err := run.MarkReady(); err != nil {
			return err
		}

		// Mutate phase: consume oil FIFO across batches, then materials.
		usages := make([]*production.ComponentUsage, 0, len(batches)+len(needs))
		costOil := decimal.Zero
		remaining := oilNeeded
		touchedBatches := make([]*inventory.OilBatch, 0, len(batches))
		batchCode := ""
		for i := range batches {
			if !remaining.IsPositive() {
				break
			}
			batch := &batches[i]
			take := decimal.Min(batch.QtyML, remaining)
			usage, err := production.NewComponentUsage(
				run.ID, inventory.NewOilBatchRef(batch.ID),
				take, "ML", batch.QtyML, batch.CostPerML)
			if err != nil {
				return err
			}
			if err := batch.Consume(take); err != nil {
				return err
			}
			usages = append(usages, usage)
			costOil = costOil.Add(usage.CostTotal)
			remaining = remaining.Sub(take)
			touchedBatches = append(touchedBatches, batch)
			if batchCode == "" {
				batchCode = batch.Barcode
			}
		}
		if remaining.IsPositive() {
			// Unreachable after validation; the transaction is the backstop.
			return shared.NewInsufficientStockError(fragrance.Name, oilNeeded.String(), oilAvailable.String(), "ml")
		}

		costMaterials := decimal.Zero
		touchedMaterials := make([]*inventory.Material, 0, len(needs))
		for _, need := range needs {
			usage, err := production.NewComponentUsage(
				run.ID, inventory.NewMaterialRef(need.material.ID),
				need.qtyNeeded, string(need.material.Unit),
				need.material.StockQty, need.material.CostPerUnit)
			if err != nil {
				return err
			}
			if err := need.material.Consume(need.qtyNeeded); err != nil {
				return err
			}
			usages = append(usages, usage)
			if need.material.CostIncluded {
				costMaterials = costMaterials.Add(usage.CostTotal)
			}
			touchedMaterials = append(touchedMaterials, need.material)
		}

		if err := repos.OilBatches().SaveAll(ctx, touchedBatches); err != nil {
			return err
		}
		if err := repos.Materials().SaveAll(ctx, touchedMaterials); err != nil {
			return err
		}

		if err := run.Complete(costOil, costMaterials, actorID); err != nil {
			return err
		}
		if err := repos.Productions().Save(ctx, run); err != nil {
			return err
		}
		if err := repos.Usages().InsertAll(ctx, usages); err != nil {
			return err
		}

		items, err := mintProducedItems(ctx, repos.ProducedItems(), run, container, sysSettings.QRBaseURL)
		if err != nil {
			return err
		}

		sale, err := production.NewSale(run.ID, channel, req.Qty, container.PriceRetail, run.CostTotal, &actorID)
		if err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		if err := repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionProductionCommit, &actorID, "production", &run.ID,
			audit.Payload{
				"fragrance_id": fragrance.ID.String(),
				"container_id": container.ID.String(),
				"qty":          req.Qty,
				"oil_used_ml":  oilNeeded.String(),
				"cost_total":   run.CostTotal.String(),
				"sale_id":      sale.ID.String(),
			})); err != nil {
			return err
		}
		if err := repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionSaleCommit, &actorID, "sale", &sale.ID,
			audit.Payload{
				"production_id": run.ID.String(),
				"qty":           req.Qty,
				"revenue":       sale.Revenue.String(),
				"cost_total":    sale.CostTotal.String(),
				"profit":        sale.Profit.String(),
			})); err != nil {
			return err
		}

		itemResponses := make([]ProducedItemResponse, 0, len(items))
		labels = labels[:0]
		for _, item := range items {
			itemResponses = append(itemResponses, ProducedItemResponse{
				UID:              item.UID,
				Serial:           item.Serial,
				UnitCostSnapshot: item.UnitCostSnapshot,
				PriceAtSale:      item.PriceAtSale,
				QRCodeURL:        item.QRCodeURL,
			})
			labels = append(labels, Label{
				UID:           item.UID,
				FragranceName: fragrance.Name,
				ContainerName: container.Name,
				BatchCode:     batchCode,
				ProducedAt:    *run.CommittedAt,
				QRURL:         item.QRCodeURL,
			})
		}

		result = &CommitResponse{
			ProductionID:  run.ID,
			SaleID:        sale.ID,
			ProducedItems: itemResponses,
			TotalCost:     run.CostTotal,
			TotalRevenue:  sale.Revenue,
			Profit:        sale.Profit,
			CommittedAt:   *run.CommittedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Printing is fire and forget, strictly after the commit. A failed print
	// never rolls back a committed run; the operator reprints instead.
	if s.printer != nil && len(labels) > 0 {
		go func(labels []Label) {
			printCtx := context.WithoutCancel(ctx)
			if err := s.printer.PrintLabels(printCtx, labels); err != nil {
				logger.L(printCtx).Warn("label print dispatch failed",
					zap.String("production_id", result.ProductionID.String()),
					zap.Int("labels", len(labels)),
					zap.Error(err))
			}
		}(labels)
	}

	return result, nil
}

// lockMaterials resolves the recipe's material components to total needs and
// locks the rows in ascending id order.
func lockMaterials(ctx context.Context, repos TransactionalRepositories, recipe *catalog.Recipe, qty int64) ([]materialNeed, error) {
	components := recipe.MaterialComponents()
	ids := make([]uuid.UUID, 0, len(components))
	needByID := make(map[uuid.UUID]materialNeed, len(components))
	for _, c := range components {
		if c.MaterialID == nil {
			return nil, shared.NewDomainError("INVALID_RECIPE", "Recipe component is missing its material")
		}
		id := *c.MaterialID
		need := needByID[id]
		need.component = c
		need.qtyNeeded = need.qtyNeeded.Add(c.QtyRequired.Mul(decimal.NewFromInt(qty)))
		needByID[id] = need
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	materials, err := repos.Materials().FindForUpdateByIDs(ctx, dedupe(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.Material, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	needs := make([]materialNeed, 0, len(needByID))
	for id, need := range needByID {
		material, ok := byID[id]
		if !ok {
			if need.component.Optional {
				continue
			}
			return nil, shared.NewDomainErrorf("MATERIAL_NOT_FOUND", "Recipe material %s does not exist", id)
		}
		need.material = material
		needs = append(needs, need)
	}
	sort.Slice(needs, func(i, j int) bool {
		return needs[i].material.ID.String() < needs[j].material.ID.String()
	})
	return needs, nil
}

// dedupeSorted copies the ids, sorts them ascending and removes duplicates,
// leaving the caller's slice untouched.
func dedupeSorted(ids []uuid.UUID) []uuid.UUID {
	out := append(make([]uuid.UUID, 0, len(ids)), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return dedupe(out)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := ids[:0]
	var prev uuid.UUID
	for i, id := range ids {
		if i == 0 || id != prev {
			out = append(out, id)
		}
		prev = id
	}
	return out
}

// mintProducedItems creates one row per unit with a fresh random UID,
// retrying on unique-constraint collisions up to the attempt cap.
func mintProducedItems(ctx context.Context, repo production.ProducedItemRepository, run *production.Production, container *catalog.Container, qrBaseURL string) ([]*production.ProducedItem, error) {
	unitCost := run.UnitCost()
	items := make([]*production.ProducedItem, 0, run.Qty)
	for serial := int64(1); serial <= run.Qty; serial++ {
		var inserted *production.ProducedItem
		for attempt := 0; attempt < production.UIDMaxInsertAttempts; attempt++ {
			uid, err := production.GenerateUID()
			if err != nil {
				return nil, err
			}
			item, err := production.NewProducedItem(
				run.ID, uid, serial, unitCost, container.PriceRetail,
				production.QRCodeURL(qrBaseURL, uid))
			if err != nil {
				return nil, err
			}
			if err := repo.Insert(ctx, item); err != nil {
				if errors.Is(err, shared.ErrAlreadyExists) {
					continue
				}
				return nil, err
			}
			inserted = item
			break
		}
		if inserted == nil {
			return nil, shared.ErrIdentifierExhausted
		}
		items = append(items, inserted)
	}
	return items, nil
}

// Get returns one production run with its ledger and items
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	var run *production.Production
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		p, err := repos.Productions().FindByID(ctx, id)
		if err != nil {
			return err
		}
		run = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns production runs with pagination
func (s *Service) List(ctx context.Context, filter shared.Filter) ([]ProductionResponse, int64, error) {
	var (
		runs  []production.Production
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		runs, total, err = repos.Productions().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductionResponse, 0, len(runs))
	for i := range runs {
		responses = append(responses, ToProductionResponse(&runs[i]))
	}
	return responses, total, nil
}

// ListSales returns sale records with pagination
func (s *Service) ListSales(ctx context.Context, filter shared.Filter) ([]SaleResponse, int64, error) {
	var (
		sales []production.Sale
		total int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sales, total, err = repos.Sales().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SaleResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, ToSaleResponse(&sales[i]))
	}
	return responses, total, nil
}

// GetItemByUID resolves a printed identifier to its produced item
func (s *Service) GetItemByUID(ctx context.Context, uid string) (*production.ProducedItem, error) {
	var item *production.ProducedItem
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		found, err := repos.ProducedItems().FindByUID(ctx, uid)
		if err != nil {
			return err
		}
		item = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
