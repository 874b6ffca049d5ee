package production

import (
	"context"

	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories a
// production commit touches. Everything inside Execute shares one database
// transaction and commits or rolls back atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	Fragrances() catalog.FragranceRepository
	Containers() catalog.ContainerRepository
	Recipes() catalog.RecipeRepository
	OilBatches() inventory.OilBatchRepository
	Materials() inventory.MaterialRepository
	Productions() production.ProductionRepository
	ProducedItems() production.ProducedItemRepository
	Usages() production.ComponentUsageRepository
	Sales() production.SaleRepository
	Audit() audit.Repository
}
