package persistence

import (
	"context"

	appcatalog "github.com/lcree/backend/internal/application/catalog"
	appinventory "github.com/lcree/backend/internal/application/inventory"
	approcurement "github.com/lcree/backend/internal/application/procurement"
	approduction "github.com/lcree/backend/internal/application/production"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/production"
	"gorm.io/gorm"
)

// txRepositories bundles every repository bound to one open transaction.
// Each application scope exposes the subset its interface asks for.
type txRepositories struct {
	fragrances    catalog.FragranceRepository
	containers    catalog.ContainerRepository
	recipes       catalog.RecipeRepository
	oilBatches    inventory.OilBatchRepository
	materials     inventory.MaterialRepository
	toolCheckouts inventory.ToolCheckoutRepository
	orders        procurement.OrderRepository
	productions   production.ProductionRepository
	producedItems production.ProducedItemRepository
	usages        production.ComponentUsageRepository
	sales         production.SaleRepository
	audit         audit.Repository
}

func newTxRepositories(tx *gorm.DB) *txRepositories {
	return &txRepositories{
		fragrances:    NewGormFragranceRepository(tx),
		containers:    NewGormContainerRepository(tx),
		recipes:       NewGormRecipeRepository(tx),
		oilBatches:    NewGormOilBatchRepository(tx),
		materials:     NewGormMaterialRepository(tx),
		toolCheckouts: NewGormToolCheckoutRepository(tx),
		orders:        NewGormOrderRepository(tx),
		productions:   NewGormProductionRepository(tx),
		producedItems: NewGormProducedItemRepository(tx),
		usages:        NewGormComponentUsageRepository(tx),
		sales:         NewGormSaleRepository(tx),
		audit:         NewGormAuditRepository(tx),
	}
}

func (r *txRepositories) Fragrances() catalog.FragranceRepository           { return r.fragrances }
func (r *txRepositories) Containers() catalog.ContainerRepository          { return r.containers }
func (r *txRepositories) Recipes() catalog.RecipeRepository                { return r.recipes }
func (r *txRepositories) OilBatches() inventory.OilBatchRepository         { return r.oilBatches }
func (r *txRepositories) Materials() inventory.MaterialRepository          { return r.materials }
func (r *txRepositories) ToolCheckouts() inventory.ToolCheckoutRepository  { return r.toolCheckouts }
func (r *txRepositories) Orders() procurement.OrderRepository              { return r.orders }
func (r *txRepositories) Productions() production.ProductionRepository     { return r.productions }
func (r *txRepositories) ProducedItems() production.ProducedItemRepository { return r.producedItems }
func (r *txRepositories) Usages() production.ComponentUsageRepository      { return r.usages }
func (r *txRepositories) Sales() production.SaleRepository                 { return r.sales }
func (r *txRepositories) Audit() audit.Repository                          { return r.audit }

// GormProductionTransactionScope runs production commits in one transaction.
type GormProductionTransactionScope struct {
	db *gorm.DB
}

var _ approduction.TransactionScope = (*GormProductionTransactionScope)(nil)

// NewGormProductionTransactionScope creates a production transaction scope
func NewGormProductionTransactionScope(db *gorm.DB) *GormProductionTransactionScope {
	return &GormProductionTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormProductionTransactionScope) Execute(ctx context.Context, fn func(repos approduction.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

// GormProcurementTransactionScope runs order receipts in one transaction.
type GormProcurementTransactionScope struct {
	db *gorm.DB
}

var _ approcurement.TransactionScope = (*GormProcurementTransactionScope)(nil)

// NewGormProcurementTransactionScope creates a procurement transaction scope
func NewGormProcurementTransactionScope(db *gorm.DB) *GormProcurementTransactionScope {
	return &GormProcurementTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormProcurementTransactionScope) Execute(ctx context.Context, fn func(repos approcurement.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

// GormInventoryTransactionScope runs stock operations in one transaction.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)

// NewGormInventoryTransactionScope creates an inventory transaction scope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinventory.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}

// GormCatalogTransactionScope runs catalog maintenance in one transaction.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

var _ appcatalog.TransactionScope = (*GormCatalogTransactionScope)(nil)

// NewGormCatalogTransactionScope creates a catalog transaction scope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newTxRepositories(tx))
	})
}
