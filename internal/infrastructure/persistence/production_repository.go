package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/production"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductionRepository implements production.ProductionRepository using GORM
type GormProductionRepository struct {
	db *gorm.DB
}

// NewGormProductionRepository creates a new GormProductionRepository
func NewGormProductionRepository(db *gorm.DB) *GormProductionRepository {
	return &GormProductionRepository{db: db}
}

// FindByID finds a production run with its usages and items
func (r *GormProductionRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Production, error) {
	var p production.Production
	err := r.db.WithContext(ctx).
		Preload("ComponentUsages").
		Preload("ProducedItems").
		First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll returns production runs with pagination
func (r *GormProductionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Production, int64, error) {
	query := r.db.WithContext(ctx).Model(&production.Production{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if fragranceID, ok := filter.Filters["fragrance_id"]; ok {
		query = query.Where("fragrance_id = ?", fragranceID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []production.Production
	err := paginate(query.Order(orderClause(filter, "committed_at", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a production run
func (r *GormProductionRepository) Save(ctx context.Context, p *production.Production) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// GormProducedItemRepository implements production.ProducedItemRepository using GORM
type GormProducedItemRepository struct {
	db *gorm.DB
}

// NewGormProducedItemRepository creates a new GormProducedItemRepository
func NewGormProducedItemRepository(db *gorm.DB) *GormProducedItemRepository {
	return &GormProducedItemRepository{db: db}
}

// FindByUID finds a produced item by its printed identifier
func (r *GormProducedItemRepository) FindByUID(ctx context.Context, uid string) (*production.ProducedItem, error) {
	var item production.ProducedItem
	if err := r.db.WithContext(ctx).First(&item, "uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByProduction returns all items of a run ordered by serial
func (r *GormProducedItemRepository) FindByProduction(ctx context.Context, productionID uuid.UUID) ([]production.ProducedItem, error) {
	var items []production.ProducedItem
	err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Order("serial ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindAll returns produced items with pagination
func (r *GormProducedItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProducedItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&production.ProducedItem{})
	if productionID, ok := filter.Filters["production_id"]; ok {
		query = query.Where("production_id = ?", productionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []production.ProducedItem
	err := paginate(query.Order(orderClause(filter, "serial", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Insert creates a produced item row under a savepoint. Postgres aborts
// the whole transaction on a unique violation, so without the savepoint a
// UID collision would kill the enclosing commit instead of letting the
// caller regenerate and retry. The collision surfaces as
// shared.ErrAlreadyExists.
func (r *GormProducedItemRepository) Insert(ctx context.Context, item *production.ProducedItem) error {
	const sp = "produced_item_insert"
	tx := r.db.WithContext(ctx)
	if err := tx.SavePoint(sp).Error; err != nil {
		return err
	}
	if err := tx.Create(item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if rbErr := tx.RollbackTo(sp).Error; rbErr != nil {
				return rbErr
			}
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GormComponentUsageRepository implements production.ComponentUsageRepository using GORM
type GormComponentUsageRepository struct {
	db *gorm.DB
}

// NewGormComponentUsageRepository creates a new GormComponentUsageRepository
func NewGormComponentUsageRepository(db *gorm.DB) *GormComponentUsageRepository {
	return &GormComponentUsageRepository{db: db}
}

// FindByProduction returns the usage ledger rows of a run
func (r *GormComponentUsageRepository) FindByProduction(ctx context.Context, productionID uuid.UUID) ([]production.ComponentUsage, error) {
	var usages []production.ComponentUsage
	err := r.db.WithContext(ctx).
		Where("production_id = ?", productionID).
		Order("created_at ASC").
		Find(&usages).Error
	if err != nil {
		return nil, err
	}
	return usages, nil
}

// InsertAll appends usage rows to the ledger
func (r *GormComponentUsageRepository) InsertAll(ctx context.Context, usages []*production.ComponentUsage) error {
	if len(usages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(usages).Error
}

// GormSaleRepository implements production.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.Sale, error) {
	var sale production.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll returns sales with pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&production.Sale{})
	if channel, ok := filter.Filters["channel"]; ok {
		query = query.Where("channel = ?", channel)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []production.Sale
	err := paginate(query.Order(orderClause(filter, "sold_at", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *production.Sale) error {
	if err := r.db.WithContext(ctx).Save(sale).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}
