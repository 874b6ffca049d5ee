package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements procurement.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*procurement.Order, error) {
	var order procurement.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate locks the order row and loads its items. The lock
// serializes concurrent receive attempts on the same order.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*procurement.Order, error) {
	var order procurement.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateLockError(err)
	}
	// Items are loaded separately: FOR UPDATE cannot be combined with the
	// join gorm generates for Preload.
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", id).
		Order("created_at ASC").
		Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindAll returns orders with pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]procurement.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&procurement.Order{})
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(supplier_name) LIKE LOWER(?) OR LOWER(reference) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []procurement.Order
	err := paginate(query.Preload("Items").Order(orderClause(filter, "placed_at", "received_at", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists an order and its items
func (r *GormOrderRepository) Save(ctx context.Context, order *procurement.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}
