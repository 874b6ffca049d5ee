package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMaterialRepository implements inventory.MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Material, error) {
	var m inventory.Material
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindAll returns materials with pagination
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Material, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.Material{}).Scopes(NotDeleted)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.Material
	err := paginate(query.Order(orderClause(filter, "name", "category", "stock_qty", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindForUpdateByIDs locks materials in ascending id order. The ordering
// matches the oil batch lock sequence so concurrent commits cannot deadlock.
func (r *GormMaterialRepository) FindForUpdateByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var materials []inventory.Material
	err := r.db.WithContext(ctx).Scopes(NotDeleted).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&materials).Error
	if err != nil {
		return nil, translateLockError(err)
	}
	return materials, nil
}

// FindBelowMinimum returns tracked materials under their reorder threshold
func (r *GormMaterialRepository) FindBelowMinimum(ctx context.Context) ([]inventory.Material, error) {
	var materials []inventory.Material
	err := r.db.WithContext(ctx).Scopes(NotDeleted).
		Where("is_tracked = ? AND min_qty > 0 AND stock_qty < min_qty", true).
		Order("name ASC").
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	return materials, nil
}

// Save persists a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *inventory.Material) error {
	if err := r.db.WithContext(ctx).Save(material).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveAll persists multiple materials
func (r *GormMaterialRepository) SaveAll(ctx context.Context, materials []*inventory.Material) error {
	for _, m := range materials {
		if err := r.Save(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// GormToolCheckoutRepository implements inventory.ToolCheckoutRepository using GORM
type GormToolCheckoutRepository struct {
	db *gorm.DB
}

// NewGormToolCheckoutRepository creates a new GormToolCheckoutRepository
func NewGormToolCheckoutRepository(db *gorm.DB) *GormToolCheckoutRepository {
	return &GormToolCheckoutRepository{db: db}
}

// FindByID finds a checkout record by its ID
func (r *GormToolCheckoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ToolCheckout, error) {
	var c inventory.ToolCheckout
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindOpenByMaterial returns the open checkout for a tool
func (r *GormToolCheckoutRepository) FindOpenByMaterial(ctx context.Context, materialID uuid.UUID) (*inventory.ToolCheckout, error) {
	var c inventory.ToolCheckout
	err := r.db.WithContext(ctx).
		Where("material_id = ? AND returned_at IS NULL", materialID).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns checkout records with pagination
func (r *GormToolCheckoutRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.ToolCheckout, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.ToolCheckout{})
	if open, ok := filter.Filters["open"]; ok && open == true {
		query = query.Where("returned_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.ToolCheckout
	err := paginate(query.Order(orderClause(filter, "checked_out", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a checkout record
func (r *GormToolCheckoutRepository) Save(ctx context.Context, checkout *inventory.ToolCheckout) error {
	return r.db.WithContext(ctx).Save(checkout).Error
}
