package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormFragranceRepository implements catalog.FragranceRepository using GORM
type GormFragranceRepository struct {
	db *gorm.DB
}

// NewGormFragranceRepository creates a new GormFragranceRepository
func NewGormFragranceRepository(db *gorm.DB) *GormFragranceRepository {
	return &GormFragranceRepository{db: db}
}

// FindByID finds a fragrance by its ID
func (r *GormFragranceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Fragrance, error) {
	var f catalog.Fragrance
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&f, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindByInternalCode finds a fragrance by its internal code
func (r *GormFragranceRepository) FindByInternalCode(ctx context.Context, code string) (*catalog.Fragrance, error) {
	var f catalog.Fragrance
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&f, "internal_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// FindAll returns fragrances with pagination
func (r *GormFragranceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Fragrance, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Fragrance{}).Scopes(NotDeleted)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(internal_code) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []catalog.Fragrance
	err := paginate(query.Order(orderClause(filter, "name", "internal_code", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a fragrance
func (r *GormFragranceRepository) Save(ctx context.Context, fragrance *catalog.Fragrance) error {
	if err := r.db.WithContext(ctx).Save(fragrance).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GormContainerRepository implements catalog.ContainerRepository using GORM
type GormContainerRepository struct {
	db *gorm.DB
}

// NewGormContainerRepository creates a new GormContainerRepository
func NewGormContainerRepository(db *gorm.DB) *GormContainerRepository {
	return &GormContainerRepository{db: db}
}

// FindByID finds a container by its ID
func (r *GormContainerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Container, error) {
	var c catalog.Container
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns containers with pagination
func (r *GormContainerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Container, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Container{}).Scopes(NotDeleted)
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []catalog.Container
	err := paginate(query.Order(orderClause(filter, "name", "type", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a container
func (r *GormContainerRepository) Save(ctx context.Context, container *catalog.Container) error {
	if err := r.db.WithContext(ctx).Save(container).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GormRecipeRepository implements catalog.RecipeRepository using GORM
type GormRecipeRepository struct {
	db *gorm.DB
}

// NewGormRecipeRepository creates a new GormRecipeRepository
func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

// FindByID finds a recipe with its components
func (r *GormRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Recipe, error) {
	var recipe catalog.Recipe
	if err := r.db.WithContext(ctx).Preload("Components").First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// FindActiveByContainer returns the active recipe for a container
func (r *GormRecipeRepository) FindActiveByContainer(ctx context.Context, containerID uuid.UUID) (*catalog.Recipe, error) {
	var recipe catalog.Recipe
	err := r.db.WithContext(ctx).Preload("Components").
		Where("container_id = ? AND active = ?", containerID, true).
		Order("created_at DESC").
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// FindAll returns recipes with pagination, components preloaded
func (r *GormRecipeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Recipe, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Recipe{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []catalog.Recipe
	err := paginate(query.Preload("Components").Order(orderClause(filter, "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Save persists a recipe and its components
func (r *GormRecipeRepository) Save(ctx context.Context, recipe *catalog.Recipe) error {
	return r.db.WithContext(ctx).Save(recipe).Error
}
