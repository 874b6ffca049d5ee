package persistence

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOilBatchRepository implements inventory.OilBatchRepository using GORM
type GormOilBatchRepository struct {
	db *gorm.DB
}

// NewGormOilBatchRepository creates a new GormOilBatchRepository
func NewGormOilBatchRepository(db *gorm.DB) *GormOilBatchRepository {
	return &GormOilBatchRepository{db: db}
}

// FindByID finds an oil batch by its ID
func (r *GormOilBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.OilBatch, error) {
	var batch inventory.OilBatch
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByBarcode finds an oil batch by its barcode
func (r *GormOilBatchRepository) FindByBarcode(ctx context.Context, barcode string) (*inventory.OilBatch, error) {
	var batch inventory.OilBatch
	if err := r.db.WithContext(ctx).Scopes(NotDeleted).First(&batch, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll returns oil batches with pagination
func (r *GormOilBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.OilBatch, int64, error) {
	query := r.db.WithContext(ctx).Model(&inventory.OilBatch{}).Scopes(NotDeleted)
	if fragranceID, ok := filter.Filters["fragrance_id"]; ok {
		query = query.Where("fragrance_id = ?", fragranceID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []inventory.OilBatch
	err := paginate(query.Order(orderClause(filter, "received_at", "barcode", "created_at")), filter).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindAvailableByFragrance returns AVAILABLE batches oldest first
func (r *GormOilBatchRepository) FindAvailableByFragrance(ctx context.Context, fragranceID uuid.UUID) ([]inventory.OilBatch, error) {
	var batches []inventory.OilBatch
	err := r.db.WithContext(ctx).Scopes(NotDeleted).
		Where("fragrance_id = ? AND status = ?", fragranceID, inventory.OilBatchStatusAvailable).
		Order("received_at ASC, id ASC").
		Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// FindForUpdateByIDs locks the AVAILABLE candidate batches of a fragrance
// and returns them in FIFO order. Rows are locked in ascending id order
// first so two concurrent commits acquire locks in the same sequence; the
// FIFO sort for consumption happens after the locks are held. Candidate ids
// that do not resolve to an available lot of this fragrance are left out.
func (r *GormOilBatchRepository) FindForUpdateByIDs(ctx context.Context, fragranceID uuid.UUID, ids []uuid.UUID) ([]inventory.OilBatch, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var batches []inventory.OilBatch
	err := r.db.WithContext(ctx).Scopes(NotDeleted).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ? AND fragrance_id = ? AND status = ?", ids, fragranceID, inventory.OilBatchStatusAvailable).
		Order("id ASC").
		Find(&batches).Error
	if err != nil {
		return nil, translateLockError(err)
	}
	sortBatchesFIFO(batches)
	return batches, nil
}

// sortBatchesFIFO orders locked batches by received_at, then id, for
// oldest-first consumption.
func sortBatchesFIFO(batches []inventory.OilBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if batches[i].ReceivedAt.Equal(batches[j].ReceivedAt) {
			return batches[i].ID.String() < batches[j].ID.String()
		}
		return batches[i].ReceivedAt.Before(batches[j].ReceivedAt)
	})
}

// Save persists an oil batch
func (r *GormOilBatchRepository) Save(ctx context.Context, batch *inventory.OilBatch) error {
	if err := r.db.WithContext(ctx).Save(batch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// SaveAll persists multiple oil batches
func (r *GormOilBatchRepository) SaveAll(ctx context.Context, batches []*inventory.OilBatch) error {
	for _, b := range batches {
		if err := r.Save(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
