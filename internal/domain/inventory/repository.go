package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// OilBatchRepository provides access to oil lots. The ForUpdate variants
// acquire pessimistic row locks and must run inside a transaction; they load
// rows in ascending primary-key order so concurrent commits lock in the same
// sequence and cannot deadlock against each other.
type OilBatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OilBatch, error)
	FindByBarcode(ctx context.Context, barcode string) (*OilBatch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]OilBatch, int64, error)
	// FindAvailableByFragrance returns AVAILABLE batches of a fragrance
	// ordered by received_at ascending, oldest lot first.
	FindAvailableByFragrance(ctx context.Context, fragranceID uuid.UUID) ([]OilBatch, error)
	// FindForUpdateByIDs locks and returns the AVAILABLE batches of a
	// fragrance out of the given candidate ids, locking in ascending id
	// order, returning in FIFO (received_at ascending) order. Candidates
	// that are unknown, locked or exhausted are simply absent from the
	// result.
	FindForUpdateByIDs(ctx context.Context, fragranceID uuid.UUID, ids []uuid.UUID) ([]OilBatch, error)
	Save(ctx context.Context, batch *OilBatch) error
	SaveAll(ctx context.Context, batches []*OilBatch) error
}

// MaterialRepository provides access to stocked materials
type MaterialRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, int64, error)
	// FindForUpdateByIDs locks and returns materials in ascending id order.
	// Must run inside a transaction.
	FindForUpdateByIDs(ctx context.Context, ids []uuid.UUID) ([]Material, error)
	// FindBelowMinimum returns tracked materials whose stock is under their
	// reorder threshold.
	FindBelowMinimum(ctx context.Context) ([]Material, error)
	Save(ctx context.Context, material *Material) error
	SaveAll(ctx context.Context, materials []*Material) error
}
