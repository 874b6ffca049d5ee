package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// ProductionRepository provides access to production runs
type ProductionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Production, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Production, int64, error)
	Save(ctx context.Context, p *Production) error
}

// ProducedItemRepository provides access to produced units. Insert returns
// shared.ErrAlreadyExists on a UID unique-constraint violation so the
// caller can regenerate and retry.
type ProducedItemRepository interface {
	FindByUID(ctx context.Context, uid string) (*ProducedItem, error)
	FindByProduction(ctx context.Context, productionID uuid.UUID) ([]ProducedItem, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProducedItem, int64, error)
	Insert(ctx context.Context, item *ProducedItem) error
}

// ComponentUsageRepository appends to the consumption ledger
type ComponentUsageRepository interface {
	FindByProduction(ctx context.Context, productionID uuid.UUID) ([]ComponentUsage, error)
	InsertAll(ctx context.Context, usages []*ComponentUsage) error
}

// SaleRepository provides access to sale records
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)
	Save(ctx context.Context, sale *Sale) error
}
