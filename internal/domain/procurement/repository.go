package procurement

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// OrderRepository provides access to purchase orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByIDForUpdate locks the order row. Must run inside a transaction;
	// the lock makes the receive flow's idempotency check race-free.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
}
