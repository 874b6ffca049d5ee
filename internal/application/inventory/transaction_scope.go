package inventory

import (
	"context"

	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to stock repositories.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to stock repositories within a
// transaction.
type TransactionalRepositories interface {
	OilBatches() inventory.OilBatchRepository
	Materials() inventory.MaterialRepository
	ToolCheckouts() inventory.ToolCheckoutRepository
	Audit() audit.Repository
}
