package procurement

import (
	"context"

	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/procurement"
)

// TransactionScope provides transactional access to the repositories an
// order receipt touches. Everything inside Execute shares one database
// transaction and commits or rolls back atomically.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction.
type TransactionalRepositories interface {
	Orders() procurement.OrderRepository
	Materials() inventory.MaterialRepository
	OilBatches() inventory.OilBatchRepository
	Audit() audit.Repository
}
