package catalog

import (
	"context"

	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
)

// TransactionScope provides transactional access to catalog repositories.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to catalog repositories within
// a transaction.
type TransactionalRepositories interface {
	Fragrances() catalog.FragranceRepository
	Containers() catalog.ContainerRepository
	Recipes() catalog.RecipeRepository
	Audit() audit.Repository
}
