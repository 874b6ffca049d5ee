package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// FragranceRepository provides access to fragrance catalog entries
type FragranceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Fragrance, error)
	FindByInternalCode(ctx context.Context, code string) (*Fragrance, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Fragrance, int64, error)
	Save(ctx context.Context, fragrance *Fragrance) error
}

// ContainerRepository provides access to container configurations
type ContainerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Container, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Container, int64, error)
	Save(ctx context.Context, container *Container) error
}

// RecipeRepository provides access to recipes and their components
type RecipeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Recipe, error)
	// FindActiveByContainer returns the active recipe for a container,
	// components preloaded, or shared.ErrRecipeNotFound when none is active.
	FindActiveByContainer(ctx context.Context, containerID uuid.UUID) (*Recipe, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Recipe, int64, error)
	Save(ctx context.Context, recipe *Recipe) error
}
