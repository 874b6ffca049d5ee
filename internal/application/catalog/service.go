package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/shared"
)

// Service handles catalog maintenance: fragrances, containers and recipes.
type Service struct {
	scope TransactionScope
}

// NewService creates a catalog service
func NewService(scope TransactionScope) *Service {
	return &Service{scope: scope}
}

// CreateFragrance registers a new fragrance entry
func (s *Service) CreateFragrance(ctx context.Context, req CreateFragranceRequest, actorID uuid.UUID) (*FragranceResponse, error) {
	fragrance, err := catalog.NewFragrance(req.InternalCode, catalog.FragranceGender(req.Gender), req.Brand, req.Name, req.OfficialName)
	if err != nil {
		return nil, err
	}
	fragrance.Family = req.Family
	fragrance.TopNotes = req.TopNotes
	fragrance.HeartNotes = req.HeartNotes
	fragrance.BaseNotes = req.BaseNotes
	fragrance.Description = req.Description

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Fragrances().Save(ctx, fragrance); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudCreate, &actorID, "fragrance", &fragrance.ID,
			audit.Payload{"internal_code": fragrance.InternalCode, "name": fragrance.Name}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToFragranceResponse(fragrance)
	return &resp, nil
}

// UpdateFragrance overwrites the mutable fields of a fragrance
func (s *Service) UpdateFragrance(ctx context.Context, id uuid.UUID, req UpdateFragranceRequest, actorID uuid.UUID) (*FragranceResponse, error) {
	var resp FragranceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		fragrance, err := repos.Fragrances().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := audit.Payload{"brand": fragrance.Brand, "name": fragrance.Name}
		fragrance.Brand = req.Brand
		fragrance.Name = req.Name
		fragrance.OfficialName = req.OfficialName
		fragrance.Family = req.Family
		fragrance.TopNotes = req.TopNotes
		fragrance.HeartNotes = req.HeartNotes
		fragrance.BaseNotes = req.BaseNotes
		fragrance.Description = req.Description
		if err := repos.Fragrances().Save(ctx, fragrance); err != nil {
			return err
		}
		resp = ToFragranceResponse(fragrance)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudUpdate, &actorID, "fragrance", &fragrance.ID,
			audit.Payload{"brand": fragrance.Brand, "name": fragrance.Name}).
			WithBefore(before))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteFragrance soft-deletes a fragrance so history keeps resolving
func (s *Service) DeleteFragrance(ctx context.Context, id, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		fragrance, err := repos.Fragrances().FindByID(ctx, id)
		if err != nil {
			return err
		}
		fragrance.SoftDelete(actorID)
		if err := repos.Fragrances().Save(ctx, fragrance); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudDelete, &actorID, "fragrance", &fragrance.ID,
			audit.Payload{"deleted": true}).
			WithBefore(audit.Payload{"internal_code": fragrance.InternalCode}))
	})
}

// GetFragrance returns one fragrance
func (s *Service) GetFragrance(ctx context.Context, id uuid.UUID) (*FragranceResponse, error) {
	var resp FragranceResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		fragrance, err := repos.Fragrances().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToFragranceResponse(fragrance)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFragrances returns fragrances with pagination
func (s *Service) ListFragrances(ctx context.Context, filter shared.Filter) ([]FragranceResponse, int64, error) {
	var (
		fragrances []catalog.Fragrance
		total      int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		fragrances, total, err = repos.Fragrances().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]FragranceResponse, 0, len(fragrances))
	for i := range fragrances {
		responses = append(responses, ToFragranceResponse(&fragrances[i]))
	}
	return responses, total, nil
}

// CreateContainer registers a new container configuration
func (s *Service) CreateContainer(ctx context.Context, req CreateContainerRequest, actorID uuid.UUID) (*ContainerResponse, error) {
	container, err := catalog.NewContainer(req.Name, catalog.ContainerType(req.Type),
		req.FillVolumeML, req.PriceRetail, req.LossFactorOilPercent, req.Barcode)
	if err != nil {
		return nil, err
	}
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Containers().Save(ctx, container); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudCreate, &actorID, "container", &container.ID,
			audit.Payload{"name": container.Name, "type": string(container.Type)}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToContainerResponse(container)
	return &resp, nil
}

// UpdateContainer overwrites the mutable fields of a container. Fill volume
// and type are fixed after creation; a different bottle is a new container.
func (s *Service) UpdateContainer(ctx context.Context, id uuid.UUID, req UpdateContainerRequest, actorID uuid.UUID) (*ContainerResponse, error) {
	var resp ContainerResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		container, err := repos.Containers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := audit.Payload{
			"name":         container.Name,
			"price_retail": container.PriceRetail.String(),
			"active":       container.Active,
		}
		container.Name = req.Name
		container.PriceRetail = req.PriceRetail
		container.LossFactorOilPercent = req.LossFactorOilPercent
		container.Active = req.Active
		if err := repos.Containers().Save(ctx, container); err != nil {
			return err
		}
		resp = ToContainerResponse(container)
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudUpdate, &actorID, "container", &container.ID,
			audit.Payload{
				"name":         container.Name,
				"price_retail": container.PriceRetail.String(),
				"active":       container.Active,
			}).WithBefore(before))
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteContainer soft-deletes a container. Existing recipes and produced
// items keep their references; only new production is blocked.
func (s *Service) DeleteContainer(ctx context.Context, id, actorID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		container, err := repos.Containers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		container.SoftDelete(actorID)
		if err := repos.Containers().Save(ctx, container); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudDelete, &actorID, "container", &container.ID,
			audit.Payload{"deleted": true}).
			WithBefore(audit.Payload{"barcode": container.Barcode}))
	})
}

// GetContainer returns one container
func (s *Service) GetContainer(ctx context.Context, id uuid.UUID) (*ContainerResponse, error) {
	var resp ContainerResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		container, err := repos.Containers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToContainerResponse(container)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListContainers returns containers with pagination
func (s *Service) ListContainers(ctx context.Context, filter shared.Filter) ([]ContainerResponse, int64, error) {
	var (
		containers []catalog.Container
		total      int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		containers, total, err = repos.Containers().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ContainerResponse, 0, len(containers))
	for i := range containers {
		responses = append(responses, ToContainerResponse(&containers[i]))
	}
	return responses, total, nil
}

// CreateRecipe creates a recipe and makes it the active one for its
// container, deactivating any previous active recipe.
func (s *Service) CreateRecipe(ctx context.Context, req CreateRecipeRequest, actorID uuid.UUID) (*RecipeResponse, error) {
	components := make([]catalog.RecipeComponent, 0, len(req.Components))
	for _, c := range req.Components {
		components = append(components, catalog.RecipeComponent{
			Kind:        catalog.ComponentKind(c.Kind),
			MaterialID:  c.MaterialID,
			QtyRequired: c.QtyRequired,
			Unit:        catalog.ComponentUnit(c.Unit),
			Optional:    c.Optional,
		})
	}
	recipe, err := catalog.NewRecipe(req.ContainerID, req.Notes, components)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Containers().FindByID(ctx, req.ContainerID); err != nil {
			return err
		}
		previous, err := repos.Recipes().FindActiveByContainer(ctx, req.ContainerID)
		switch {
		case err == nil:
			previous.Active = false
			if err := repos.Recipes().Save(ctx, previous); err != nil {
				return err
			}
		case errors.Is(err, shared.ErrRecipeNotFound):
			// first recipe for this container
		default:
			return err
		}
		if err := repos.Recipes().Save(ctx, recipe); err != nil {
			return err
		}
		return repos.Audit().Insert(ctx, audit.NewRecord(
			audit.ActionCrudCreate, &actorID, "recipe", &recipe.ID,
			audit.Payload{"container_id": recipe.ContainerID.String(), "components": len(recipe.Components)}))
	})
	if err != nil {
		return nil, err
	}
	resp := ToRecipeResponse(recipe)
	return &resp, nil
}

// GetRecipe returns one recipe with its components
func (s *Service) GetRecipe(ctx context.Context, id uuid.UUID) (*RecipeResponse, error) {
	var resp RecipeResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		recipe, err := repos.Recipes().FindByID(ctx, id)
		if err != nil {
			return err
		}
		resp = ToRecipeResponse(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetActiveRecipe returns the active recipe for a container
func (s *Service) GetActiveRecipe(ctx context.Context, containerID uuid.UUID) (*RecipeResponse, error) {
	var resp RecipeResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		recipe, err := repos.Recipes().FindActiveByContainer(ctx, containerID)
		if err != nil {
			return err
		}
		resp = ToRecipeResponse(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRecipes returns recipes with pagination
func (s *Service) ListRecipes(ctx context.Context, filter shared.Filter) ([]RecipeResponse, int64, error) {
	var (
		recipes []catalog.Recipe
		total   int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		recipes, total, err = repos.Recipes().FindAll(ctx, filter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		responses = append(responses, ToRecipeResponse(&recipes[i]))
	}
	return responses, total, nil
}
