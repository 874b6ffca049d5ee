package catalog

import (
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentKind classifies one entry in a container's bill of materials.
type ComponentKind string

const (
	// ComponentKindPlaceholderOil stands for "the fragrance oil itself".
	// It is the only kind with a nil MaterialID; the concrete oil batches
	// are chosen at production time.
	ComponentKindPlaceholderOil ComponentKind = "PLACEHOLDER_OIL"
	ComponentKindAlcohol        ComponentKind = "ALCOHOL"
	ComponentKindWater          ComponentKind = "WATER"
	ComponentKindFixateur       ComponentKind = "FIXATEUR"
	ComponentKindBottle         ComponentKind = "PACKAGING_BOTTLE"
	ComponentKindPart           ComponentKind = "PACKAGING_PART"
	ComponentKindLabel          ComponentKind = "PACKAGING_LABEL"
	ComponentKindBox            ComponentKind = "PACKAGING_BOX"
	ComponentKindOther          ComponentKind = "OTHER"
)

// IsValid checks if the component kind is valid
func (k ComponentKind) IsValid() bool {
	switch k {
	case ComponentKindPlaceholderOil, ComponentKindAlcohol, ComponentKindWater,
		ComponentKindFixateur, ComponentKindBottle, ComponentKindPart,
		ComponentKindLabel, ComponentKindBox, ComponentKindOther:
		return true
	}
	return false
}

// ComponentUnit is the measurement unit of a recipe component.
type ComponentUnit string

const (
	// UnitML measures liquids in milliliters
	UnitML ComponentUnit = "ML"
	// UnitPCS counts discrete pieces
	UnitPCS ComponentUnit = "PCS"
)

// Recipe is the active bill of materials for one container type.
type Recipe struct {
	shared.BaseEntity
	ContainerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Notes       string    `gorm:"type:text"`
	Active      bool      `gorm:"not null;default:true"`

	Components []RecipeComponent `gorm:"foreignKey:RecipeID;references:ID"`
}

// TableName returns the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeComponent is one ingredient/part requirement per unit of output.
type RecipeComponent struct {
	shared.BaseEntity
	RecipeID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind        ComponentKind   `gorm:"size:20;not null"`
	MaterialID  *uuid.UUID      `gorm:"type:uuid;index"` // nil only for PLACEHOLDER_OIL
	QtyRequired decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit        ComponentUnit   `gorm:"size:10;not null"`
	Optional    bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RecipeComponent) TableName() string {
	return "recipe_components"
}

// IsOilPlaceholder returns true for the fragrance-oil placeholder component
func (c *RecipeComponent) IsOilPlaceholder() bool {
	return c.Kind == ComponentKindPlaceholderOil
}

// NewRecipe creates a recipe after validating its component set.
func NewRecipe(containerID uuid.UUID, notes string, components []RecipeComponent) (*Recipe, error) {
	if containerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTAINER", "Container ID cannot be empty")
	}
	recipe := &Recipe{
		BaseEntity:  shared.NewBaseEntity(),
		ContainerID: containerID,
		Notes:       notes,
		Active:      true,
	}
	for i := range components {
		components[i].BaseEntity = shared.NewBaseEntity()
		components[i].RecipeID = recipe.ID
	}
	recipe.Components = components
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Validate enforces the structural invariants of a bill of materials:
// exactly one PLACEHOLDER_OIL component with a nil material reference,
// every other component bound to a concrete material with positive quantity.
func (r *Recipe) Validate() error {
	oilPlaceholders := 0
	for i := range r.Components {
		c := &r.Components[i]
		if !c.Kind.IsValid() {
			return shared.NewDomainErrorf("INVALID_COMPONENT_KIND", "Unknown component kind %q", c.Kind)
		}
		if c.QtyRequired.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_COMPONENT_QTY", "Component quantity must be positive")
		}
		if c.IsOilPlaceholder() {
			oilPlaceholders++
			if c.MaterialID != nil {
				return shared.NewDomainError("INVALID_COMPONENT", "Oil placeholder must not reference a material")
			}
			continue
		}
		if c.MaterialID == nil || *c.MaterialID == uuid.Nil {
			return shared.NewDomainErrorf("INVALID_COMPONENT", "Component of kind %q must reference a material", c.Kind)
		}
	}
	if oilPlaceholders != 1 {
		return shared.NewDomainErrorf("INVALID_RECIPE",
			"Recipe must contain exactly one oil placeholder component, found %d", oilPlaceholders)
	}
	return nil
}

// OilPlaceholder returns the single PLACEHOLDER_OIL component.
func (r *Recipe) OilPlaceholder() *RecipeComponent {
	for i := range r.Components {
		if r.Components[i].IsOilPlaceholder() {
			return &r.Components[i]
		}
	}
	return nil
}

// MaterialComponents returns all components that consume stocked materials.
func (r *Recipe) MaterialComponents() []RecipeComponent {
	out := make([]RecipeComponent, 0, len(r.Components))
	for _, c := range r.Components {
		if !c.IsOilPlaceholder() {
			out = append(out, c)
		}
	}
	return out
}
