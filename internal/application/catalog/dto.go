package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateFragranceRequest is the input for creating a fragrance entry
type CreateFragranceRequest struct {
	InternalCode string   `json:"internal_code" binding:"required,max=20"`
	Gender       string   `json:"gender" binding:"required,oneof=M W U"`
	Brand        string   `json:"brand" binding:"required,max=100"`
	Name         string   `json:"name" binding:"required,max=100"`
	OfficialName string   `json:"official_name" binding:"max=200"`
	Family       string   `json:"family" binding:"max=100"`
	TopNotes     []string `json:"top_notes"`
	HeartNotes   []string `json:"heart_notes"`
	BaseNotes    []string `json:"base_notes"`
	Description  string   `json:"description"`
}

// UpdateFragranceRequest carries the mutable fields of a fragrance
type UpdateFragranceRequest struct {
	Brand        string   `json:"brand" binding:"required,max=100"`
	Name         string   `json:"name" binding:"required,max=100"`
	OfficialName string   `json:"official_name" binding:"max=200"`
	Family       string   `json:"family" binding:"max=100"`
	TopNotes     []string `json:"top_notes"`
	HeartNotes   []string `json:"heart_notes"`
	BaseNotes    []string `json:"base_notes"`
	Description  string   `json:"description"`
}

// FragranceResponse is a fragrance in API responses
type FragranceResponse struct {
	ID           uuid.UUID `json:"id"`
	InternalCode string    `json:"internal_code"`
	Gender       string    `json:"gender"`
	Brand        string    `json:"brand"`
	Name         string    `json:"name"`
	OfficialName string    `json:"official_name"`
	Family       string    `json:"family,omitempty"`
	TopNotes     []string  `json:"top_notes,omitempty"`
	HeartNotes   []string  `json:"heart_notes,omitempty"`
	BaseNotes    []string  `json:"base_notes,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToFragranceResponse converts a domain fragrance to a response
func ToFragranceResponse(f *catalog.Fragrance) FragranceResponse {
	return FragranceResponse{
		ID:           f.ID,
		InternalCode: f.InternalCode,
		Gender:       string(f.Gender),
		Brand:        f.Brand,
		Name:         f.Name,
		OfficialName: f.OfficialName,
		Family:       f.Family,
		TopNotes:     f.TopNotes,
		HeartNotes:   f.HeartNotes,
		BaseNotes:    f.BaseNotes,
		Description:  f.Description,
		CreatedAt:    f.CreatedAt,
	}
}

// CreateContainerRequest is the input for creating a container configuration
type CreateContainerRequest struct {
	Name                 string          `json:"name" binding:"required,max=100"`
	Type                 string          `json:"type" binding:"required"`
	FillVolumeML         decimal.Decimal `json:"fill_volume_ml" binding:"required"`
	Barcode              string          `json:"barcode" binding:"required,max=100"`
	PriceRetail          decimal.Decimal `json:"price_retail"`
	LossFactorOilPercent decimal.Decimal `json:"loss_factor_oil_percent"`
}

// UpdateContainerRequest carries the mutable fields of a container
type UpdateContainerRequest struct {
	Name                 string          `json:"name" binding:"required,max=100"`
	PriceRetail          decimal.Decimal `json:"price_retail"`
	LossFactorOilPercent decimal.Decimal `json:"loss_factor_oil_percent"`
	Active               bool            `json:"active"`
}

// ContainerResponse is a container in API responses
type ContainerResponse struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Type                 string          `json:"type"`
	FillVolumeML         decimal.Decimal `json:"fill_volume_ml"`
	Barcode              string          `json:"barcode"`
	PriceRetail          decimal.Decimal `json:"price_retail"`
	LossFactorOilPercent decimal.Decimal `json:"loss_factor_oil_percent"`
	Active               bool            `json:"active"`
	CreatedAt            time.Time       `json:"created_at"`
}

// ToContainerResponse converts a domain container to a response
func ToContainerResponse(c *catalog.Container) ContainerResponse {
	return ContainerResponse{
		ID:                   c.ID,
		Name:                 c.Name,
		Type:                 string(c.Type),
		FillVolumeML:         c.FillVolumeML,
		Barcode:              c.Barcode,
		PriceRetail:          c.PriceRetail,
		LossFactorOilPercent: c.LossFactorOilPercent,
		Active:               c.Active,
		CreatedAt:            c.CreatedAt,
	}
}

// RecipeComponentRequest is one bill-of-materials line in a create request
type RecipeComponentRequest struct {
	Kind        string          `json:"kind" binding:"required"`
	MaterialID  *uuid.UUID      `json:"material_id"`
	QtyRequired decimal.Decimal `json:"qty_required" binding:"required"`
	Unit        string          `json:"unit" binding:"required,oneof=ML PCS"`
	Optional    bool            `json:"optional"`
}

// CreateRecipeRequest is the input for creating a recipe
type CreateRecipeRequest struct {
	ContainerID uuid.UUID                `json:"container_id" binding:"required"`
	Notes       string                   `json:"notes"`
	Components  []RecipeComponentRequest `json:"components" binding:"required,min=1,dive"`
}

// RecipeComponentResponse is one bill-of-materials line in API responses
type RecipeComponentResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        string          `json:"kind"`
	MaterialID  *uuid.UUID      `json:"material_id,omitempty"`
	QtyRequired decimal.Decimal `json:"qty_required"`
	Unit        string          `json:"unit"`
	Optional    bool            `json:"optional"`
}

// RecipeResponse is a recipe in API responses
type RecipeResponse struct {
	ID          uuid.UUID                 `json:"id"`
	ContainerID uuid.UUID                 `json:"container_id"`
	Notes       string                    `json:"notes,omitempty"`
	Active      bool                      `json:"active"`
	Components  []RecipeComponentResponse `json:"components"`
	CreatedAt   time.Time                 `json:"created_at"`
}

// ToRecipeResponse converts a domain recipe to a response
func ToRecipeResponse(r *catalog.Recipe) RecipeResponse {
	components := make([]RecipeComponentResponse, 0, len(r.Components))
	for i := range r.Components {
		c := &r.Components[i]
		components = append(components, RecipeComponentResponse{
			ID:          c.ID,
			Kind:        string(c.Kind),
			MaterialID:  c.MaterialID,
			QtyRequired: c.QtyRequired,
			Unit:        string(c.Unit),
			Optional:    c.Optional,
		})
	}
	return RecipeResponse{
		ID:          r.ID,
		ContainerID: r.ContainerID,
		Notes:       r.Notes,
		Active:      r.Active,
		Components:  components,
		CreatedAt:   r.CreatedAt,
	}
}
