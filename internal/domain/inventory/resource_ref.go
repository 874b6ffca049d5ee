package inventory

import (
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// ResourceKind discriminates the two stock-bearing resource types.
type ResourceKind string

const (
	// ResourceKindOilBatch refers to a specific oil lot
	ResourceKindOilBatch ResourceKind = "OILBATCH"
	// ResourceKindMaterial refers to a fungible stocked material
	ResourceKindMaterial ResourceKind = "MATERIAL"
)

// IsValid checks if the resource kind is valid
func (k ResourceKind) IsValid() bool {
	return k == ResourceKindOilBatch || k == ResourceKindMaterial
}

// ResourceRef points at either an oil batch or a material. Usage ledger rows
// carry one so a single table can record consumption from both stock types.
type ResourceRef struct {
	Kind ResourceKind `gorm:"size:10;not null"`
	ID   uuid.UUID    `gorm:"type:uuid;not null"`
}

// NewOilBatchRef builds a reference to an oil batch
func NewOilBatchRef(id uuid.UUID) ResourceRef {
	return ResourceRef{Kind: ResourceKindOilBatch, ID: id}
}

// NewMaterialRef builds a reference to a material
func NewMaterialRef(id uuid.UUID) ResourceRef {
	return ResourceRef{Kind: ResourceKindMaterial, ID: id}
}

// Validate checks the reference is well formed
func (r ResourceRef) Validate() error {
	if !r.Kind.IsValid() {
		return shared.NewDomainErrorf("INVALID_RESOURCE_KIND", "Unknown resource kind %q", r.Kind)
	}
	if r.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_RESOURCE_ID", "Resource ID cannot be empty")
	}
	return nil
}
