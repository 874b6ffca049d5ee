package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// ToolCheckout tracks a TOOL-category material taken out of the workshop.
// Checked-out tools stay in stock counts; the record exists so the team can
// see who has what.
type ToolCheckout struct {
	shared.BaseEntity
	MaterialID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Note       string    `gorm:"size:255"`
	CheckedOut time.Time `gorm:"not null"`
	ReturnedAt *time.Time
}

// TableName returns the table name for GORM
func (ToolCheckout) TableName() string {
	return "tool_checkouts"
}

// NewToolCheckout records a tool leaving the workshop
func NewToolCheckout(materialID, userID uuid.UUID, note string) (*ToolCheckout, error) {
	if materialID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Material and user are required")
	}
	return &ToolCheckout{
		BaseEntity: shared.NewBaseEntity(),
		MaterialID: materialID,
		UserID:     userID,
		Note:       note,
		CheckedOut: time.Now(),
	}, nil
}

// IsOpen returns true while the tool has not been returned
func (c *ToolCheckout) IsOpen() bool {
	return c.ReturnedAt == nil
}

// Return closes the checkout
func (c *ToolCheckout) Return() error {
	if !c.IsOpen() {
		return shared.NewDomainError("ALREADY_RETURNED", "Tool has already been returned")
	}
	now := time.Now()
	c.ReturnedAt = &now
	c.UpdatedAt = now
	return nil
}

// ToolCheckoutRepository provides access to checkout records
type ToolCheckoutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ToolCheckout, error)
	// FindOpenByMaterial returns the open checkout for a tool, or
	// shared.ErrNotFound when the tool is in the workshop.
	FindOpenByMaterial(ctx context.Context, materialID uuid.UUID) (*ToolCheckout, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ToolCheckout, int64, error)
	Save(ctx context.Context, checkout *ToolCheckout) error
}
