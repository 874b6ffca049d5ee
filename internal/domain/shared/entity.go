package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SoftDeletable provides the uniform soft-delete convention.
// Deleted rows are never removed physically; repositories filter them
// out via the NotDeleted scope.
type SoftDeletable struct {
	DeletedAt *time.Time `gorm:"index"`
	DeletedBy *uuid.UUID `gorm:"type:uuid"`
}

// IsDeleted returns true if the entity has been soft-deleted
func (s *SoftDeletable) IsDeleted() bool {
	return s.DeletedAt != nil
}

// SoftDelete marks the entity as deleted by the given user
func (s *SoftDeletable) SoftDelete(deletedBy uuid.UUID) {
	now := time.Now()
	s.DeletedAt = &now
	s.DeletedBy = &deletedBy
}

// Restore clears the soft-delete markers
func (s *SoftDeletable) Restore() {
	s.DeletedAt = nil
	s.DeletedBy = nil
}
