package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Insert appends an audit record, stamping the caller's IP and user agent
// from the request context when the emitter did not set them
func (r *GormAuditRepository) Insert(ctx context.Context, record *audit.Record) error {
	if record.IP == "" && record.UserAgent == "" {
		meta := audit.RequestMetaFromContext(ctx)
		record.IP = meta.IP
		record.UserAgent = meta.UserAgent
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// FindAll returns audit records with pagination
func (r *GormAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]audit.Record, int64, error) {
	query := r.db.WithContext(ctx).Model(&audit.Record{})
	if action, ok := filter.Filters["action"]; ok {
		query = query.Where("action = ?", action)
	}
	if actorID, ok := filter.Filters["actor_id"]; ok {
		query = query.Where("actor_id = ?", actorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []audit.Record
	err := paginate(query.Order(orderClause(filter, "occurred_at", "created_at")), filter).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// FindByEntity returns the audit trail of one entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]audit.Record, error) {
	var records []audit.Record
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ensure interface compliance
var _ audit.Repository = (*GormAuditRepository)(nil)
