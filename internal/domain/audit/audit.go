package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/shared"
)

// Action identifies what kind of operation an audit record describes.
type Action string

const (
	ActionProductionCommit Action = "PRODUCTION_COMMIT"
	ActionSaleCommit       Action = "SALE_COMMIT"
	ActionOrderReceive     Action = "ORDER_RECEIVE"
	ActionToolCheckout     Action = "TOOL_CHECKOUT"
	ActionToolReturn       Action = "TOOL_RETURN"
	ActionLabelPrintJob    Action = "LABEL_PRINT_JOB"
	ActionMaterialAdjust   Action = "MATERIAL_ADJUST"
	ActionBatchAdjustment  Action = "BATCH_ADJUSTMENT"
	ActionCrudCreate       Action = "CRUD_CREATE"
	ActionCrudUpdate       Action = "CRUD_UPDATE"
	ActionCrudDelete       Action = "CRUD_DELETE"
	ActionUserLogin        Action = "USER_LOGIN"
)

// Payload is the free-form detail map stored as JSON alongside a record.
type Payload map[string]any

// Record is one append-only audit row. Records for transactional operations
// are written inside the same database transaction as the operation itself.
// PayloadBefore holds the pre-change state for updates and deletes,
// PayloadAfter the resulting state; IP and UserAgent identify the caller.
type Record struct {
	shared.BaseEntity
	Action        Action     `gorm:"size:30;not null;index"`
	ActorID       *uuid.UUID `gorm:"type:uuid;index"`
	EntityType    string     `gorm:"size:50;index"`
	EntityID      *uuid.UUID `gorm:"type:uuid;index"`
	PayloadBefore Payload    `gorm:"serializer:json"`
	PayloadAfter  Payload    `gorm:"serializer:json"`
	IP            string     `gorm:"size:45"`
	UserAgent     string     `gorm:"size:255"`
	OccurredAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "audit_records"
}

// NewRecord creates an audit record for an operation on an entity. The
// payload describes the state after the operation; callers with a
// pre-change state attach it via WithBefore.
func NewRecord(action Action, actorID *uuid.UUID, entityType string, entityID *uuid.UUID, after Payload) *Record {
	return &Record{
		BaseEntity:   shared.NewBaseEntity(),
		Action:       action,
		ActorID:      actorID,
		EntityType:   entityType,
		EntityID:     entityID,
		PayloadAfter: after,
		OccurredAt:   time.Now(),
	}
}

// WithBefore attaches the pre-change state to the record
func (r *Record) WithBefore(before Payload) *Record {
	r.PayloadBefore = before
	return r
}

// RequestMeta is the client metadata stamped onto audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

type requestMetaKey struct{}

// WithRequestMeta stores the caller's request metadata on the context
func WithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata, if any, from the
// context. Background jobs and CLI entry points carry none.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// Repository appends to and reads from the audit trail
type Repository interface {
	Insert(ctx context.Context, record *Record) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Record, int64, error)
	FindByEntity(ctx context.Context, entityType string, entityID uuid.UUID) ([]Record, error)
}
