package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/audit"
)

// AuditHandler serves the audit trail
type AuditHandler struct {
	BaseHandler
	records audit.Repository
}

// NewAuditHandler creates an AuditHandler
func NewAuditHandler(records audit.Repository) *AuditHandler {
	return &AuditHandler{records: records}
}

// RegisterRoutes registers audit routes
func (h *AuditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/audit-logs", h.List)
}

// List returns audit records, optionally filtered by actor, action or
// the entity they concern
func (h *AuditHandler) List(c *gin.Context) {
	// An exact entity reference short-circuits the paged listing.
	if entityType := c.Query("entity_type"); entityType != "" {
		entityID, err := uuid.Parse(c.Query("entity_id"))
		if err != nil {
			h.BadRequest(c, "entity_id must be a valid uuid when entity_type is set")
			return
		}
		records, err := h.records.FindByEntity(c.Request.Context(), entityType, entityID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, records)
		return
	}

	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}
	if actor := c.Query("actor_id"); actor != "" {
		actorID, err := uuid.Parse(actor)
		if err != nil {
			h.BadRequest(c, "actor_id must be a valid uuid")
			return
		}
		filter.Filters["actor_id"] = actorID
	}

	records, total, err := h.records.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}
