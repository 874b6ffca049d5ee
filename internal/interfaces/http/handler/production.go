package handler

import (
	"github.com/gin-gonic/gin"
	approduction "github.com/lcree/backend/internal/application/production"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
)

// ProductionHandler serves production runs, sales and produced item lookup
type ProductionHandler struct {
	BaseHandler
	service *approduction.Service
}

// NewProductionHandler creates a ProductionHandler
func NewProductionHandler(service *approduction.Service) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	writers := middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleOperator))

	productions := rg.Group("/productions")
	productions.POST("/commit", writers, h.Commit)
	productions.GET("", h.List)
	productions.GET("/:id", h.Get)

	rg.GET("/sales", h.ListSales)

	// Public QR lookup, unauthenticated via the JWT skip list.
	rg.GET("/produced-items/:uid", h.GetItemByUID)
}

// Commit executes a production run as one transaction
func (h *ProductionHandler) Commit(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req approduction.CommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid commit payload")
		return
	}

	resp, err := h.service.Commit(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns production runs
func (h *ProductionHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	runs, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, runs, total, filter.Page, filter.PageSize)
}

// Get returns one run with its consumption ledger and produced units
func (h *ProductionHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	run, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, approduction.ToProductionDetailResponse(run))
}

// ListSales returns sale records
func (h *ProductionHandler) ListSales(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if channel := c.Query("channel"); channel != "" {
		filter.Filters["channel"] = channel
	}

	sales, total, err := h.service.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// GetItemByUID resolves the QR code identifier of a produced unit
func (h *ProductionHandler) GetItemByUID(c *gin.Context) {
	uid := c.Param("uid")
	if uid == "" {
		h.BadRequest(c, "Missing uid parameter")
		return
	}

	item, err := h.service.GetItemByUID(c.Request.Context(), uid)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, approduction.ToProducedItemResponse(item))
}
