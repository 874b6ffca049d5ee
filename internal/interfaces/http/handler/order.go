package handler

import (
	"github.com/gin-gonic/gin"
	approcurement "github.com/lcree/backend/internal/application/procurement"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
)

// OrderHandler serves purchase orders and order receipt
type OrderHandler struct {
	BaseHandler
	service *approcurement.Service
}

// NewOrderHandler creates an OrderHandler
func NewOrderHandler(service *approcurement.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	writers := middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleOperator))

	orders := rg.Group("/orders")
	orders.POST("", writers, h.Create)
	orders.GET("", h.List)
	orders.GET("/:id", h.Get)
	orders.POST("/:id/place", writers, h.Place)
	orders.POST("/:id/receive", writers, h.Receive)
	orders.POST("/:id/cancel", writers, h.Cancel)
}

// Create opens a draft order with its items
func (h *OrderHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req approcurement.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid order payload")
		return
	}

	order, err := h.service.Create(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// List returns orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Place moves a draft order to PLACED
func (h *OrderHandler) Place(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	order, err := h.service.Place(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Receive books the order into stock with landed cost allocation
func (h *OrderHandler) Receive(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	resp, err := h.service.Receive(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel voids an order that has not been received
func (h *OrderHandler) Cancel(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
