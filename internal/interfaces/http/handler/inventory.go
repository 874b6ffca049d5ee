package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appinventory "github.com/lcree/backend/internal/application/inventory"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
)

// InventoryHandler serves materials, oil batches and tool usage
type InventoryHandler struct {
	BaseHandler
	service *appinventory.Service
}

// NewInventoryHandler creates an InventoryHandler
func NewInventoryHandler(service *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// RegisterRoutes registers inventory routes
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	writers := middleware.RequireRole(string(identity.RoleAdmin), string(identity.RoleOperator))

	materials := rg.Group("/materials")
	materials.POST("", writers, h.CreateMaterial)
	materials.GET("", h.ListMaterials)
	materials.GET("/low-stock", h.LowStock)
	materials.GET("/:id", h.GetMaterial)
	materials.POST("/:id/adjust", writers, h.AdjustMaterial)
	materials.DELETE("/:id", writers, h.DeleteMaterial)

	batches := rg.Group("/oil-batches")
	batches.GET("", h.ListBatches)
	batches.GET("/:id", h.GetBatch)
	batches.GET("/barcode/:barcode", h.GetBatchByBarcode)
	batches.POST("/:id/calibrate", writers, h.CalibrateBatch)
	batches.POST("/:id/lock", writers, h.SetBatchLock)

	tools := rg.Group("/tool-usages")
	tools.POST("", writers, h.CheckoutTool)
	tools.POST("/return", writers, h.ReturnTool)
	tools.GET("", h.ListCheckouts)
}

// CreateMaterial adds a material to the inventory
func (h *InventoryHandler) CreateMaterial(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appinventory.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid material payload")
		return
	}

	material, err := h.service.CreateMaterial(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, material)
}

// ListMaterials returns materials
func (h *InventoryHandler) ListMaterials(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}

	materials, total, err := h.service.ListMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, materials, total, filter.Page, filter.PageSize)
}

// LowStock returns tracked materials at or below their minimum
func (h *InventoryHandler) LowStock(c *gin.Context) {
	materials, err := h.service.LowStockReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, materials)
}

// DeleteMaterial soft-deletes a material
func (h *InventoryHandler) DeleteMaterial(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteMaterial(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetMaterial returns one material
func (h *InventoryHandler) GetMaterial(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	material, err := h.service.GetMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// AdjustMaterial sets a counted stock quantity with an audit reason
func (h *InventoryHandler) AdjustMaterial(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req appinventory.AdjustMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "New quantity and reason are required")
		return
	}

	material, err := h.service.AdjustMaterial(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, material)
}

// ListBatches returns oil batches
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if fragranceID := c.Query("fragrance_id"); fragranceID != "" {
		filter.Filters["fragrance_id"] = fragranceID
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}

	batches, total, err := h.service.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// GetBatch returns one oil batch
func (h *InventoryHandler) GetBatch(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	batch, err := h.service.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// GetBatchByBarcode resolves a scanned batch barcode
func (h *InventoryHandler) GetBatchByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		h.BadRequest(c, "Missing barcode parameter")
		return
	}

	batch, err := h.service.GetBatchByBarcode(c.Request.Context(), barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// CalibrateBatch records a measured volume against the theoretical one
func (h *InventoryHandler) CalibrateBatch(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req appinventory.CalibrateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Measured volume is required")
		return
	}

	batch, err := h.service.CalibrateBatch(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

type setBatchLockRequest struct {
	Locked bool `json:"locked"`
}

// SetBatchLock locks or unlocks a batch for production use
func (h *InventoryHandler) SetBatchLock(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req setBatchLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid lock payload")
		return
	}

	batch, err := h.service.SetBatchLock(c.Request.Context(), id, req.Locked, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// CheckoutTool registers a tool as taken by the authenticated user
func (h *InventoryHandler) CheckoutTool(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appinventory.CheckoutToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Material id is required")
		return
	}

	checkout, err := h.service.CheckoutTool(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, checkout)
}

type returnToolRequest struct {
	MaterialID string `json:"material_id" binding:"required,uuid"`
}

// ReturnTool closes the open checkout for a tool
func (h *InventoryHandler) ReturnTool(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req returnToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Material id is required")
		return
	}
	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		h.BadRequest(c, "Invalid material id")
		return
	}

	checkout, err := h.service.ReturnTool(c.Request.Context(), materialID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, checkout)
}

// ListCheckouts returns tool usage records
func (h *InventoryHandler) ListCheckouts(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if open := c.Query("open"); open == "true" {
		filter.Filters["open"] = true
	}

	checkouts, total, err := h.service.ListCheckouts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, checkouts, total, filter.Page, filter.PageSize)
}
