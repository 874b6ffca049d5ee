package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/lcree/backend/internal/application/catalog"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
)

// CatalogHandler serves fragrances, containers and recipes
type CatalogHandler struct {
	BaseHandler
	service *appcatalog.Service
}

// NewCatalogHandler creates a CatalogHandler
func NewCatalogHandler(service *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers catalog routes. Catalog writes are admin only.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRole(string(identity.RoleAdmin))

	fragrances := rg.Group("/fragrances")
	fragrances.POST("", admin, h.CreateFragrance)
	fragrances.GET("", h.ListFragrances)
	fragrances.GET("/:id", h.GetFragrance)
	fragrances.PUT("/:id", admin, h.UpdateFragrance)
	fragrances.DELETE("/:id", admin, h.DeleteFragrance)

	containers := rg.Group("/containers")
	containers.POST("", admin, h.CreateContainer)
	containers.GET("", h.ListContainers)
	containers.GET("/:id", h.GetContainer)
	containers.PUT("/:id", admin, h.UpdateContainer)
	containers.DELETE("/:id", admin, h.DeleteContainer)
	containers.GET("/:id/active-recipe", h.GetActiveRecipe)

	recipes := rg.Group("/recipes")
	recipes.POST("", admin, h.CreateRecipe)
	recipes.GET("", h.ListRecipes)
	recipes.GET("/:id", h.GetRecipe)
}

// CreateFragrance adds a fragrance to the catalog
func (h *CatalogHandler) CreateFragrance(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcatalog.CreateFragranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid fragrance payload")
		return
	}

	fragrance, err := h.service.CreateFragrance(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fragrance)
}

// UpdateFragrance edits fragrance master data
func (h *CatalogHandler) UpdateFragrance(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req appcatalog.UpdateFragranceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid fragrance payload")
		return
	}

	fragrance, err := h.service.UpdateFragrance(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fragrance)
}

// DeleteFragrance soft-deletes a fragrance
func (h *CatalogHandler) DeleteFragrance(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteFragrance(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetFragrance returns one fragrance
func (h *CatalogHandler) GetFragrance(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	fragrance, err := h.service.GetFragrance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fragrance)
}

// ListFragrances returns fragrances
func (h *CatalogHandler) ListFragrances(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if gender := c.Query("gender"); gender != "" {
		filter.Filters["gender"] = gender
	}

	fragrances, total, err := h.service.ListFragrances(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, fragrances, total, filter.Page, filter.PageSize)
}

// CreateContainer adds a container to the catalog
func (h *CatalogHandler) CreateContainer(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcatalog.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid container payload")
		return
	}

	container, err := h.service.CreateContainer(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, container)
}

// UpdateContainer edits container pricing and status. Fill volume and
// type stay fixed after creation.
func (h *CatalogHandler) UpdateContainer(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	var req appcatalog.UpdateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid container payload")
		return
	}

	container, err := h.service.UpdateContainer(c.Request.Context(), id, req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, container)
}

// DeleteContainer soft-deletes a container
func (h *CatalogHandler) DeleteContainer(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteContainer(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetContainer returns one container
func (h *CatalogHandler) GetContainer(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	container, err := h.service.GetContainer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, container)
}

// ListContainers returns containers
func (h *CatalogHandler) ListContainers(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	containers, total, err := h.service.ListContainers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, containers, total, filter.Page, filter.PageSize)
}

// CreateRecipe activates a new recipe for a container, replacing the
// previously active one
func (h *CatalogHandler) CreateRecipe(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcatalog.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid recipe payload")
		return
	}

	recipe, err := h.service.CreateRecipe(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, recipe)
}

// GetRecipe returns one recipe with its components
func (h *CatalogHandler) GetRecipe(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	recipe, err := h.service.GetRecipe(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// GetActiveRecipe returns the active recipe of a container
func (h *CatalogHandler) GetActiveRecipe(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	recipe, err := h.service.GetActiveRecipe(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, recipe)
}

// ListRecipes returns recipes
func (h *CatalogHandler) ListRecipes(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	if containerID := c.Query("container_id"); containerID != "" {
		filter.Filters["container_id"] = containerID
	}

	recipes, total, err := h.service.ListRecipes(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, recipes, total, filter.Page, filter.PageSize)
}
