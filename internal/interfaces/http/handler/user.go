package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/lcree/backend/internal/application/identity"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
)

// UserHandler serves user administration, admin role only
type UserHandler struct {
	BaseHandler
	identity *appidentity.Service
}

// NewUserHandler creates a UserHandler
func NewUserHandler(identity *appidentity.Service) *UserHandler {
	return &UserHandler{identity: identity}
}

// RegisterRoutes registers user administration routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users", middleware.RequireRole(string(identity.RoleAdmin)))
	users.POST("", h.Create)
	users.GET("", h.List)
	users.GET("/:id", h.Get)
	users.DELETE("/:id", h.Deactivate)
}

// Create adds a new user account
func (h *UserHandler) Create(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid user payload")
		return
	}

	user, err := h.identity.CreateUser(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List returns all user accounts
func (h *UserHandler) List(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	users, total, err := h.identity.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Get returns one user account
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}

	user, err := h.identity.GetUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate disables a user account
func (h *UserHandler) Deactivate(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindID(c)
	if !ok {
		return
	}

	if err := h.identity.DeactivateUser(c.Request.Context(), id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
