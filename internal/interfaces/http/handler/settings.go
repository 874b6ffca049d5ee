package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/domain/settings"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// SettingsHandler serves the system settings singleton
type SettingsHandler struct {
	BaseHandler
	settings settings.Repository
}

// NewSettingsHandler creates a SettingsHandler
func NewSettingsHandler(repo settings.Repository) *SettingsHandler {
	return &SettingsHandler{settings: repo}
}

// RegisterRoutes registers settings routes. Updates are admin only.
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.Get)
	rg.PUT("/settings", middleware.RequireRole(string(identity.RoleAdmin)), h.Update)
}

// SettingsResponse is the settings singleton on the wire
type SettingsResponse struct {
	CompanyName              string          `json:"company_name"`
	Currency                 string          `json:"currency"`
	QRBaseURL                string          `json:"qr_base_url"`
	PrintAgentURL            string          `json:"print_agent_url"`
	DefaultLossFactorPercent decimal.Decimal `json:"default_loss_factor_percent"`
}

// UpdateSettingsRequest replaces the settings singleton
type UpdateSettingsRequest struct {
	CompanyName              string          `json:"company_name" binding:"required,max=100"`
	Currency                 string          `json:"currency" binding:"required,len=3"`
	QRBaseURL                string          `json:"qr_base_url" binding:"required,url"`
	PrintAgentURL            string          `json:"print_agent_url" binding:"omitempty,url"`
	DefaultLossFactorPercent decimal.Decimal `json:"default_loss_factor_percent"`
}

func toSettingsResponse(s *settings.SystemSettings) SettingsResponse {
	return SettingsResponse{
		CompanyName:              s.CompanyName,
		Currency:                 s.Currency,
		QRBaseURL:                s.QRBaseURL,
		PrintAgentURL:            s.PrintAgentURL,
		DefaultLossFactorPercent: s.DefaultLossFactorPercent,
	}
}

// Get returns the current settings
func (h *SettingsHandler) Get(c *gin.Context) {
	current, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSettingsResponse(current))
}

// Update replaces the settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid settings payload")
		return
	}

	current, err := h.settings.Load(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	current.CompanyName = req.CompanyName
	current.Currency = req.Currency
	current.QRBaseURL = req.QRBaseURL
	current.PrintAgentURL = req.PrintAgentURL
	current.DefaultLossFactorPercent = req.DefaultLossFactorPercent

	if err := h.settings.Save(c.Request.Context(), current); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSettingsResponse(current))
}
