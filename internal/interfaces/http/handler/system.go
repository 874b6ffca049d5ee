package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks a dependency, typically the database connection
type Pinger func(ctx context.Context) error

// SystemHandler serves health checks
type SystemHandler struct {
	BaseHandler
	ping    Pinger
	started time.Time
	version string
}

// NewSystemHandler creates a SystemHandler
func NewSystemHandler(ping Pinger, version string) *SystemHandler {
	return &SystemHandler{ping: ping, started: time.Now(), version: version}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// HealthResponse reports process and database health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version,omitempty"`
	Uptime   string `json:"uptime"`
}

// Health reports liveness and database reachability
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
	}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
		}
	}
	h.Success(c, resp)
}
