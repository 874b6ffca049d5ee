package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/domain/settings"
	"github.com/lcree/backend/internal/infrastructure/persistence"
	"github.com/lcree/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// asRole injects claims the way the JWT middleware would, so handler
// tests do not need real tokens.
func asRole(role identity.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, uuid.New().String())
		c.Set(middleware.ContextKeyRole, string(role))
		c.Next()
	}
}

func newSettingsRouter(t *testing.T, role identity.UserRole) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&settings.SystemSettings{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	r := gin.New()
	r.Use(asRole(role))
	api := r.Group("/api/v1")
	NewSettingsHandler(persistence.NewGormSettingsRepository(db)).RegisterRoutes(api)
	return r
}

func TestSettingsHandler(t *testing.T) {
	t.Run("get returns defaults before first save", func(t *testing.T) {
		r := newSettingsRouter(t, identity.RoleViewer)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"company_name":"LCREE"`)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("admin can update settings", func(t *testing.T) {
		r := newSettingsRouter(t, identity.RoleAdmin)
		body := `{"company_name":"LCREE Manufaktur","currency":"EUR",` +
			`"qr_base_url":"https://lcree.example.com","default_loss_factor_percent":"2.5"}`
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "LCREE Manufaktur")
	})

	t.Run("operator cannot update settings", func(t *testing.T) {
		r := newSettingsRouter(t, identity.RoleOperator)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("malformed payload answers 400", func(t *testing.T) {
		r := newSettingsRouter(t, identity.RoleAdmin)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/settings",
			strings.NewReader(`{"company_name":""}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
