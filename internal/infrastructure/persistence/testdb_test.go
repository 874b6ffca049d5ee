package persistence

import (
	"fmt"
	"testing"

	"github.com/lcree/backend/internal/domain/audit"
	"github.com/lcree/backend/internal/domain/catalog"
	"github.com/lcree/backend/internal/domain/identity"
	"github.com/lcree/backend/internal/domain/inventory"
	"github.com/lcree/backend/internal/domain/procurement"
	"github.com/lcree/backend/internal/domain/production"
	"github.com/lcree/backend/internal/domain/settings"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database and migrates the
// full schema. The named shared-cache DSN keeps the database alive across
// the connections the sql pool opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Fragrance{},
		&catalog.Container{},
		&catalog.Recipe{},
		&catalog.RecipeComponent{},
		&inventory.OilBatch{},
		&inventory.Material{},
		&inventory.ToolCheckout{},
		&procurement.Order{},
		&procurement.OrderItem{},
		&production.Production{},
		&production.ProducedItem{},
		&production.ComponentUsage{},
		&production.Sale{},
		&audit.Record{},
		&settings.SystemSettings{},
		&identity.User{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
