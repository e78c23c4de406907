package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Thomas-lee31/Bucky-s-Menu/models"
)

// newTestDB opens an isolated in-memory database with the full schema.
// cache=shared keeps the database alive across pooled connections; the
// random name keeps tests from seeing each other's data.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.MenuItem{},
		&models.UserSettings{},
	))
	return db
}

func mustUpsert(t *testing.T, menu *MenuService, items ...models.MenuItem) {
	t.Helper()
	_, err := menu.UpsertMenuItems(items)
	require.NoError(t, err)
}
