package database

import (
	"context"
	"testing"

	"unifollow/internal/core/user"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// هر اتصال جدید به :memory: یک دیتابیس خالی است
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUsers(t *testing.T, repo *UserRepositoryDatabase, ids ...string) {
	t.Helper()
	for _, id := range ids {
		_, err := repo.Create(context.Background(), &user.User{ID: id, DisplayName: "User " + id, Username: id})
		require.NoError(t, err)
	}
}
