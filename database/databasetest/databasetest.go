// Package databasetest opens throwaway in-memory databases migrated with the
// production models.
package databasetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rpupo63/blog-platform-backend/database"
	"github.com/rpupo63/blog-platform-backend/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated, private in-memory SQLite database. It is closed
// when the test finishes.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.Migrate(db))
	return db
}

// New wraps Open in the repository aggregate.
func New(t testing.TB) database.Database {
	t.Helper()
	return database.New(Open(t))
}

// CreateUser inserts a user with the given username.
func CreateUser(t testing.TB, db database.Database, username string) *models.User {
	t.Helper()
	user := &models.User{
		Subject:  "subject-" + username,
		Username: username,
		Fullname: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, db.UserRepo().Add(context.Background(), user))
	return user
}
