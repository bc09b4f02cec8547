package repository

import (
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a migrated in-memory SQLite database private to the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB returns a gorm handle speaking the postgres dialect to sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// createPost inserts a post whose created_at is minutesAgo before baseTime.
func createPost(t *testing.T, db *gorm.DB, userID uint, title string, minutesAgo int) *models.Post {
	t.Helper()
	ts := baseTime.Add(-time.Duration(minutesAgo) * time.Minute)
	p := &models.Post{Title: title, Content: title + " body", UserID: userID, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, db.Omit("User").Create(p).Error)
	return p
}

func createComment(t *testing.T, db *gorm.DB, postID, userID uint, content string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, UserID: userID, Content: content}
	require.NoError(t, db.Omit("User").Create(c).Error)
	return c
}
