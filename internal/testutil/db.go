// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/bookreview/internal/database"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// NewTestDB opens a private in-memory SQLite database with the schema applied.
// A single connection keeps every goroutine on the same database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Book{}, &models.Review{}))

	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// NewLogger returns a logger that discards everything.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, Password: "$2a$04$placeholderplaceholderplaceholderplaceholderpla"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateBook inserts a book owned by creatorID.
func CreateBook(t *testing.T, db *gorm.DB, creatorID uint, title, genre, author string) *models.Book {
	t.Helper()

	book := &models.Book{Title: title, Genre: genre, Author: author, CreatedBy: creatorID}
	require.NoError(t, db.Create(book).Error)
	return book
}
