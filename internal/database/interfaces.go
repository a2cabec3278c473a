package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// BookCache stores rendered book details keyed by book ID
type BookCache interface {
	// GetBookDetail returns (nil, nil) on a cache miss
	GetBookDetail(ctx context.Context, bookID uuid.UUID) (*models.BookDetail, error)
	SetBookDetail(ctx context.Context, detail *models.BookDetail) error
	InvalidateBook(ctx context.Context, bookID uuid.UUID) error
	Close() error
}
