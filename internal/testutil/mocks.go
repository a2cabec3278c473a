package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// ==================== MOCK BOOK CACHE ====================

// MockBookCache implements database.BookCache for testing
type MockBookCache struct {
	mock.Mock
}

func (m *MockBookCache) GetBookDetail(ctx context.Context, bookID uuid.UUID) (*models.BookDetail, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookDetail), args.Error(1)
}

func (m *MockBookCache) SetBookDetail(ctx context.Context, detail *models.BookDetail) error {
	args := m.Called(ctx, detail)
	return args.Error(0)
}

func (m *MockBookCache) InvalidateBook(ctx context.Context, bookID uuid.UUID) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *MockBookCache) Close() error {
	args := m.Called()
	return args.Error(0)
}
