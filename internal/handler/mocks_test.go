package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
)

// ==================== MOCK AUTH SERVICE ====================

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, *service.SessionToken, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.User), args.Get(1).(*service.SessionToken), args.Error(2)
}

func (m *MockAuthService) Authenticate(tokenString string) (auth.Identity, error) {
	args := m.Called(tokenString)
	return args.Get(0).(auth.Identity), args.Error(1)
}

// ==================== MOCK LOGIN LIMITER ====================

type MockLoginLimiter struct {
	mock.Mock
}

func (m *MockLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoginLimiter) RecordFailure(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockLoginLimiter) Reset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

// ==================== MOCK BOOK SERVICE ====================

type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) AddBook(ctx context.Context, creatorID uint, title, genre, author string) (*models.Book, error) {
	args := m.Called(ctx, creatorID, title, genre, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookService) ListBooks(ctx context.Context, author, genre string, page, limit int) (*service.BookPage, error) {
	args := m.Called(ctx, author, genre, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookPage), args.Error(1)
}

func (m *MockBookService) SearchBooks(ctx context.Context, title, author string, page, limit int) (*service.BookPage, error) {
	args := m.Called(ctx, title, author, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BookPage), args.Error(1)
}

func (m *MockBookService) GetBook(ctx context.Context, id uuid.UUID) (*models.BookDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookDetail), args.Error(1)
}

// ==================== MOCK REVIEW SERVICE ====================

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, userID uint, bookID uuid.UUID, rating int, comment string) (*models.Review, error) {
	args := m.Called(ctx, userID, bookID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, reviewID uuid.UUID, userID uint, changes service.ReviewChanges) (*models.Review, error) {
	args := m.Called(ctx, reviewID, userID, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, reviewID uuid.UUID, userID uint) (*models.Review, error) {
	args := m.Called(ctx, reviewID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}
