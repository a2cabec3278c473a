package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/bookreview/internal/database"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
	"github.com/EgehanKilicarslan/bookreview/internal/database/repository"
)

// Paging defaults
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	MaxPageLimit     = 100

	detailReviewLimit = 10
)

// Pagination describes the window returned by a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// BookPage is one page of books plus its pagination block
type BookPage struct {
	Books      []models.Book
	Pagination Pagination
}

// BookService defines the interface for book business logic
type BookService interface {
	AddBook(ctx context.Context, creatorID uint, title, genre, author string) (*models.Book, error)
	ListBooks(ctx context.Context, author, genre string, page, limit int) (*BookPage, error)
	SearchBooks(ctx context.Context, title, author string, page, limit int) (*BookPage, error)
	GetBook(ctx context.Context, id uuid.UUID) (*models.BookDetail, error)
}

type bookService struct {
	bookRepo   repository.BookRepository
	reviewRepo repository.ReviewRepository
	cache      database.BookCache
	logger     *slog.Logger
}

// NewBookService creates a new book service instance
func NewBookService(
	bookRepo repository.BookRepository,
	reviewRepo repository.ReviewRepository,
	cache database.BookCache,
	logger *slog.Logger,
) BookService {
	return &bookService{
		bookRepo:   bookRepo,
		reviewRepo: reviewRepo,
		cache:      cache,
		logger:     logger,
	}
}

func (s *bookService) AddBook(ctx context.Context, creatorID uint, title, genre, author string) (*models.Book, error) {
	book := &models.Book{
		Title:     strings.TrimSpace(title),
		Genre:     strings.TrimSpace(genre),
		Author:    strings.TrimSpace(author),
		CreatedBy: creatorID,
	}

	if err := s.bookRepo.Create(ctx, book); err != nil {
		s.logger.Error("❌ [BookService] Failed to create book", "error", err, "user_id", creatorID)
		return nil, err
	}

	s.logger.Info("📚 [BookService] Book added", "book_id", book.ID, "user_id", creatorID)
	return book, nil
}

func (s *bookService) ListBooks(ctx context.Context, author, genre string, page, limit int) (*BookPage, error) {
	return s.list(ctx, repository.BookFilter{Author: author, Genre: genre}, page, limit)
}

func (s *bookService) SearchBooks(ctx context.Context, title, author string, page, limit int) (*BookPage, error) {
	return s.list(ctx, repository.BookFilter{Title: title, Author: author}, page, limit)
}

func (s *bookService) list(ctx context.Context, filter repository.BookFilter, page, limit int) (*BookPage, error) {
	page, limit = NormalizePage(page, limit)

	books, total, err := s.bookRepo.List(ctx, filter, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("❌ [BookService] Failed to list books", "error", err)
		return nil, err
	}
	if books == nil {
		books = []models.Book{}
	}

	return &BookPage{
		Books: books,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	}, nil
}

// GetBook returns the book with its average rating and latest reviews.
// Cache failures degrade to a database read.
func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*models.BookDetail, error) {
	cached, err := s.cache.GetBookDetail(ctx, id)
	if err != nil {
		s.logger.Warn("⚠️ [BookService] Cache read failed", "error", err, "book_id", id)
	}
	if cached != nil {
		return cached, nil
	}

	book, err := s.bookRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		s.logger.Error("❌ [BookService] Failed to load book", "error", err, "book_id", id)
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, id, detailReviewLimit)
	if err != nil {
		s.logger.Error("❌ [BookService] Failed to load reviews", "error", err, "book_id", id)
		return nil, err
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	avg, err := s.reviewRepo.AverageRating(ctx, id)
	if err != nil {
		s.logger.Error("❌ [BookService] Failed to compute average rating", "error", err, "book_id", id)
		return nil, err
	}

	detail := &models.BookDetail{
		Book:          *book,
		AverageRating: avg,
		Reviews:       reviews,
	}

	if err := s.cache.SetBookDetail(ctx, detail); err != nil {
		s.logger.Warn("⚠️ [BookService] Cache write failed", "error", err, "book_id", id)
	}

	return detail, nil
}

// NormalizePage applies defaults and caps to caller supplied paging values
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Service errors for books
var (
	ErrBookNotFound = errors.New("book not found")
)
