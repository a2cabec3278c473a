package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// BookFilter narrows book listings. Empty fields match everything; set
// fields are case-insensitive substring matches.
type BookFilter struct {
	Title  string
	Author string
	Genre  string
}

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	List(ctx context.Context, filter BookFilter, offset, limit int) ([]models.Book, int64, error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository instance
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var book models.Book
	err := r.db.WithContext(ctx).First(&book, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, filter BookFilter, offset, limit int) ([]models.Book, int64, error) {
	var books []models.Book
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.filtered(ctx, filter).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&books).Error

	return books, total, err
}

func (r *bookRepository) filtered(ctx context.Context, filter BookFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Book{})
	for column, value := range map[string]string{
		"title":  filter.Title,
		"author": filter.Author,
		"genre":  filter.Genre,
	} {
		if value == "" {
			continue
		}
		query = query.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", containsPattern(value))
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value literally anywhere.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

// Repository errors for books
var (
	ErrBookNotFound = errors.New("book not found")
)
