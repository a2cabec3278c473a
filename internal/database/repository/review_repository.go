package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// ReviewRepository defines the interface for review data operations.
// Every mutation is scoped by the owning user ID.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByUserAndBook(ctx context.Context, userID uint, bookID uuid.UUID) (*models.Review, error)
	FindByIDAndUser(ctx context.Context, id uuid.UUID, userID uint) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	DeleteByIDAndUser(ctx context.Context, id uuid.UUID, userID uint) (*models.Review, error)

	ListByBook(ctx context.Context, bookID uuid.UUID, limit int) ([]models.Review, error)
	AverageRating(ctx context.Context, bookID uuid.UUID) (float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository instance
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// ==================== Mutations ====================

// Create inserts the review. The unique index on (user_id, book_id) turns a
// concurrent second insert into ErrReviewExists.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrReviewExists
	}
	return err
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ? AND user_id = ?", review.ID, review.UserID).
		Updates(map[string]interface{}{
			"rating":     review.Rating,
			"comment":    review.Comment,
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	review.UpdatedAt = now
	return nil
}

// DeleteByIDAndUser removes the review only if userID owns it and returns
// the removed row. Only one of several concurrent callers can succeed.
func (r *reviewRepository) DeleteByIDAndUser(ctx context.Context, id uuid.UUID, userID uint) (*models.Review, error) {
	var deleted models.Review

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&deleted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReviewNotFound
			}
			return err
		}

		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Review{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &deleted, nil
}

// ==================== Lookups ====================

func (r *reviewRepository) FindByUserAndBook(ctx context.Context, userID uint, bookID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByIDAndUser(ctx context.Context, id uuid.UUID, userID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uuid.UUID, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) AverageRating(ctx context.Context, bookID uuid.UUID) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("book_id = ?", bookID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}

// Repository errors for reviews
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists for this user and book")
)
