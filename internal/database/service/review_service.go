package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/bookreview/internal/database"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
	"github.com/EgehanKilicarslan/bookreview/internal/database/repository"
	"github.com/EgehanKilicarslan/bookreview/internal/worker"
)

const (
	cacheInvalidationTimeout = 5 * time.Second

	// A GetBook that read the database before the write may still store its
	// stale detail after the first invalidation. The second pass removes it.
	cacheSettleDelay = time.Second
)

// ReviewChanges carries a partial update. Nil fields are left untouched.
type ReviewChanges struct {
	Rating  *int
	Comment *string
}

// ReviewService enforces one review per user and book, and that only the
// author of a review can change or remove it.
type ReviewService interface {
	Create(ctx context.Context, userID uint, bookID uuid.UUID, rating int, comment string) (*models.Review, error)
	Update(ctx context.Context, reviewID uuid.UUID, userID uint, changes ReviewChanges) (*models.Review, error)
	Delete(ctx context.Context, reviewID uuid.UUID, userID uint) (*models.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	cache      database.BookCache
	pool       *worker.Pool
	logger     *slog.Logger

	settleDelay time.Duration
}

// NewReviewService creates a new review service instance
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo repository.BookRepository,
	cache database.BookCache,
	pool *worker.Pool,
	logger *slog.Logger,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		cache:      cache,
		pool:       pool,
		logger:     logger,

		settleDelay: cacheSettleDelay,
	}
}

func (s *reviewService) Create(ctx context.Context, userID uint, bookID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		s.logger.Error("❌ [ReviewService] Failed to load book", "error", err, "book_id", bookID)
		return nil, err
	}

	existing, err := s.reviewRepo.FindByUserAndBook(ctx, userID, bookID)
	if err != nil && !errors.Is(err, repository.ErrReviewNotFound) {
		s.logger.Error("❌ [ReviewService] Database error", "error", err)
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("⚠️ [ReviewService] Duplicate review", "user_id", userID, "book_id", bookID)
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		UserID:  userID,
		BookID:  bookID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewExists) {
			s.logger.Warn("⚠️ [ReviewService] Duplicate review rejected by storage", "user_id", userID, "book_id", bookID)
			return nil, ErrDuplicateReview
		}
		s.logger.Error("❌ [ReviewService] Failed to create review", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ReviewService] Review created", "review_id", review.ID, "user_id", userID, "book_id", bookID)
	s.invalidate(ctx, bookID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, reviewID uuid.UUID, userID uint, changes ReviewChanges) (*models.Review, error) {
	review, err := s.reviewRepo.FindByIDAndUser(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			s.logger.Warn("⚠️ [ReviewService] Update refused", "review_id", reviewID, "user_id", userID)
			return nil, ErrReviewNotFoundOrUnauthorized
		}
		s.logger.Error("❌ [ReviewService] Database error", "error", err)
		return nil, err
	}

	if changes.Rating != nil {
		review.Rating = *changes.Rating
	}
	if changes.Comment != nil {
		review.Comment = strings.TrimSpace(*changes.Comment)
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFoundOrUnauthorized
		}
		s.logger.Error("❌ [ReviewService] Failed to update review", "error", err)
		return nil, err
	}

	s.logger.Info("✅ [ReviewService] Review updated", "review_id", reviewID, "user_id", userID)
	s.invalidate(ctx, review.BookID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, reviewID uuid.UUID, userID uint) (*models.Review, error) {
	review, err := s.reviewRepo.DeleteByIDAndUser(ctx, reviewID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			s.logger.Warn("⚠️ [ReviewService] Delete refused", "review_id", reviewID, "user_id", userID)
			return nil, ErrReviewNotFoundOrUnauthorized
		}
		s.logger.Error("❌ [ReviewService] Failed to delete review", "error", err)
		return nil, err
	}

	s.logger.Info("🗑️ [ReviewService] Review deleted", "review_id", reviewID, "user_id", userID)
	s.invalidate(ctx, review.BookID)
	return review, nil
}

// invalidate drops the cached detail of a book right away and once more
// after settleDelay
func (s *reviewService) invalidate(ctx context.Context, bookID uuid.UUID) {
	if err := s.cache.InvalidateBook(ctx, bookID); err != nil {
		s.logger.Warn("⚠️ [ReviewService] Failed to invalidate book cache", "error", err, "book_id", bookID)
	}

	s.pool.SubmitWithTimeout(s.settleDelay+cacheInvalidationTimeout, func(ctx context.Context) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.settleDelay):
		}

		if err := s.cache.InvalidateBook(ctx, bookID); err != nil {
			s.logger.Warn("⚠️ [ReviewService] Failed to invalidate book cache", "error", err, "book_id", bookID)
		}
	})
}

// Service errors for reviews
var (
	ErrDuplicateReview              = errors.New("you have already reviewed this book")
	ErrReviewNotFoundOrUnauthorized = errors.New("review not found or unauthorized")
)
