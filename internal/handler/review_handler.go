package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
	"github.com/EgehanKilicarslan/bookreview/internal/validation"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service service.ReviewService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service service.ReviewService, metrics *metrics.Metrics, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required,notblank,max=5000"`
}

// UpdateReviewRequest fields are optional, but a supplied field must be valid
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitnil,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitnil,notblank,max=5000"`
}

// AddReview handles POST /review/books/:id/add-reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	bookID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid book ID")
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid add review request", "error", err)
		fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	review, err := h.service.Create(c.Request.Context(), identity.UserID, bookID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateReview) {
			h.metrics.ReviewConflict()
		}
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "Review added successfully.", review)
}

// UpdateReview handles PUT /review/update-review/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid update review request", "error", err)
		fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	review, err := h.service.Update(c.Request.Context(), reviewID, identity.UserID, service.ReviewChanges{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Review updated successfully.", review)
}

// DeleteReview handles DELETE /review/delete-review/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	review, err := h.service.Delete(c.Request.Context(), reviewID, identity.UserID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Review deleted successfully.", review)
}
