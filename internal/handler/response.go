package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/middleware"
)

// Response envelope shared by every endpoint
func respond(c *gin.Context, status int, message string, result any) {
	c.JSON(status, gin.H{
		"message": message,
		"status":  true,
		"result":  result,
	})
}

func respondPage(c *gin.Context, message string, result any, pagination service.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"message":    message,
		"status":     true,
		"result":     result,
		"pagination": pagination,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"message": message,
		"status":  false,
	})
}

// handleServiceError maps service errors to HTTP responses.
// Unknown errors are logged and never echoed to the client.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		fail(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		fail(c, http.StatusUnauthorized, "Authorization required")
	case errors.Is(err, middleware.ErrTooManyAttempts):
		fail(c, http.StatusTooManyRequests, "Too many login attempts, try again later")
	case errors.Is(err, service.ErrBookNotFound):
		fail(c, http.StatusNotFound, "Book not found")
	case errors.Is(err, service.ErrDuplicateReview):
		fail(c, http.StatusBadRequest, "You have already reviewed this book.")
	case errors.Is(err, service.ErrReviewNotFoundOrUnauthorized):
		fail(c, http.StatusNotFound, "Review not found or unauthorized")
	default:
		logger.Error("❌ [Handler] Internal server error", "error", err, "path", c.FullPath())
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentIdentity reads the identity set by the auth middleware.
// It writes a 401 and returns false when none is present.
func currentIdentity(c *gin.Context) (auth.Identity, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authorization required")
	}
	return identity, ok
}
