package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
	"github.com/EgehanKilicarslan/bookreview/internal/middleware"
	"github.com/EgehanKilicarslan/bookreview/internal/validation"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service    service.AuthService
	limiter    middleware.LoginLimiter
	metrics    *metrics.Metrics
	cookieLife time.Duration
	logger     *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	service service.AuthService,
	limiter middleware.LoginLimiter,
	metrics *metrics.Metrics,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		service:    service,
		limiter:    limiter,
		metrics:    metrics,
		cookieLife: time.Duration(cfg.CookieExpireDays) * 24 * time.Hour,
		logger:     logger,
	}
}

// Request DTOs
type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles user registration
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid signup request", "error", err)
		fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	user, err := h.service.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	respond(c, http.StatusCreated, "User registered successfully", user)
}

// Login verifies credentials, sets the session cookie and returns the token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("⚠️ [Handler] Invalid login request", "error", err)
		fail(c, http.StatusBadRequest, validation.Message(err))
		return
	}

	ctx := c.Request.Context()
	email := service.NormalizeEmail(req.Email)
	attemptKey := middleware.LoginKey(email, c.ClientIP())

	allowed, err := h.limiter.Allow(ctx, attemptKey)
	if err != nil {
		h.logger.Warn("⚠️ [Handler] Login limiter unavailable", "error", err)
	}
	if !allowed {
		h.metrics.AuthRejected(metrics.ReasonTooManyAttempts)
		handleServiceError(c, h.logger, middleware.ErrTooManyAttempts)
		return
	}

	user, session, err := h.service.Login(ctx, email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if recordErr := h.limiter.RecordFailure(ctx, attemptKey); recordErr != nil {
				h.logger.Warn("⚠️ [Handler] Failed to record login failure", "error", recordErr)
			}
		}
		handleServiceError(c, h.logger, err)
		return
	}

	if err := h.limiter.Reset(ctx, attemptKey); err != nil {
		h.logger.Warn("⚠️ [Handler] Failed to reset login attempts", "error", err)
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieLife),
		MaxAge:   int(h.cookieLife.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	if origin := c.GetHeader("Origin"); origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   session.Token,
		"result":  user,
		"status":  true,
	})
}
