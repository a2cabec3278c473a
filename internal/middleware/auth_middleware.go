package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/bookreview/internal/auth"
	"github.com/EgehanKilicarslan/bookreview/internal/database/service"
	"github.com/EgehanKilicarslan/bookreview/internal/metrics"
)

const (
	// IdentityKey is the gin context key holding the authenticated auth.Identity
	IdentityKey = "identity"
	// TokenCookie is the cookie set on login
	TokenCookie = "token"
)

// AuthMiddleware guards routes that need an authenticated user
type AuthMiddleware struct {
	service service.AuthService
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, metrics *metrics.Metrics, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// RequireAuth validates the session token and stores the identity in the context.
// Every failure gets the same response so callers cannot probe token state.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			m.logger.Warn("⚠️ [Middleware] Missing credentials", "path", c.FullPath())
			m.reject(c, metrics.ReasonMissingToken)
			return
		}

		identity, err := m.service.Authenticate(tokenString)
		if err != nil {
			reason := rejectionReason(err)
			m.logger.Warn("⚠️ [Middleware] Invalid token", "reason", reason)
			m.reject(c, reason)
			return
		}

		c.Set(IdentityKey, identity)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", identity.UserID)

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, reason string) {
	m.metrics.AuthRejected(reason)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Authorization required",
		"status":  false,
	})
}

// extractToken prefers the login cookie and falls back to a Bearer header
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}

	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return metrics.ReasonExpired
	case errors.Is(err, auth.ErrTokenSignatureInvalid):
		return metrics.ReasonSignatureInvalid
	default:
		return metrics.ReasonMalformed
	}
}

// GetIdentity returns the identity stored by RequireAuth
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	value, exists := c.Get(IdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := value.(auth.Identity)
	return identity, ok
}
