package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
)

// ErrTooManyAttempts is returned once a client has used up its login attempts for an address
var ErrTooManyAttempts = errors.New("too many login attempts, try again later")

// LoginLimiter counts failed logins per subject inside a fixed window.
// Callers build the subject with LoginKey.
type LoginLimiter interface {
	// Allow reports whether another login attempt may be made for subject
	Allow(ctx context.Context, subject string) (bool, error)

	// RecordFailure counts a failed attempt, starting the window on the first one
	RecordFailure(ctx context.Context, subject string) error

	// Reset clears the counter after a successful login
	Reset(ctx context.Context, subject string) error
}

// LoginKey scopes attempts to an email and the client address, so failures
// from one client cannot lock the account out for everyone else.
func LoginKey(email, clientIP string) string {
	return email + ":" + clientIP
}

type redisLoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	logger      *slog.Logger
}

// NewLoginLimiter creates a Redis-based login limiter on a shared connection.
// The caller owns the client and closes it.
func NewLoginLimiter(client *redis.Client, cfg *config.Config, logger *slog.Logger) LoginLimiter {
	logger.Info("✅ [RateLimiter] Login limiter ready",
		"max_attempts", cfg.LoginMaxAttempts,
		"window_seconds", cfg.LoginWindow,
	)

	return &redisLoginLimiter{
		client:      client,
		maxAttempts: cfg.LoginMaxAttempts,
		window:      time.Duration(cfg.LoginWindow) * time.Second,
		logger:      logger,
	}
}

// loginKey generates the Redis key for failed login attempts
// Format: rate:login:{email}:{client_ip}
func loginKey(subject string) string {
	return fmt.Sprintf("rate:login:%s", subject)
}

func (r *redisLoginLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	// Zero or negative disables the limit
	if r.maxAttempts <= 0 {
		return true, nil
	}

	count, err := r.client.Get(ctx, loginKey(subject)).Int64()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to get login attempts", "error", err, "subject", subject)
		// On error, allow the request but log it
		return true, err
	}

	return count < r.maxAttempts, nil
}

func (r *redisLoginLimiter) RecordFailure(ctx context.Context, subject string) error {
	key := loginKey(subject)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment login attempts", "error", err, "subject", subject)
		return err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			r.logger.Error("❌ [RateLimiter] Failed to set login window", "error", err, "subject", subject)
			return err
		}
	}

	if count >= r.maxAttempts && r.maxAttempts > 0 {
		r.logger.Warn("⚠️ [RateLimiter] Login attempts exhausted", "subject", subject, "attempts", count)
	}
	return nil
}

func (r *redisLoginLimiter) Reset(ctx context.Context, subject string) error {
	if err := r.client.Del(ctx, loginKey(subject)).Err(); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to reset login attempts", "error", err, "subject", subject)
		return err
	}
	return nil
}

// NoOpLoginLimiter is a limiter that always allows attempts
// Used when Redis is not available
type NoOpLoginLimiter struct {
	logger *slog.Logger
}

// NewNoOpLoginLimiter creates a no-op login limiter
func NewNoOpLoginLimiter(logger *slog.Logger) LoginLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op login limiter - login rate limiting is disabled")
	return &NoOpLoginLimiter{logger: logger}
}

func (r *NoOpLoginLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	return true, nil
}

func (r *NoOpLoginLimiter) RecordFailure(ctx context.Context, subject string) error {
	return nil
}

func (r *NoOpLoginLimiter) Reset(ctx context.Context, subject string) error {
	return nil
}
