package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
	"github.com/EgehanKilicarslan/bookreview/internal/database/models"
)

// RedisClient caches book details in Redis
type RedisClient struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.Config, logger *slog.Logger) (*RedisClient, error) {
	logger.Info("🔌 [Redis] Connecting to Redis...",
		"host", cfg.RedisHost,
		"port", cfg.RedisPort,
		"db", cfg.RedisDB,
	)

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       int(cfg.RedisDB),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("✅ [Redis] Redis connection established")

	return NewRedisClientWithClient(client, cfg, logger), nil
}

// NewRedisClientWithClient wraps an existing redis.Client
func NewRedisClientWithClient(client *redis.Client, cfg *config.Config, logger *slog.Logger) *RedisClient {
	return &RedisClient{
		client: client,
		logger: logger,
		ttl:    time.Duration(cfg.BookCacheTTL) * time.Second,
	}
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Client exposes the underlying connection so other Redis-backed stores can share it
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

func bookDetailKey(bookID uuid.UUID) string {
	return fmt.Sprintf("book:%s:detail", bookID.String())
}

func (r *RedisClient) GetBookDetail(ctx context.Context, bookID uuid.UUID) (*models.BookDetail, error) {
	data, err := r.client.Get(ctx, bookDetailKey(bookID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("❌ [Redis] Failed to get book detail", "book_id", bookID, "error", err)
		return nil, err
	}

	var detail models.BookDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		// Corrupt entries are dropped and treated as a miss
		r.logger.Warn("⚠️ [Redis] Failed to unmarshal book detail, evicting", "book_id", bookID, "error", err)
		r.client.Del(ctx, bookDetailKey(bookID))
		return nil, nil
	}

	r.logger.Debug("📖 [Redis] Book detail cache hit", "book_id", bookID)
	return &detail, nil
}

func (r *RedisClient) SetBookDetail(ctx context.Context, detail *models.BookDetail) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, bookDetailKey(detail.Book.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to cache book detail", "book_id", detail.Book.ID, "error", err)
		return err
	}

	r.logger.Debug("💾 [Redis] Cached book detail", "book_id", detail.Book.ID, "ttl", r.ttl)
	return nil
}

func (r *RedisClient) InvalidateBook(ctx context.Context, bookID uuid.UUID) error {
	if err := r.client.Del(ctx, bookDetailKey(bookID)).Err(); err != nil {
		r.logger.Error("❌ [Redis] Failed to invalidate book detail", "book_id", bookID, "error", err)
		return err
	}

	r.logger.Debug("🗑️ [Redis] Invalidated book detail", "book_id", bookID)
	return nil
}

// NoOpBookCache never stores anything. Used when Redis is not available.
type NoOpBookCache struct{}

// NewNoOpBookCache creates a cache that always misses
func NewNoOpBookCache(logger *slog.Logger) BookCache {
	logger.Warn("⚠️ [Redis] Using no-op book cache - caching is disabled")
	return NoOpBookCache{}
}

func (NoOpBookCache) GetBookDetail(context.Context, uuid.UUID) (*models.BookDetail, error) {
	return nil, nil
}

func (NoOpBookCache) SetBookDetail(context.Context, *models.BookDetail) error { return nil }

func (NoOpBookCache) InvalidateBook(context.Context, uuid.UUID) error { return nil }

func (NoOpBookCache) Close() error { return nil }
