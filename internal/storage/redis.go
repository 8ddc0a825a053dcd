package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const defaultSessionTTL = 24 * time.Hour

// Options configures a RedisStorage.
type Options struct {
	RedisURL        string        // redis://host:port/db or a bare host:port
	DataDir         string        // root of characters/
	EncounterTables string        // optional JSON file; embedded defaults when empty
	SessionTTL      time.Duration // expiry refreshed on every save
}

// RedisStorage implements the Storage interface using Redis for sessions
// and the filesystem for static resources (characters, encounter tables)
type RedisStorage struct {
	client     *redis.Client
	logger     *slog.Logger
	dataDir    string
	tablesPath string
	ttl        time.Duration

	tablesMu sync.Mutex
	tables   *encounter.Tables
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(opts Options, logger *slog.Logger) (*RedisStorage, error) {
	redisOpts, err := parseRedisURL(opts.RedisURL)
	if err != nil {
		return nil, err
	}

	if opts.DataDir == "" {
		opts.DataDir = "./data"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}

	return &RedisStorage{
		client:     redis.NewClient(redisOpts),
		logger:     logger,
		dataDir:    opts.DataDir,
		tablesPath: opts.EncounterTables,
		ttl:        opts.SessionTTL,
	}, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	if raw == "" {
		raw = "localhost:6379"
	}
	if !strings.Contains(raw, "://") {
		return &redis.Options{Addr: raw}, nil
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return opts, nil
}

// Client returns the underlying Redis client, shared with the event broadcaster
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := range maxRetries {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}
