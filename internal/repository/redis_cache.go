package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/strideworks/stride/internal/domain"
)

// RedisAnalysisCacheRepo implements AnalysisCacheRepo on Redis. Entries
// carry a TTL equal to the freshness window, so Redis evicts stale entries
// on its own; the service-level age check still applies for consistency
// with the SQLite backend.
type RedisAnalysisCacheRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAnalysisCacheRepo connects to Redis using the given URL and
// verifies the connection.
func NewRedisAnalysisCacheRepo(ctx context.Context, url string, ttl time.Duration) (*RedisAnalysisCacheRepo, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisAnalysisCacheRepo{client: client, ttl: ttl}, nil
}

func cacheKey(conversationID string, intent domain.IntentType) string {
	return fmt.Sprintf("analysis:%s:%s", conversationID, intent)
}

func (r *RedisAnalysisCacheRepo) Put(ctx context.Context, a *domain.AnalysisResult) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling analysis entry: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(a.ConversationID, a.Intent), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("storing analysis entry: %w", err)
	}
	return nil
}

func (r *RedisAnalysisCacheRepo) Get(ctx context.Context, conversationID string, intent domain.IntentType) (*domain.AnalysisResult, error) {
	data, err := r.client.Get(ctx, cacheKey(conversationID, intent)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("analysis cache entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("loading analysis entry: %w", err)
	}

	var a domain.AnalysisResult
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return nil, fmt.Errorf("decoding analysis entry: %w", err)
	}
	return &a, nil
}

// Close releases the Redis connection.
func (r *RedisAnalysisCacheRepo) Close() error {
	return r.client.Close()
}
