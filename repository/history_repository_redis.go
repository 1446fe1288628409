package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"fipe-web/domain"
)

// HistoryRepositoryRedis keeps the history in a Redis list trimmed to the
// most recent capacity entries.
type HistoryRepositoryRedis struct {
	client   *redis.Client
	key      string
	capacity int64
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

func NewHistoryRepositoryRedis(opts RedisOptions, capacity int) *HistoryRepositoryRedis {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewHistoryRepositoryRedisWithClient(rdb, opts.Key, capacity)
}

func NewHistoryRepositoryRedisWithClient(client *redis.Client, key string, capacity int) *HistoryRepositoryRedis {
	if capacity <= 0 {
		capacity = 1
	}
	return &HistoryRepositoryRedis{
		client:   client,
		key:      key,
		capacity: int64(capacity),
	}
}

func (r *HistoryRepositoryRedis) Append(ctx context.Context, entry domain.HistoryEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, payload)
		pipe.LTrim(ctx, r.key, -r.capacity, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append history entry: %w", err)
	}
	return nil
}

func (r *HistoryRepositoryRedis) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	values, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	entries := make([]domain.HistoryEntry, 0, len(values))
	for _, v := range values {
		var entry domain.HistoryEntry
		if err := json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, fmt.Errorf("decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ping checks connectivity to the Redis server.
func (r *HistoryRepositoryRedis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *HistoryRepositoryRedis) Close() error {
	return r.client.Close()
}
