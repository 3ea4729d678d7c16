package activation

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the set in a Redis SET. SADD is atomic, so concurrent
// activations from any number of processes never lose updates.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore parses url and returns a store using key.
func NewRedisStore(url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(opt), key), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// Ping checks the connection.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// LoadAll returns every member in ascending order.
func (r *RedisStore) LoadAll(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.key, err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q in %s: %w", m, r.key, err)
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Contains reports whether chatID is a member.
func (r *RedisStore) Contains(ctx context.Context, chatID int64) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, strconv.FormatInt(chatID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", r.key, err)
	}
	return ok, nil
}

// Add inserts chatID.
func (r *RedisStore) Add(ctx context.Context, chatID int64) (bool, error) {
	n, err := r.client.SAdd(ctx, r.key, strconv.FormatInt(chatID, 10)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add to %s: %w", r.key, err)
	}
	return n == 1, nil
}
