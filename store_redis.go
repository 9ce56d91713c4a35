package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 3 * time.Second

// RedisStore keeps the snapshot as a single JSON value so save and clear stay
// all-or-nothing. Useful when several gateway instances share one session.
type RedisStore struct {
	client  *redis.Client
	key     string
	timeout time.Duration
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "session:snapshot"
	}
	return &RedisStore{
		client:  client,
		key:     key,
		timeout: defaultRedisTimeout,
	}
}

func (r *RedisStore) Save(snapshot Snapshot) error {
	ctx, cancel := r.ctx()
	defer cancel()

	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, r.key, data, 0).Err()
}

func (r *RedisStore) Load() (Snapshot, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	val, err := r.client.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return Snapshot{}, ErrNoSession
	}
	if err != nil {
		return Snapshot{}, err
	}

	var snapshot Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return Snapshot{}, ErrNoSession
	}

	if snapshot.IsZero() {
		return Snapshot{}, ErrNoSession
	}

	return snapshot, nil
}

func (r *RedisStore) Clear() error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, r.key).Err()
}

func (r *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}
