package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"wanderlust_travel/internal/adapters/observability"
)

// Store keeps per-session state as JSON strings under session:<id>:<key>.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

// NewWithClient wraps an existing client. A zero ttl keeps values forever.
func NewWithClient(c *redis.Client, ttl time.Duration) *Store {
	return &Store{c: c, ttl: ttl}
}

func key(session, k string) string { return fmt.Sprintf("session:%s:%s", session, k) }

func (r *Store) Load(ctx context.Context, session, k string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key(session, k)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveStore("redis", "miss")
		return false, nil
	}
	if err != nil {
		observability.ObserveStore("redis", "error")
		return false, err
	}
	observability.ObserveStore("redis", "hit")
	if err := json.Unmarshal(v, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", k, err)
	}
	return true, nil
}

func (r *Store) Save(ctx context.Context, session, k string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveStore("redis", "set")
	return r.c.Set(ctx, key(session, k), b, r.ttl).Err()
}

func (r *Store) Delete(ctx context.Context, session, k string) error {
	observability.ObserveStore("redis", "del")
	return r.c.Del(ctx, key(session, k)).Err()
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }
