package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wanderlust_travel/internal/adapters/observability"
)

// Repo is the MySQL-backed session state store. Values are stored as JSON documents,
// one row per (session, key).
type Repo struct {
	db  *sql.DB
	ttl time.Duration
}

// New wraps db. A zero ttl keeps rows forever.
func New(db *sql.DB, ttl time.Duration) *Repo { return &Repo{db: db, ttl: ttl} }

func (r *Repo) expiry() any {
	if r.ttl <= 0 {
		return nil
	}
	return time.Now().UTC().Add(r.ttl)
}

func (r *Repo) Load(ctx context.Context, session, key string, dst any) (bool, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, getStateSQL, session, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveStore("mysql", "miss")
		return false, nil
	}
	if err != nil {
		observability.ObserveStore("mysql", "error")
		return false, err
	}
	observability.ObserveStore("mysql", "hit")
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (r *Repo) Save(ctx context.Context, session, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveStore("mysql", "set")
	_, err = r.db.ExecContext(ctx, upsertStateSQL, session, key, string(b), r.expiry())
	return err
}

func (r *Repo) Delete(ctx context.Context, session, key string) error {
	observability.ObserveStore("mysql", "del")
	_, err := r.db.ExecContext(ctx, deleteStateSQL, session, key)
	return err
}

// PurgeExpired deletes rows whose TTL has passed and reports how many went.
func (r *Repo) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeExpiredSQL)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
