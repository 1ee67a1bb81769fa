package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"wanderlust_travel/internal/domain"
)

// Sessions creates sessions on demand and keeps them for the life of the process.
type Sessions struct {
	deps Deps

	mu   sync.Mutex
	byID map[string]*Session
}

func NewSessions(deps Deps) *Sessions {
	return &Sessions{deps: deps, byID: map[string]*Session{}}
}

// New starts a fresh session with a generated id.
func (r *Sessions) New(ctx context.Context) (*Session, error) {
	return r.Get(ctx, newID())
}

// Get returns the live session for id, rehydrating it from the state store the first
// time it is seen. Corrupt or unreadable state is logged and treated as empty.
func (r *Sessions) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.byID[id]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	snap, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have won the race while we were loading
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	s := newSession(id, r.deps, snap)
	r.byID[id] = s
	return s, nil
}

// Lookup returns an existing session without creating one.
func (r *Sessions) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *Sessions) load(ctx context.Context, id string) (snapshot, error) {
	var snap snapshot
	if r.deps.Store == nil {
		return snap, nil
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loadKey(gctx, r.deps.Store, id, KeyCart, &snap.cart) })
	g.Go(func() error { return loadKey(gctx, r.deps.Store, id, KeyHistory, &snap.history) })
	g.Go(func() error { return loadKey(gctx, r.deps.Store, id, KeyVisited, &snap.visited) })
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	snap.cart = validItems(id, snap.cart)
	return snap, nil
}

// loadKey only assigns dst when the stored value decoded cleanly.
func loadKey[T any](ctx context.Context, store domain.StateStore, session, key string, dst *T) error {
	var v T
	if _, err := store.Load(ctx, session, key, &v); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Str("session", session).Str("key", key).Msg("state load failed; starting empty")
		return nil
	}
	*dst = v
	return nil
}

// validItems drops persisted items that would break the cart invariants.
func validItems(session string, in []domain.LineItem) []domain.LineItem {
	out := in[:0]
	for _, it := range in {
		if err := it.Validate(); err != nil {
			log.Warn().Err(err).Str("session", session).Str("destination", it.Destination).Msg("dropping invalid persisted item")
			continue
		}
		out = append(out, it)
	}
	return out
}
