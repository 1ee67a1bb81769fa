package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wanderlust_travel/internal/catalog"
	"wanderlust_travel/internal/domain"
	"wanderlust_travel/internal/pricing"
)

// Storage keys, one value per key per session.
const (
	KeyCart    = "wanderlust_cart"
	KeyHistory = "booking_history"
	KeyVisited = "visited_places"
)

// Deps are the collaborators a session talks to. Any of Store, Assistant and
// Publisher may be nil.
type Deps struct {
	Store        domain.StateStore
	Assistant    domain.Assistant
	Publisher    domain.EventPublisher
	Model        string
	PaymentDelay time.Duration
	Now          func() time.Time
}

// Session is the state of one storefront visitor. The mutex serialises turns: every
// exported method runs to completion under it, except for the remote assistant call
// and the manual payment delay, which re-validate after relocking.
type Session struct {
	ID string

	mu         sync.Mutex
	deps       Deps
	log        zerolog.Logger
	cart       *Cart
	history    *History
	conv       *Conversation
	inline     *inlineBooking
	order      *pendingOrder
	transcript []domain.ChatMessage
	location   *domain.Location
	epoch      uint64 // bumped when a conversation starts or ends
	events     []domain.Event
}

type snapshot struct {
	cart    []domain.LineItem
	history []domain.HistoryEntry
	visited []domain.VisitedPlace
}

func newSession(id string, deps Deps, snap snapshot) *Session {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Session{ID: id, deps: deps, log: log.With().Str("session", id).Logger()}
	s.cart = NewCart(snap.cart, CartHooks{
		Persist: func(ctx context.Context, items []domain.LineItem) { s.save(ctx, KeyCart, items) },
		Render: func(v domain.CartView) {
			s.emit(domain.Event{Kind: domain.EventCart, Cart: &v})
		},
	})
	s.history = NewHistory(snap.history, snap.visited, HistoryHooks{
		PersistHistory: func(ctx context.Context, e []domain.HistoryEntry) { s.save(ctx, KeyHistory, e) },
		PersistVisited: func(ctx context.Context, v []domain.VisitedPlace) { s.save(ctx, KeyVisited, v) },
	})
	return s
}

// turn runs fn under the session lock and returns the events it produced.
func (s *Session) turn(fn func() error) ([]domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
	err := fn()
	return s.flush(), err
}

func (s *Session) flush() []domain.Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *Session) now() time.Time { return s.deps.Now() }

func (s *Session) emit(e domain.Event) { s.events = append(s.events, e) }

func (s *Session) message(text string) {
	s.emit(domain.Event{Kind: domain.EventMessage, Text: text})
}

func (s *Session) prompt(step domain.Step, text string) {
	s.emit(domain.Event{Kind: domain.EventPrompt, Step: step, Text: text})
}

func (s *Session) fail(text string) {
	s.emit(domain.Event{Kind: domain.EventError, Text: text})
}

// save never fails the caller; a lost write only costs durability.
func (s *Session) save(ctx context.Context, key string, v any) {
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.Save(context.WithoutCancel(ctx), s.ID, key, v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("state persist failed")
	}
}

func (s *Session) Cart() domain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.View()
}

// Conversation reports the active booking conversation, if any.
func (s *Session) Conversation() (ConversationView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv == nil {
		return ConversationView{}, false
	}
	return s.conv.View(), true
}

type HistoryView struct {
	Entries []domain.HistoryEntry `json:"entries"`
	Visited []domain.VisitedPlace `json:"visited"`
	Count   int                   `json:"count"`
}

func (s *Session) History() HistoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HistoryView{Entries: s.history.Entries(), Visited: s.history.Visited(), Count: s.history.Count()}
}

// Ticket is the detailed view of history entry i.
func (s *Session) Ticket(i int) (domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.history.Entry(i)
	if !ok {
		return domain.Ticket{}, domain.ErrNotFound
	}
	t := domain.Ticket{Entry: e, Total: pricing.LineTotal(e.LineItem), Accommodation: catalog.Accommodation(e.Destination)}
	if !e.PremiumLounge {
		t.Nights, _ = pricing.Nights(e.CheckIn, e.CheckOut)
	}
	return t, nil
}

func (s *Session) DeleteHistoryEntry(ctx context.Context, i int) ([]domain.Event, error) {
	return s.turn(func() error {
		if !s.history.DeleteEntry(ctx, i) {
			s.fail("That trip is no longer in your history. Please try again.")
			return domain.ErrNotFound
		}
		s.message("Trip removed from your history.")
		return nil
	})
}

func (s *Session) DeleteVisited(ctx context.Context, i int) ([]domain.Event, error) {
	return s.turn(func() error {
		if !s.history.DeleteVisited(ctx, i) {
			s.fail("That place is no longer in your visited list. Please try again.")
			return domain.ErrNotFound
		}
		s.message("Place removed from your visited list.")
		return nil
	})
}

func (s *Session) SetLocation(loc domain.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &loc
}
