package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"wanderlust_travel/internal/app"
	"wanderlust_travel/internal/domain"
)

// ---- fakes ----

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemStore() *memStore { return &memStore{data: map[string][]byte{}} }

func (m *memStore) Load(ctx context.Context, session, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[session+"/"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (m *memStore) Save(ctx context.Context, session, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[session+"/"+key] = b
	return nil
}

func (m *memStore) Delete(ctx context.Context, session, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, session+"/"+key)
	return nil
}

func (m *memStore) raw(session, key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[session+"/"+key]
}

type assistantFunc func(ctx context.Context, req domain.AssistantRequest) domain.AssistantReply

func (f assistantFunc) Ask(ctx context.Context, req domain.AssistantRequest) domain.AssistantReply {
	return f(ctx, req)
}

var unavailable = assistantFunc(func(context.Context, domain.AssistantRequest) domain.AssistantReply {
	return domain.AssistantReply{Status: domain.ReplyUnavailable, Err: errors.New("offline")}
})

type published struct {
	key string
	v   any
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) PublishJSON(ctx context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{key, v})
	return nil
}

// ---- helpers ----

// Nov 1 2025, mid-morning UTC
var fixedNow = time.Date(2025, 11, 1, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestSession(deps app.Deps) *app.Session {
	if deps.Now == nil {
		deps.Now = clock
	}
	if deps.Assistant == nil {
		deps.Assistant = unavailable
	}
	s, err := app.NewSessions(deps).New(context.Background())
	if err != nil {
		panic(err)
	}
	return s
}

func sendAll(s *app.Session, msgs ...string) []domain.Event {
	var out []domain.Event
	for _, m := range msgs {
		out = append(out, s.Send(context.Background(), m)...)
	}
	return out
}

func last(ev []domain.Event) domain.Event {
	if len(ev) == 0 {
		return domain.Event{}
	}
	return ev[len(ev)-1]
}

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
