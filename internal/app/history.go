package app

import (
	"context"
	"time"

	"wanderlust_travel/internal/domain"
)

type HistoryHooks struct {
	PersistHistory func(ctx context.Context, entries []domain.HistoryEntry)
	PersistVisited func(ctx context.Context, visited []domain.VisitedPlace)
}

// History is the append-only log of completed bookings plus the visited-places set.
// The two lists are persisted independently.
type History struct {
	entries []domain.HistoryEntry
	visited []domain.VisitedPlace
	hooks   HistoryHooks
}

func NewHistory(entries []domain.HistoryEntry, visited []domain.VisitedPlace, hooks HistoryHooks) *History {
	return &History{
		entries: append([]domain.HistoryEntry(nil), entries...),
		visited: dedupeVisited(visited),
		hooks:   hooks,
	}
}

// Commit appends one completed booking per item and persists once.
func (h *History) Commit(ctx context.Context, now time.Time, items ...domain.LineItem) []domain.HistoryEntry {
	if len(items) == 0 {
		return nil
	}
	added := make([]domain.HistoryEntry, 0, len(items))
	for _, it := range items {
		e := domain.HistoryEntry{LineItem: it, CompletedOn: now.UTC(), Status: domain.StatusCompleted}
		h.entries = append(h.entries, e)
		added = append(added, e)
	}
	h.persistHistory(ctx)
	return added
}

// RecordVisit inserts name unless it is already present.
func (h *History) RecordVisit(ctx context.Context, name, image string, now time.Time) bool {
	for _, v := range h.visited {
		if v.Destination == name {
			return false
		}
	}
	h.visited = append(h.visited, domain.VisitedPlace{Destination: name, Image: image, VisitedOn: domain.Day(now)})
	h.persistVisited(ctx)
	return true
}

func (h *History) DeleteEntry(ctx context.Context, index int) bool {
	if index < 0 || index >= len(h.entries) {
		return false
	}
	h.entries = append(h.entries[:index:index], h.entries[index+1:]...)
	h.persistHistory(ctx)
	return true
}

func (h *History) DeleteVisited(ctx context.Context, index int) bool {
	if index < 0 || index >= len(h.visited) {
		return false
	}
	h.visited = append(h.visited[:index:index], h.visited[index+1:]...)
	h.persistVisited(ctx)
	return true
}

func (h *History) Entry(index int) (domain.HistoryEntry, bool) {
	if index < 0 || index >= len(h.entries) {
		return domain.HistoryEntry{}, false
	}
	return h.entries[index], true
}

func (h *History) Entries() []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Visited() []domain.VisitedPlace {
	out := make([]domain.VisitedPlace, len(h.visited))
	copy(out, h.visited)
	return out
}

func (h *History) Count() int { return len(h.entries) + len(h.visited) }

func (h *History) persistHistory(ctx context.Context) {
	if h.hooks.PersistHistory != nil {
		h.hooks.PersistHistory(ctx, h.Entries())
	}
}

func (h *History) persistVisited(ctx context.Context) {
	if h.hooks.PersistVisited != nil {
		h.hooks.PersistVisited(ctx, h.Visited())
	}
}

// rehydrated data may have been edited by hand; keep the first of each name
func dedupeVisited(in []domain.VisitedPlace) []domain.VisitedPlace {
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.VisitedPlace, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v.Destination]; ok {
			continue
		}
		seen[v.Destination] = struct{}{}
		out = append(out, v)
	}
	return out
}
