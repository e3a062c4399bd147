package database

import (
	"context"
	"sort"
	"sync"

	"pinochle-game/internal/game"
	"pinochle-game/internal/shared"
)

// Memory keeps records in a map. Records are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Record)}
}

func (m *Memory) Create(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; ok {
		return ErrExists
	}
	rec.Actions = append([]game.Entry{}, rec.Actions...)
	m.records[rec.ID] = &rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	out := *rec
	out.Actions = append([]game.Entry{}, rec.Actions...)
	return out, nil
}

func (m *Memory) Append(_ context.Context, id string, entry game.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Actions = append(rec.Actions, entry)
	return nil
}

func (m *Memory) SetName(_ context.Context, id string, seat shared.Seat, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Names[seat] = name
	return nil
}

func (m *Memory) SetBot(_ context.Context, id string, seat shared.Seat, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return ErrNotFound
	}
	rec.Bots[seat] = enabled
	return nil
}

func (m *Memory) List(_ context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec.Summary())
	}
	sortSummaries(out)
	return out, nil
}

func (m *Memory) ByPlayer(_ context.Context, name string) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		all = append(all, *rec)
	}
	out := byPlayer(all, name)
	sortSummaries(out)
	return out, nil
}

func (m *Memory) Close() error { return nil }

// sortSummaries orders oldest first, then by id.
func sortSummaries(s []Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].CreatedAt.Equal(s[j].CreatedAt) {
			return s[i].CreatedAt.Before(s[j].CreatedAt)
		}
		return s[i].ID < s[j].ID
	})
}
