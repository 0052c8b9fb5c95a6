package store

import (
	"context"
	"sync"
)

// Memory keeps records in process. Used when no database is configured.
type Memory struct {
	mu      sync.RWMutex
	nextID  uint
	records map[string][]EpisodeRecord
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]EpisodeRecord),
	}
}

func (m *Memory) SaveEpisode(_ context.Context, rec *EpisodeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	rec.ID = m.nextID
	m.records[rec.ArenaCode] = append(m.records[rec.ArenaCode], *rec)
	return nil
}

func (m *Memory) ListEpisodes(_ context.Context, arenaCode string, limit int) ([]EpisodeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.records[arenaCode]
	n := len(recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]EpisodeRecord, 0, n)
	for i := len(recs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }
