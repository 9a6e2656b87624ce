package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"casino-service/internal/model"
)

// MemoryStore is a process-local store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	states  map[string]model.SessionState
	history map[string][]model.BillingLog
	nextID  int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[string]model.SessionState),
		history: make(map[string][]model.BillingLog),
	}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[key]
	if !ok {
		return nil, nil
	}
	state.RoundJSON = append(state.RoundJSON[:0:0], state.RoundJSON...)
	return &state, nil
}

func (s *MemoryStore) Save(ctx context.Context, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *state
	copied.RoundJSON = append(state.RoundJSON[:0:0], state.RoundJSON...)
	s.states[state.Key] = copied
	return nil
}

func (s *MemoryStore) AppendHistory(ctx context.Context, logs []model.BillingLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range logs {
		s.nextID++
		logs[i].ID = s.nextID
		if logs[i].CreatedAt.IsZero() {
			logs[i].CreatedAt = time.Now()
		}
		s.history[logs[i].SessionKey] = append(s.history[logs[i].SessionKey], logs[i])
	}
	return nil
}

func (s *MemoryStore) ListHistory(ctx context.Context, key string, page, size int) ([]model.BillingLog, int64, error) {
	page, size = sanitizePage(page, size)

	s.mu.Lock()
	all := append([]model.BillingLog(nil), s.history[key]...)
	s.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := (page - 1) * size
	if start >= len(all) {
		return []model.BillingLog{}, total, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
