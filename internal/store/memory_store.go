package store

import (
	"context"
	"sync"

	"match-ledger-service/internal/domain"
)

// MemoryStore keeps a thread-safe snapshot of games in memory. It backs
// tests and can serve as a store when durability is not needed.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]domain.Game
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]domain.Game),
	}
}

// SaveGame inserts or replaces a game snapshot.
func (s *MemoryStore) SaveGame(_ context.Context, game domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.ID] = cloneGame(game)
	return nil
}

// GetGame retrieves a game by ID.
func (s *MemoryStore) GetGame(_ context.Context, id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.ErrNotFound
	}
	return cloneGame(g), nil
}

// ListGames returns a copy of every stored game.
func (s *MemoryStore) ListGames(_ context.Context) ([]domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Game, 0, len(s.games))
	for _, g := range s.games {
		result = append(result, cloneGame(g))
	}
	return result, nil
}

// DeleteGame removes a game if present.
func (s *MemoryStore) DeleteGame(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.games, id)
	return nil
}

// cloneGame deep-copies the event slice so callers cannot alias the map's
// stored value.
func cloneGame(g domain.Game) domain.Game {
	events := make([]domain.GameEvent, len(g.Events))
	copy(events, g.Events)
	g.Events = events
	return g
}
