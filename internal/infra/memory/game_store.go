package memory

import (
	"context"
	"sync"

	"guess-the-flag/internal/domain"
)

// GameStore is an in-memory implementation of app.GameRepository.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]domain.GameState
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[string]domain.GameState),
	}
}

func (s *GameStore) Save(_ context.Context, state domain.GameState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[state.ID] = state
	return nil
}

func (s *GameStore) Load(_ context.Context, gameID string) (domain.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.games[gameID]
	if !ok {
		return domain.GameState{}, domain.ErrGameNotFound
	}
	return state, nil
}

func (s *GameStore) Delete(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[gameID]; !ok {
		return domain.ErrGameNotFound
	}
	delete(s.games, gameID)
	return nil
}

// Len reports how many games are live.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
