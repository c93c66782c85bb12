package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"guess-the-flag/internal/domain"
)

// GameStore is a Redis implementation of app.GameRepository.
// Each game is a JSON document under flagquiz:game:{gameID}. Every save
// refreshes the TTL, so a game lives only while it is being played; a
// renderer that reconnects within the TTL resumes where it left off.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{client: client, ttl: ttl}
}

func (s *GameStore) Save(ctx context.Context, state domain.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode game: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save game: %w", err)
	}
	return nil
}

func (s *GameStore) Load(ctx context.Context, gameID string) (domain.GameState, error) {
	data, err := s.client.Get(ctx, s.key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GameState{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.GameState{}, fmt.Errorf("load game: %w", err)
	}
	var state domain.GameState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.GameState{}, fmt.Errorf("%w: %v", domain.ErrCorruptState, err)
	}
	return state, nil
}

func (s *GameStore) Delete(ctx context.Context, gameID string) error {
	removed, err := s.client.Del(ctx, s.key(gameID)).Result()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if removed == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *GameStore) key(gameID string) string {
	return "flagquiz:game:" + gameID
}
