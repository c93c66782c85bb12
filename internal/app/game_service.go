package app

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"guess-the-flag/internal/domain"
	"guess-the-flag/internal/quiz"
)

// GameRepository abstracts where live game state is kept (in-memory, Redis, etc).
type GameRepository interface {
	Save(ctx context.Context, state domain.GameState) error
	Load(ctx context.Context, gameID string) (domain.GameState, error)
	Delete(ctx context.Context, gameID string) error
}

// CatalogRepository loads country catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// GameService contains the game use cases a renderer calls into.
type GameService struct {
	games    GameRepository
	catalogs CatalogRepository
	settings quiz.Settings
	newRand  func() quiz.Rand
	newID    func() string
	log      *zap.Logger

	mu    sync.Mutex
	locks map[string]*gameLock
}

type gameLock struct {
	mu   sync.Mutex
	refs int
}

// Option customizes a GameService.
type Option func(*GameService)

// WithRand sets the generator factory used for every engine operation.
func WithRand(newRand func() quiz.Rand) Option {
	return func(s *GameService) { s.newRand = newRand }
}

// WithIDGenerator replaces the UUID game ID generator (useful in tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *GameService) { s.newID = newID }
}

// WithLogger sets the service logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *GameService) {
		if log != nil {
			s.log = log
		}
	}
}

func NewGameService(games GameRepository, catalogs CatalogRepository, settings quiz.Settings, opts ...Option) *GameService {
	s := &GameService{
		games:    games,
		catalogs: catalogs,
		settings: settings,
		newRand:  quiz.NewRand,
		newID:    uuid.NewString,
		log:      zap.NewNop(),
		locks:    make(map[string]*gameLock),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a game at question 1 using the given catalog (default if empty).
func (s *GameService) Start(ctx context.Context, catalogID string) (domain.Snapshot, error) {
	if catalogID == "" {
		catalogID = domain.DefaultCatalogID
	}
	catalog, err := s.catalogs.GetCatalog(ctx, catalogID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	engine, err := quiz.New(catalog.Countries, s.settings, s.newRand())
	if err != nil {
		return domain.Snapshot{}, err
	}

	state := engine.State()
	state.ID = s.newID()
	state.CatalogID = catalog.ID
	if err := s.games.Save(ctx, state); err != nil {
		return domain.Snapshot{}, err
	}

	s.log.Info("game started",
		zap.String("game_id", state.ID),
		zap.String("catalog_id", state.CatalogID),
		zap.Int("max_questions", state.MaxQuestions))
	return snapshotOf(state, engine), nil
}

// Guess records a tap on one of the displayed options.
func (s *GameService) Guess(ctx context.Context, gameID string, option int) (domain.Snapshot, error) {
	return s.update(ctx, gameID, func(engine *quiz.Engine) error {
		outcome, err := engine.SubmitGuess(option)
		if err != nil {
			return err
		}
		s.log.Debug("guess evaluated",
			zap.String("game_id", gameID),
			zap.Int("option", option),
			zap.String("outcome", string(outcome.Kind)),
			zap.Int("score", engine.Score()))
		return nil
	})
}

// Acknowledge dismisses the pending notice, advancing the game or starting a new round.
func (s *GameService) Acknowledge(ctx context.Context, gameID string) (domain.Snapshot, error) {
	return s.update(ctx, gameID, func(engine *quiz.Engine) error {
		dismissed, err := engine.Acknowledge()
		if err != nil {
			return err
		}
		if pending, ok := engine.Pending(); ok && pending.Kind == domain.OutcomeRoundComplete {
			s.log.Info("round complete",
				zap.String("game_id", gameID),
				zap.Int("final_score", pending.FinalScore),
				zap.Int("max_questions", pending.MaxQuestions))
		}
		s.log.Debug("notice acknowledged",
			zap.String("game_id", gameID),
			zap.String("outcome", string(dismissed.Kind)),
			zap.Int("question", engine.QuestionNumber()))
		return nil
	})
}

// Get returns the current view of a game.
func (s *GameService) Get(ctx context.Context, gameID string) (domain.Snapshot, error) {
	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	engine, err := quiz.Restore(state, s.newRand())
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snapshotOf(state, engine), nil
}

// End discards a game. Unknown games are ignored.
func (s *GameService) End(ctx context.Context, gameID string) error {
	unlock := s.lock(gameID)
	defer unlock()

	if err := s.games.Delete(ctx, gameID); err != nil && !errors.Is(err, domain.ErrGameNotFound) {
		return err
	}
	s.log.Info("game ended", zap.String("game_id", gameID))
	return nil
}

func (s *GameService) update(ctx context.Context, gameID string, apply func(engine *quiz.Engine) error) (domain.Snapshot, error) {
	unlock := s.lock(gameID)
	defer unlock()

	state, err := s.games.Load(ctx, gameID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	engine, err := quiz.Restore(state, s.newRand())
	if err != nil {
		s.log.Warn("discarding unreadable game", zap.String("game_id", gameID), zap.Error(err))
		return domain.Snapshot{}, err
	}
	if err := apply(engine); err != nil {
		return domain.Snapshot{}, err
	}

	next := engine.State()
	next.ID = state.ID
	next.CatalogID = state.CatalogID
	if err := s.games.Save(ctx, next); err != nil {
		return domain.Snapshot{}, err
	}
	return snapshotOf(next, engine), nil
}

// lock serializes operations on one game; the returned func releases it.
func (s *GameService) lock(gameID string) func() {
	s.mu.Lock()
	l, ok := s.locks[gameID]
	if !ok {
		l = &gameLock{}
		s.locks[gameID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, gameID)
		}
		s.mu.Unlock()
	}
}

func snapshotOf(state domain.GameState, engine *quiz.Engine) domain.Snapshot {
	snap := engine.Snapshot()
	snap.GameID = state.ID
	snap.CatalogID = state.CatalogID
	return snap
}
