package cli

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"guess-the-flag/internal/app"
	"guess-the-flag/internal/config"
	"guess-the-flag/internal/domain"
	"guess-the-flag/internal/infra/memory"
	pgloader "guess-the-flag/internal/infra/postgres"
	infraredis "guess-the-flag/internal/infra/redis"
	"guess-the-flag/internal/logger"
	"guess-the-flag/internal/quiz"
)

// loadConfig reads the config file and applies environment overrides.
func loadConfig(path string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Env = env
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, log, nil
}

// buildService assembles the game service from config. Games are kept in
// Redis when configured unless localGames is set; catalogs come from
// Postgres when configured, cached in Redis or memory.
func buildService(ctx context.Context, cfg config.Config, log *zap.Logger, localGames bool) (*app.GameService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = redisClient.Close() })
	}

	var loader memory.CatalogLoader = memory.NewStaticCatalogLoader(domain.DefaultCatalog())
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, pool.Close)
		loader = pgloader.NewCatalogLoader(pool)
	}

	catalogTTL := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	var catalogs app.CatalogRepository
	if redisClient != nil {
		catalogs = infraredis.NewCatalogRepository(redisClient, loader, catalogTTL, log)
	} else {
		catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var games app.GameRepository
	if redisClient != nil && !localGames {
		games = infraredis.NewGameStore(redisClient, config.Duration(cfg.Redis.TTL, 30*time.Minute))
	} else {
		games = memory.NewGameStore()
	}

	service := app.NewGameService(games, catalogs,
		quiz.Settings{MaxQuestions: cfg.Game.MaxQuestions},
		app.WithLogger(log))
	return service, cleanup, nil
}
