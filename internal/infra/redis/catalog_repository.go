package redis

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"guess-the-flag/internal/domain"
)

// CatalogLoader fetches catalogs from a backing store (e.g., Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// CatalogRepository caches catalogs in Redis and falls back to a loader on cache miss.
// Catalogs are stored as JSON: SET flagquiz:catalog:{catalogID} {json} EX ttl
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	log    *zap.Logger
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration, log *zap.Logger) *CatalogRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := r.cached(ctx, catalogID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.cached(ctx, catalogID); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}

		data, err := json.Marshal(catalog)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := r.client.Set(ctx, r.key(catalogID), data, r.ttlWithJitter()).Err(); err != nil {
			r.log.Warn("cache catalog", zap.String("catalog_id", catalogID), zap.Error(err))
		}
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	data, err := r.client.Get(ctx, r.key(catalogID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("read cached catalog", zap.String("catalog_id", catalogID), zap.Error(err))
		}
		return domain.Catalog{}, false
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		r.log.Warn("decode cached catalog", zap.String("catalog_id", catalogID), zap.Error(err))
		return domain.Catalog{}, false
	}
	return catalog, true
}

func (r *CatalogRepository) key(catalogID string) string {
	return "flagquiz:catalog:" + catalogID
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
