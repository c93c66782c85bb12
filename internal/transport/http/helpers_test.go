package http

import (
	"math/rand"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"guess-the-flag/internal/app"
	"guess-the-flag/internal/domain"
	"guess-the-flag/internal/infra/memory"
	"guess-the-flag/internal/quiz"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.GameStore) {
	t.Helper()
	store := memory.NewGameStore()
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(domain.DefaultCatalog()), time.Minute)

	var (
		mu  sync.Mutex
		ids int
	)
	service := app.NewGameService(store, catalogs, quiz.Settings{MaxQuestions: 5},
		app.WithRand(func() quiz.Rand { return rand.New(rand.NewSource(1)) }),
		app.WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			ids++
			return "g" + strconv.Itoa(ids)
		}),
	)
	server := httptest.NewServer(NewRouter(service, nil))
	t.Cleanup(server.Close)
	return server, store
}

func correctOption(snap domain.Snapshot) int {
	for i, option := range snap.Options {
		if option.Name == snap.Prompt {
			return i
		}
	}
	return -1
}
