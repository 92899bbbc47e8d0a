// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/storage"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 5 * time.Second},
		Recommend: config.RecommendConfig{
			DefaultCount: 5,
			MaxCount:     100,
			CacheSize:    64,
			CacheTTL:     time.Minute,
		},
		Security: config.SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

type staticLoader struct {
	records []recommend.MovieRecord
}

func (l staticLoader) Load(context.Context) ([]recommend.MovieRecord, error) {
	return l.records, nil
}

func boxingRecords() []recommend.MovieRecord {
	return []recommend.MovieRecord{
		{RowIndex: 0, Title: "Rocky", CombinedFeatures: "boxing underdog training", VoteAverage: 7.5, PosterPath: "/rocky.jpg"},
		{RowIndex: 1, Title: "Creed", CombinedFeatures: "boxing underdog training legacy", VoteAverage: 7.2, PosterPath: "/creed.jpg"},
		{RowIndex: 2, Title: "Up", CombinedFeatures: "balloons house adventure", VoteAverage: 7.8},
	}
}

// newModelContext wires a real loader, file-backed cache and model context.
func newModelContext(t *testing.T) *recommend.ModelContext {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), 1, logging.Nop())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	source := storage.NewCache(store, storage.CacheConfig{Workers: 1, Logger: logging.Nop()})
	return recommend.NewModelContext(staticLoader{records: boxingRecords()}, source, logging.Nop())
}

// fakeRecommender returns canned values and counts Recommend calls.
type fakeRecommender struct {
	mu        sync.Mutex
	result    recommend.Result
	titles    []string
	titlesErr error
	version   string
	status    recommend.BuildStatus

	calls     atomic.Int32
	lastTitle string
	lastCount int
}

func (f *fakeRecommender) Recommend(_ context.Context, title string, topN int) recommend.Result {
	f.calls.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTitle, f.lastCount = title, topN
	return f.result
}

func (f *fakeRecommender) Titles(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.titles, f.titlesErr
}

func (f *fakeRecommender) Version() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.version
}

func (f *fakeRecommender) Status() recommend.BuildStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeRecommender) setVersion(v string) {
	f.mu.Lock()
	f.version = v
	f.mu.Unlock()
}

func newTestServer(t *testing.T, rec Recommender, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(NewHandler(rec, cfg, "test"), cfg).Setup()
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}
