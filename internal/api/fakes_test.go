// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/authz"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

var (
	_ BookReader          = (*fakeBooks)(nil)
	_ InteractionReader   = (*fakeInteractions)(nil)
	_ Recommender         = (*fakeEngine)(nil)
	_ InteractionRecorder = (*fakeRecorder)(nil)
	_ CacheStatter        = (*fakeCache)(nil)
)

type fakeBooks struct {
	mu         sync.Mutex
	books      map[string]models.Book
	err        error
	lastFilter models.BookFilter
	lastPage   int
	lastLimit  int
}

func (f *fakeBooks) FindByID(_ context.Context, id string) (*models.Book, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.books[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBooks) List(_ context.Context, filter models.BookFilter, page, limit int) (*models.BookPage, error) {
	f.mu.Lock()
	f.lastFilter, f.lastPage, f.lastLimit = filter, page, limit
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	books := make([]models.Book, 0, len(f.books))
	for _, b := range f.books {
		books = append(books, b)
	}
	return &models.BookPage{Books: books, Pagination: models.NewPagination(page, limit, len(books))}, nil
}

func (f *fakeBooks) Genres(context.Context) ([]string, error) {
	return []string{"Fantasy", "SciFi"}, f.err
}

func (f *fakeBooks) Authors(context.Context) ([]string, error) {
	return []string{"Herbert", "Le Guin"}, f.err
}

type historyCall struct {
	id          string
	page, limit int
}

type fakeInteractions struct {
	mu          sync.Mutex
	userCall    historyCall
	bookCall    historyCall
	statsCall   [2]string
	activeLimit int
	err         error
}

func (f *fakeInteractions) UserHistory(_ context.Context, userID string, page, limit int) (*models.InteractionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCall = historyCall{userID, page, limit}
	if f.err != nil {
		return nil, f.err
	}
	return &models.InteractionPage{
		Interactions: []models.Interaction{{ID: "i1", UserID: userID, BookID: "b1", Kind: models.KindWishlist}},
		Pagination:   models.NewPagination(page, limit, 1),
	}, nil
}

func (f *fakeInteractions) BookHistory(_ context.Context, bookID string, page, limit int) (*models.InteractionPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookCall = historyCall{bookID, page, limit}
	if f.err != nil {
		return nil, f.err
	}
	return &models.InteractionPage{Pagination: models.NewPagination(page, limit, 0)}, nil
}

func (f *fakeInteractions) Stats(_ context.Context, userID, bookID string) (*models.InteractionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCall = [2]string{userID, bookID}
	if f.err != nil {
		return nil, f.err
	}
	return &models.InteractionStats{TotalViews: 2, TotalRatings: 1, TotalInteractions: 3, AverageRating: 4}, nil
}

func (f *fakeInteractions) ActiveUsers(_ context.Context, limit int) ([]models.ActiveUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []models.ActiveUser{{User: models.User{ID: "u1"}, InteractionCount: 3}}, nil
}

type engineCall struct {
	op    string
	id    string
	limit int
}

type fakeEngine struct {
	mu          sync.Mutex
	calls       []engineCall
	recs        []models.Candidate
	err         error
	report      *recommend.GenerateReport
	generateErr error
}

func (f *fakeEngine) record(op, id string, limit int) ([]models.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, engineCall{op, id, limit})
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

func (f *fakeEngine) lastCall() engineCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return engineCall{}
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeEngine) ContentBased(_ context.Context, bookID string, limit int) ([]models.Candidate, error) {
	return f.record(recommend.OpContentBased, bookID, limit)
}

func (f *fakeEngine) Collaborative(_ context.Context, userID string, limit int) ([]models.Candidate, error) {
	return f.record(recommend.OpCollaborative, userID, limit)
}

func (f *fakeEngine) ForUser(_ context.Context, userID string, limit int) ([]models.Candidate, error) {
	return f.record(recommend.OpForUser, userID, limit)
}

func (f *fakeEngine) Hybrid(_ context.Context, userID string, limit int) ([]models.Candidate, error) {
	return f.record(recommend.OpHybrid, userID, limit)
}

func (f *fakeEngine) Generate(context.Context) (*recommend.GenerateReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, engineCall{op: recommend.OpGenerate})
	return f.report, f.generateErr
}

type fakeRecorder struct {
	mu   sync.Mutex
	last *recommend.RecordRequest
	err  error
}

func (f *fakeRecorder) Record(_ context.Context, req *recommend.RecordRequest) (*models.Interaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Interaction{
		ID:          "generated",
		UserID:      req.UserID,
		BookID:      req.BookID,
		Kind:        req.Kind,
		RatingValue: req.Rating,
		TimeOnPage:  req.TimeOnPage,
		SessionID:   req.SessionID,
		Timestamp:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

type fakeCache struct {
	stats models.CacheStats
	err   error
}

func (f *fakeCache) Stats(context.Context) (models.CacheStats, error) {
	return f.stats, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

// testEnv is a router over fakes with JWT auth enabled and rate limiting off.
type testEnv struct {
	books        *fakeBooks
	interactions *fakeInteractions
	engine       *fakeEngine
	recorder     *fakeRecorder
	cache        *fakeCache
	pinger       *fakePinger
	jwt          *auth.JWTManager
	server       http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Timeout: 5 * time.Second},
		API:    config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
		Security: config.SecurityConfig{
			AuthMode:          config.AuthModeJWT,
			JWTSecret:         "test-secret-with-enough-entropy-0123456789",
			TokenTTL:          time.Hour,
			Issuer:            "shelfwise",
			AdminRole:         authz.RoleAdmin,
			DefaultRole:       authz.RoleUser,
			RateLimitDisabled: true,
			CORSOrigins:       []string{"https://shelf.example.com"},
		},
	}
}

func newTestEnv(t *testing.T, mutate func(cfg *config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	env := &testEnv{
		books: &fakeBooks{books: map[string]models.Book{
			"b1": {ID: "b1", Title: "A Wizard of Earthsea", Author: "Le Guin", Genres: []string{"Fantasy"}, Rating: 4.5},
		}},
		interactions: &fakeInteractions{},
		engine: &fakeEngine{recs: []models.Candidate{{
			Book:   models.Book{ID: "b2", Title: "Dune", Author: "Herbert"},
			Score:  0.8,
			Reason: "1 shared genre: SciFi",
			Tag:    models.TagSameGenre,
			Source: models.SourceContentBased,
		}}},
		recorder: &fakeRecorder{},
		cache:    &fakeCache{stats: models.CacheStats{ContentBased: 3, Collaborative: 2, Total: 5}},
		pinger:   &fakePinger{},
	}

	handler, err := NewHandler(Dependencies{
		Books:        env.books,
		Interactions: env.interactions,
		Engine:       env.engine,
		Recorder:     env.recorder,
		CacheStats:   env.cache,
		Database:     env.pinger,
	}, cfg)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	env.jwt, err = auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	enforcer, err := authz.NewEnforcer(authz.EnforcerConfig{
		DefaultRole: cfg.Security.DefaultRole,
		AdminRole:   cfg.Security.AdminRole,
	})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	router := NewRouter(handler,
		NewChiMiddleware(ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		auth.NewMiddleware(env.jwt, cfg.Security.AuthMode),
		authz.NewMiddleware(enforcer),
	)
	env.server = router.SetupChi()
	return env
}

func (env *testEnv) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := env.jwt.GenerateToken(userID, userID, role)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return token
}

// do sends a request; token and body are optional.
func (env *testEnv) do(t *testing.T, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Fatalf("status = %q, error = %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Error == nil {
		t.Fatalf("response has no error: %s", rec.Body.String())
	}
	return env.Error.Code
}
