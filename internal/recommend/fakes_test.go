// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

var errFake = errors.New("fake failure")

// fakeCatalog is an in-memory Catalog.
type fakeCatalog struct {
	mu    sync.Mutex
	books []models.Book

	failAll      bool
	failFindMany bool
	failUpdate   bool
	findByIDCall int
	allCalls     int

	// block, when set, makes All wait until it is closed; entered is closed
	// on the first blocked call.
	block   chan struct{}
	entered chan struct{}
	once    sync.Once

	updates []metricsCall
}

type metricsCall struct {
	id    string
	delta models.MetricsDelta
}

func (c *fakeCatalog) FindByID(_ context.Context, id string) (*models.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.findByIDCall++
	for i := range c.books {
		if c.books[i].ID == id {
			b := c.books[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (c *fakeCatalog) FindMany(_ context.Context, f models.BookFilter) ([]models.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failFindMany {
		return nil, errFake
	}

	ids := toSet(f.IDs)
	genres := toSet(f.Genres)
	authors := toSet(f.Authors)

	var out []models.Book
	for _, b := range c.books {
		if len(ids) > 0 {
			if _, ok := ids[b.ID]; !ok {
				continue
			}
		}
		if !matches(b, genres, authors, f.MatchAny) {
			continue
		}
		out = append(out, b)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return f.Sort == models.SortByPopularity && out[i].RatingCount > out[j].RatingCount
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(b models.Book, genres, authors map[string]struct{}, matchAny bool) bool {
	if len(genres) == 0 && len(authors) == 0 {
		return true
	}
	genreHit := false
	for _, g := range b.Genres {
		if _, ok := genres[g]; ok {
			genreHit = true
		}
	}
	_, authorHit := authors[b.Author]
	if matchAny {
		return genreHit || authorHit
	}
	return (len(genres) == 0 || genreHit) && (len(authors) == 0 || authorHit)
}

func (c *fakeCatalog) All(_ context.Context) ([]models.Book, error) {
	if c.block != nil {
		c.once.Do(func() { close(c.entered) })
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allCalls++
	if c.failAll {
		return nil, errFake
	}
	out := make([]models.Book, len(c.books))
	copy(out, c.books)
	return out, nil
}

func (c *fakeCatalog) allCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.allCalls
}

func (c *fakeCatalog) UpdateMetrics(_ context.Context, id string, delta models.MetricsDelta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failUpdate {
		return errFake
	}
	c.updates = append(c.updates, metricsCall{id: id, delta: delta})
	return nil
}

func toSet(values []string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

// fakeLog is an in-memory InteractionLog.
type fakeLog struct {
	mu           sync.Mutex
	interactions []models.Interaction
	failUser     string
	failDistinct bool
	failAppend   bool
}

func (l *fakeLog) FindByUser(_ context.Context, userID string) ([]models.Interaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if userID == l.failUser {
		return nil, errFake
	}
	var out []models.Interaction
	for _, in := range l.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (l *fakeLog) FindByItem(_ context.Context, bookID string) ([]models.Interaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []models.Interaction
	for _, in := range l.interactions {
		if in.BookID == bookID {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (l *fakeLog) DistinctUserIDs(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failDistinct {
		return nil, errFake
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, in := range l.interactions {
		if _, ok := seen[in.UserID]; !ok {
			seen[in.UserID] = struct{}{}
			ids = append(ids, in.UserID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (l *fakeLog) Append(_ context.Context, in *models.Interaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAppend {
		return errFake
	}
	l.interactions = append(l.interactions, *in)
	return nil
}

// fakeUsers is an in-memory UserStore.
type fakeUsers map[string]models.User

func (u fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// fakeCache wraps a CacheStore and can fail chosen keys.
type fakeCache struct {
	next       CacheStore
	failGet    bool
	failUpsert map[string]bool
	gets       int
	mu         sync.Mutex
}

func (c *fakeCache) Get(ctx context.Context, kind models.EntryKind, id string) (*models.CacheEntry, error) {
	c.mu.Lock()
	c.gets++
	fail := c.failGet
	c.mu.Unlock()
	if fail {
		return nil, errFake
	}
	return c.next.Get(ctx, kind, id)
}

func (c *fakeCache) Upsert(ctx context.Context, e *models.CacheEntry) error {
	if c.failUpsert[e.SourceID] {
		return errFake
	}
	return c.next.Upsert(ctx, e)
}

func (c *fakeCache) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

// recordingObserver counts observer events.
type recordingObserver struct {
	mu       sync.Mutex
	lookups  map[string]int
	computed map[string]int
	reports  int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{lookups: map[string]int{}, computed: map[string]int{}}
}

func (o *recordingObserver) CacheLookup(kind models.EntryKind, outcome string) {
	o.mu.Lock()
	o.lookups[string(kind)+":"+outcome]++
	o.mu.Unlock()
}

func (o *recordingObserver) Computed(op string, _ time.Duration, _ error) {
	o.mu.Lock()
	o.computed[op]++
	o.mu.Unlock()
}

func (o *recordingObserver) Generated(*GenerateReport) {
	o.mu.Lock()
	o.reports++
	o.mu.Unlock()
}
