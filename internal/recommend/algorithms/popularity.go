// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Popularity draws a shuffled sample from the most popular books.
type Popularity struct {
	base

	// rng is not safe for concurrent use; rngMu guards it.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewPopularity creates a popularity sampler. A zero seed selects a
// time-based seed.
func NewPopularity(seed int64) *Popularity {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Popularity{
		base: base{name: "popularity"},
		rng:  rand.New(rand.NewSource(seed)), //nolint:gosec // shuffling, not security
	}
}

// Pick shuffles books and returns the first n as popularity candidates.
// The input slice is not modified.
func (p *Popularity) Pick(books []models.Book, n int) []models.Candidate {
	if n <= 0 || len(books) == 0 {
		return nil
	}

	shuffled := make([]models.Book, len(books))
	copy(shuffled, books)

	p.rngMu.Lock()
	p.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	p.rngMu.Unlock()

	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}

	candidates := make([]models.Candidate, len(shuffled))
	for i := range shuffled {
		candidates[i] = models.Candidate{
			Book:   shuffled[i],
			Score:  PopularityScore,
			Reason: ReasonPopular,
			Tag:    models.TagPopular,
			Source: models.SourcePopularity,
		}
	}
	return candidates
}

// ColdStart wraps the fallback books served to users without interactions.
// books should already be ordered by rating, then views.
func ColdStart(books []models.Book) []models.Candidate {
	candidates := make([]models.Candidate, len(books))
	for i := range books {
		candidates[i] = models.Candidate{
			Book:   books[i],
			Score:  ColdStartScore,
			Reason: ReasonColdStart,
			Tag:    models.TagPopular,
			Source: models.SourceCollaborative,
		}
	}
	return candidates
}
