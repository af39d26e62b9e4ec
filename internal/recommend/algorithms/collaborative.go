// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"sort"

	"github.com/tomtom215/shelfwise/internal/models"
)

// CollaborativeConfig contains configuration for user-based collaborative
// filtering.
type CollaborativeConfig struct {
	// SimilarityThreshold drops neighbours at or below it.
	SimilarityThreshold float64

	// MaxNeighbours caps the neighbourhood size.
	MaxNeighbours int

	// MinRating is the lowest neighbour rating that counts towards a book.
	MinRating int
}

// History is one user's interactions.
type History struct {
	UserID       string
	Interactions []models.Interaction
}

// Neighbour is a user similar to the target user.
type Neighbour struct {
	UserID     string
	Similarity float64
}

// Aggregate is a book's collaborative score before catalog lookup.
type Aggregate struct {
	BookID    string
	Score     float64 // sum(rating * similarity) / count, unclamped
	AvgRating float64
	Count     int
}

// Collaborative implements user-based collaborative filtering over Jaccard
// similarity of interacted item sets.
//
//	sim(u, v) = |items(u) ∩ items(v)| / |items(u) ∪ items(v)|
//
// Only view and rating interactions contribute to item sets. A candidate book
// is scored from the ratings of at least MinRating given by neighbours:
//
//	score(b) = sum(rating(v, b) * sim(u, v)) / count(ratings of b)
type Collaborative struct {
	base
	threshold     float64
	maxNeighbours int
	minRating     int
}

// NewCollaborative creates a collaborative filtering algorithm.
func NewCollaborative(cfg CollaborativeConfig) *Collaborative {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = 0.10
	}
	if cfg.MaxNeighbours <= 0 {
		cfg.MaxNeighbours = 20
	}
	if cfg.MinRating <= 0 {
		cfg.MinRating = 4
	}
	return &Collaborative{
		base:          base{name: "collaborative"},
		threshold:     cfg.SimilarityThreshold,
		maxNeighbours: cfg.MaxNeighbours,
		minRating:     cfg.MinRating,
	}
}

// ItemSet returns the books a user viewed or rated.
func ItemSet(interactions []models.Interaction) map[string]struct{} {
	set := make(map[string]struct{}, len(interactions))
	for i := range interactions {
		if interactions[i].Kind.Collaborative() {
			set[interactions[i].BookID] = struct{}{}
		}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	inter := 0
	for id := range small {
		if _, ok := large[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// SimilarUsers returns the neighbours of a user whose item set is target,
// most similar first, capped at MaxNeighbours. Ties keep histories order.
func (c *Collaborative) SimilarUsers(target map[string]struct{}, histories []History) []Neighbour {
	neighbours := make([]Neighbour, 0, len(histories))
	for i := range histories {
		sim := Jaccard(target, ItemSet(histories[i].Interactions))
		if sim > c.threshold {
			neighbours = append(neighbours, Neighbour{UserID: histories[i].UserID, Similarity: sim})
		}
	}

	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].Similarity > neighbours[j].Similarity
	})

	if len(neighbours) > c.maxNeighbours {
		neighbours = neighbours[:c.maxNeighbours]
	}
	return neighbours
}

// Aggregate scores the books rated highly by neighbours. Books in exclude are
// skipped. Results are ordered by score, then average rating, then the order
// in which books were first seen, and truncated to limit.
func (c *Collaborative) Aggregate(neighbours []Neighbour, histories map[string][]models.Interaction, exclude map[string]struct{}, limit int) []Aggregate {
	if limit <= 0 {
		return nil
	}

	type tally struct {
		weighted float64
		ratings  int
		count    int
	}

	var order []string
	tallies := make(map[string]*tally)

	for _, n := range neighbours {
		for _, in := range histories[n.UserID] {
			if in.Kind != models.KindRating || in.RatingValue == nil || *in.RatingValue < c.minRating {
				continue
			}
			if _, skip := exclude[in.BookID]; skip {
				continue
			}

			t, ok := tallies[in.BookID]
			if !ok {
				t = &tally{}
				tallies[in.BookID] = t
				order = append(order, in.BookID)
			}
			t.weighted += float64(*in.RatingValue) * n.Similarity
			t.ratings += *in.RatingValue
			t.count++
		}
	}

	results := make([]Aggregate, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		results = append(results, Aggregate{
			BookID:    id,
			Score:     t.weighted / float64(t.count),
			AvgRating: float64(t.ratings) / float64(t.count),
			Count:     t.count,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].AvgRating > results[j].AvgRating
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Candidates maps aggregates to candidates using books, preserving aggregate
// order. Aggregates without a book are dropped. Emitted scores are clamped to
// [0, 1].
func (c *Collaborative) Candidates(aggregates []Aggregate, books map[string]models.Book) []models.Candidate {
	candidates := make([]models.Candidate, 0, len(aggregates))
	for _, a := range aggregates {
		book, ok := books[a.BookID]
		if !ok {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Book:   book,
			Score:  clamp01(a.Score),
			Reason: ReasonSimilarUsers,
			Tag:    models.TagSimilarUsers,
			Source: models.SourceCollaborative,
		})
	}
	return candidates
}
