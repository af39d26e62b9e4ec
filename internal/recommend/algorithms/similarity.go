// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/shelfwise/internal/models"
)

// Component weights of the content similarity.
const (
	authorWeight     = 0.40
	genreWeight      = 0.35
	ratingWeight     = 0.15
	popularityWeight = 0.10

	maxRating = 5.0

	// similarRatingGap is the rating difference below which a pair reports
	// a similar rating.
	similarRatingGap = 1.0
)

// popularityScale is the view count at which norm(views) reaches 1.
var popularityScale = math.Log(1000)

// Reason explains why a pair of books is similar.
type Reason struct {
	Text string
	Tag  models.ReasonTag
}

// SimilarityConfig contains configuration for content similarity.
type SimilarityConfig struct {
	// Threshold drops candidates scoring at or below it.
	Threshold float64
}

// Similarity ranks catalog books by content similarity to a target book.
type Similarity struct {
	base
	threshold float64
}

// NewSimilarity creates a content similarity ranker.
func NewSimilarity(cfg SimilarityConfig) *Similarity {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 0.30
	}
	return &Similarity{
		base:      base{name: "content_similarity"},
		threshold: cfg.Threshold,
	}
}

// Threshold returns the configured cut-off.
func (s *Similarity) Threshold() float64 {
	return s.threshold
}

// Score returns the content similarity of a and b in [0, 1].
// It is symmetric.
func Score(a, b *models.Book) float64 {
	var score float64

	if a.Author == b.Author {
		score += authorWeight
	}

	score += genreWeight * genreOverlap(a.Genres, b.Genres)

	ratingDiff := math.Abs(a.Rating - b.Rating)
	score += ratingWeight * math.Max(0, 1-ratingDiff/maxRating)

	popDiff := math.Abs(normViews(a.ViewCount) - normViews(b.ViewCount))
	score += popularityWeight * math.Max(0, 1-popDiff)

	return clamp01(score)
}

// Reasons lists the human-readable explanations for a pair, strongest first.
func Reasons(a, b *models.Book) []Reason {
	var reasons []Reason

	if a.Author == b.Author {
		reasons = append(reasons, Reason{Text: ReasonSameAuthor, Tag: models.TagSameAuthor})
	}

	if shared := sharedGenres(a.Genres, b.Genres); len(shared) > 0 {
		text := fmt.Sprintf("%d shared genres: %s", len(shared), strings.Join(shared, ", "))
		if len(shared) == 1 {
			text = "1 shared genre: " + shared[0]
		}
		reasons = append(reasons, Reason{Text: text, Tag: models.TagSameGenre})
	}

	if math.Abs(a.Rating-b.Rating) < similarRatingGap {
		reasons = append(reasons, Reason{Text: ReasonSimilarRating, Tag: models.TagHighRating})
	}

	return reasons
}

// TopSimilar scores every pool book other than target, keeps those above the
// threshold and returns at most limit of them, highest score first. Equal
// scores keep pool order.
//
//nolint:gocritic // rangeValCopy: pool is indexed to avoid copying books
func (s *Similarity) TopSimilar(target *models.Book, pool []models.Book, limit int) []models.Candidate {
	if limit <= 0 {
		return nil
	}

	candidates := make([]models.Candidate, 0, limit)
	for i := range pool {
		book := &pool[i]
		if book.ID == target.ID {
			continue
		}

		score := Score(target, book)
		if score <= s.threshold {
			continue
		}

		reason := Reason{Text: ReasonSimilar, Tag: models.TagSimilar}
		if rs := Reasons(target, book); len(rs) > 0 {
			reason = rs[0]
		}

		candidates = append(candidates, models.Candidate{
			Book:   *book,
			Score:  score,
			Reason: reason.Text,
			Tag:    reason.Tag,
			Source: models.SourceContentBased,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// genreOverlap returns |a ∩ b| / max(|a|, |b|) over distinct genres.
func genreOverlap(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	denom := len(setA)
	if len(setB) > denom {
		denom = len(setB)
	}
	if denom == 0 {
		return 0
	}

	shared := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			shared++
		}
	}
	return float64(shared) / float64(denom)
}

// sharedGenres returns the genres of a also present in b, in a's order.
func sharedGenres(a, b []string) []string {
	setB := toSet(b)
	seen := make(map[string]struct{}, len(a))

	var shared []string
	for _, g := range a {
		if _, ok := setB[g]; !ok {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		shared = append(shared, g)
	}
	return shared
}

func normViews(v int) float64 {
	if v < 0 {
		v = 0
	}
	return math.Log(float64(v)+1) / popularityScale
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
