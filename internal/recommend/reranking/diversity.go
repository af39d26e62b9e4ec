// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package reranking implements post-processing for recommendation diversity.
package reranking

import (
	"math"
	"sort"

	"github.com/tomtom215/shelfwise/internal/models"
)

// DiversityConfig contains the over-representation penalties.
type DiversityConfig struct {
	// AuthorStep is the penalty per candidate sharing the author.
	AuthorStep float64

	// AuthorFloor is the smallest author multiplier.
	AuthorFloor float64

	// GenreStep is the penalty per candidate sharing a genre, averaged over
	// the candidate's genres.
	GenreStep float64

	// GenreFloor is the smallest genre multiplier.
	GenreFloor float64
}

// Diversity demotes candidates whose author or genres dominate the list.
//
// For each candidate:
//
//	authorPenalty = max(AuthorFloor, 1 - authorCount*AuthorStep)
//	genrePenalty  = max(GenreFloor, 1 - mean(genreCount(g) for g in genres)*GenreStep)
//	adjusted      = score * authorPenalty * genrePenalty
//
// Counts are taken over the whole input list and include the candidate
// itself. Candidates are returned by adjusted score, carrying the adjusted
// score.
type Diversity struct {
	cfg DiversityConfig
}

// NewDiversity creates a diversity reranker. Zero fields take the defaults
// 0.1, 0.5, 0.05 and 0.7.
func NewDiversity(cfg DiversityConfig) *Diversity {
	if cfg.AuthorStep == 0 {
		cfg.AuthorStep = 0.1
	}
	if cfg.AuthorFloor == 0 {
		cfg.AuthorFloor = 0.5
	}
	if cfg.GenreStep == 0 {
		cfg.GenreStep = 0.05
	}
	if cfg.GenreFloor == 0 {
		cfg.GenreFloor = 0.7
	}
	return &Diversity{cfg: cfg}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// Rerank applies the penalties and returns at most k candidates. Equal
// adjusted scores keep input order. The input slice is not modified.
func (d *Diversity) Rerank(items []models.Candidate, k int) []models.Candidate {
	if len(items) == 0 || k <= 0 {
		return nil
	}

	authors := make(map[string]int, len(items))
	genres := make(map[string]int)
	for i := range items {
		authors[items[i].Book.Author]++
		for g := range distinct(items[i].Book.Genres) {
			genres[g]++
		}
	}

	out := make([]models.Candidate, len(items))
	copy(out, items)

	for i := range out {
		authorPenalty := math.Max(d.cfg.AuthorFloor, 1-float64(authors[out[i].Book.Author])*d.cfg.AuthorStep)
		genrePenalty := d.genrePenalty(out[i].Book.Genres, genres)
		out[i].Score *= authorPenalty * genrePenalty
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

func (d *Diversity) genrePenalty(bookGenres []string, counts map[string]int) float64 {
	set := distinct(bookGenres)
	if len(set) == 0 {
		return 1
	}

	var total int
	for g := range set {
		total += counts[g]
	}
	mean := float64(total) / float64(len(set))
	return math.Max(d.cfg.GenreFloor, 1-mean*d.cfg.GenreStep)
}

func distinct(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
