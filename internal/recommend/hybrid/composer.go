// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

// Package hybrid splits a recommendation limit across candidate sources and
// merges their output.
package hybrid

import (
	"math"
	"sort"

	"github.com/tomtom215/shelfwise/internal/models"
	"github.com/tomtom215/shelfwise/internal/recommend/reranking"
)

// quotaEpsilon absorbs float error in limit*share before flooring.
const quotaEpsilon = 1e-9

// Config contains the source shares for both compositions.
type Config struct {
	// PersonalizedCollaborative and PersonalizedPreference split ForUser.
	PersonalizedCollaborative float64
	PersonalizedPreference    float64

	// Hybrid shares.
	Collaborative float64
	Content       float64
	Popularity    float64
	Preference    float64

	Diversity reranking.DiversityConfig
}

// Split is the per-source quota for one hybrid request.
type Split struct {
	Collaborative int
	Content       int
	Popularity    int
	Preference    int
}

// Composer merges source candidates into final lists.
type Composer struct {
	cfg       Config
	diversity *reranking.Diversity
}

// NewComposer creates a composer.
func NewComposer(cfg Config) *Composer {
	return &Composer{
		cfg:       cfg,
		diversity: reranking.NewDiversity(cfg.Diversity),
	}
}

// Quota returns floor(limit * share). A zero quota means the source is
// skipped.
func Quota(limit int, share float64) int {
	if limit <= 0 || share <= 0 {
		return 0
	}
	return int(math.Floor(float64(limit)*share + quotaEpsilon))
}

// PersonalizedSplit returns the collaborative and preference quotas.
func (c *Composer) PersonalizedSplit(limit int) (collaborative, preference int) {
	return Quota(limit, c.cfg.PersonalizedCollaborative), Quota(limit, c.cfg.PersonalizedPreference)
}

// HybridSplit returns the quotas of the four hybrid sources.
func (c *Composer) HybridSplit(limit int) Split {
	return Split{
		Collaborative: Quota(limit, c.cfg.Collaborative),
		Content:       Quota(limit, c.cfg.Content),
		Popularity:    Quota(limit, c.cfg.Popularity),
		Preference:    Quota(limit, c.cfg.Preference),
	}
}

// Personalized merges collaborative and preference candidates: duplicates
// keep their first occurrence, the rest is ordered by score and truncated to
// limit.
func (c *Composer) Personalized(collaborative, preference []models.Candidate, limit int) []models.Candidate {
	merged := make([]models.Candidate, 0, len(collaborative)+len(preference))
	merged = append(merged, collaborative...)
	merged = append(merged, preference...)

	out := Dedupe(merged)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Hybrid concatenates sources in order, removes duplicates and diversifies
// the result down to limit.
func (c *Composer) Hybrid(sources [][]models.Candidate, limit int) []models.Candidate {
	var merged []models.Candidate
	for _, s := range sources {
		merged = append(merged, s...)
	}
	return c.diversity.Rerank(Dedupe(merged), limit)
}

// Dedupe drops candidates whose book already appeared earlier in the list.
func Dedupe(candidates []models.Candidate) []models.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		id := candidates[i].Book.ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, candidates[i])
	}
	return out
}
