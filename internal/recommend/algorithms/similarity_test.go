// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package algorithms

import (
	"math"
	"testing"

	"github.com/tomtom215/shelfwise/internal/models"
)

func book(id, author string, rating float64, views int, genres ...string) models.Book {
	return models.Book{ID: id, Title: id, Author: author, Genres: genres, Rating: rating, ViewCount: views}
}

func TestScore(t *testing.T) {
	t.Parallel()

	a := book("a", "X", 4.5, 1000, "SciFi", "Fiction")
	b := book("b", "X", 4.3, 800, "SciFi")

	tests := []struct {
		name string
		x, y models.Book
		want float64
		tol  float64
	}{
		{"worked example", a, b, 0.813, 0.01},
		{"identical books", a, a, 1.0, 1e-9},
		{
			"nothing in common",
			book("c", "Y", 5, 0, "Poetry"),
			book("d", "Z", 0, 999, "Horror"),
			0, 1e-9,
		},
		{
			"genre overlap only",
			book("e", "Y", 4, 10, "A", "B"),
			book("f", "Z", 4, 10, "A"),
			0.175 + 0.15 + 0.10, 1e-9,
		},
		{
			"popularity gap beyond the log scale",
			book("g", "X", 4, 0, "A"),
			book("h", "X", 4, 1000000, "B"),
			0.40 + 0.15, 1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Score(&tt.x, &tt.y)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Score() = %f, want %f (±%g)", got, tt.want, tt.tol)
			}
		})
	}
}

func TestScoreProperties(t *testing.T) {
	t.Parallel()

	books := []models.Book{
		book("1", "A", 4.9, 10000, "Fantasy", "Adventure"),
		book("2", "A", 1.0, 0, "Fantasy"),
		book("3", "B", 3.3, 42, "Romance", "Drama", "Fantasy"),
		book("4", "C", 0, 5),
		book("5", "B", 5.0, 999, "Drama", "Drama"),
	}

	for i := range books {
		for j := range books {
			x, y := &books[i], &books[j]
			s := Score(x, y)
			if s < 0 || s > 1 {
				t.Errorf("Score(%s, %s) = %f, out of [0, 1]", x.ID, y.ID, s)
			}
			if r := Score(y, x); r != s {
				t.Errorf("Score(%s, %s) = %f but Score(%s, %s) = %f", x.ID, y.ID, s, y.ID, x.ID, r)
			}
		}
	}
}

func TestReasons(t *testing.T) {
	t.Parallel()

	target := book("t", "X", 4.0, 100, "A", "B")

	tests := []struct {
		name  string
		other models.Book
		want  []models.ReasonTag
		first string
	}{
		{"author first", book("1", "X", 4.1, 10, "A"), []models.ReasonTag{models.TagSameAuthor, models.TagSameGenre, models.TagHighRating}, ReasonSameAuthor},
		{"two genres", book("2", "Y", 1.0, 10, "B", "A"), []models.ReasonTag{models.TagSameGenre}, "2 shared genres: A, B"},
		{"one genre", book("3", "Y", 1.0, 10, "A"), []models.ReasonTag{models.TagSameGenre}, "1 shared genre: A"},
		{"rating only", book("4", "Y", 4.2, 10, "C"), []models.ReasonTag{models.TagHighRating}, ReasonSimilarRating},
		{"rating within one point", book("6", "Y", 3.3, 10, "C"), []models.ReasonTag{models.TagHighRating}, ReasonSimilarRating},
		{"rating one point apart", book("7", "Y", 3.0, 10, "C"), nil, ""},
		{"none", book("5", "Y", 1.0, 10, "C"), nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Reasons(&target, &tt.other)
			if len(got) != len(tt.want) {
				t.Fatalf("Reasons() = %+v, want tags %v", got, tt.want)
			}
			for i := range got {
				if got[i].Tag != tt.want[i] {
					t.Errorf("Reasons()[%d].Tag = %q, want %q", i, got[i].Tag, tt.want[i])
				}
			}
			if len(got) > 0 && got[0].Text != tt.first {
				t.Errorf("Reasons()[0].Text = %q, want %q", got[0].Text, tt.first)
			}
		})
	}
}

func TestTopSimilar(t *testing.T) {
	t.Parallel()

	target := book("t", "X", 4, 100, "A", "B")
	pool := []models.Book{
		target,
		book("p3", "Z", 0, 0, "C"),
		book("p2", "Y", 4, 100, "A"),
		book("p1", "X", 4, 100, "A", "B"),
		book("p4", "Y", 4, 100, "A"),
	}

	s := NewSimilarity(SimilarityConfig{})
	if s.Threshold() != 0.30 {
		t.Fatalf("default Threshold() = %f, want 0.30", s.Threshold())
	}
	if s.Name() != "content_similarity" {
		t.Errorf("Name() = %q", s.Name())
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"all above threshold", 10, []string{"p1", "p2", "p4"}},
		{"truncated", 2, []string{"p1", "p2"}},
		{"zero limit", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := s.TopSimilar(&target, pool, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("TopSimilar() returned %d candidates, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if c.Book.ID != tt.want[i] {
					t.Errorf("TopSimilar()[%d] = %s, want %s", i, c.Book.ID, tt.want[i])
				}
				if c.Source != models.SourceContentBased {
					t.Errorf("Source = %q, want %q", c.Source, models.SourceContentBased)
				}
				if c.Score <= s.Threshold() || c.Score > 1 {
					t.Errorf("Score = %f, want in (%f, 1]", c.Score, s.Threshold())
				}
			}
		})
	}

	t.Run("reasons", func(t *testing.T) {
		t.Parallel()
		got := s.TopSimilar(&target, pool, 2)
		if got[0].Reason != ReasonSameAuthor || got[0].Tag != models.TagSameAuthor {
			t.Errorf("first reason = %q/%q, want same author", got[0].Reason, got[0].Tag)
		}
		if got[1].Tag != models.TagSameGenre {
			t.Errorf("second tag = %q, want %q", got[1].Tag, models.TagSameGenre)
		}
	})

	t.Run("default reason", func(t *testing.T) {
		t.Parallel()
		low := NewSimilarity(SimilarityConfig{Threshold: 0.1})
		only := []models.Book{book("q", "Y", 3.0, 100, "C")}
		got := low.TopSimilar(&target, only, 5)
		if len(got) != 1 {
			t.Fatalf("TopSimilar() returned %d candidates, want 1", len(got))
		}
		if got[0].Reason != ReasonSimilar || got[0].Tag != models.TagSimilar {
			t.Errorf("reason = %q/%q, want %q", got[0].Reason, got[0].Tag, ReasonSimilar)
		}
	})
}
