// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/shelfwise/internal/models"
)

func interactionIDs(in []models.Interaction) []string {
	out := make([]string, len(in))
	for i := range in {
		out[i] = in[i].ID
	}
	return out
}

func TestInteractionStore_FindByUser(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	got, err := db.Interactions().FindByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("FindByUser() error = %v", err)
	}
	if want := []string{"i4", "i2", "i1"}; !equalIDs(interactionIDs(got), want) {
		t.Fatalf("FindByUser() = %v, want %v (newest first)", interactionIDs(got), want)
	}

	rating := got[1]
	if rating.Kind != models.KindRating || rating.RatingValue == nil || *rating.RatingValue != 5 {
		t.Errorf("rating interaction = %+v", rating)
	}
	if rating.TimeOnPage != nil {
		t.Errorf("rating TimeOnPage = %v, want nil", *rating.TimeOnPage)
	}
	if !rating.Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("Timestamp = %v, want %v", rating.Timestamp, base.Add(time.Minute))
	}

	view := got[2]
	if view.TimeOnPage == nil || *view.TimeOnPage != 30 || view.RatingValue != nil {
		t.Errorf("view interaction = %+v", view)
	}

	none, err := db.Interactions().FindByUser(ctx, "nobody")
	if err != nil || len(none) != 0 {
		t.Errorf("FindByUser(nobody) = %v, %v, want empty", none, err)
	}
}

func TestInteractionStore_FindByItemAndDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	got, err := db.Interactions().FindByItem(ctx, "b1")
	if err != nil {
		t.Fatalf("FindByItem() error = %v", err)
	}
	if want := []string{"i5", "i3", "i1"}; !equalIDs(interactionIDs(got), want) {
		t.Errorf("FindByItem() = %v, want %v", interactionIDs(got), want)
	}

	users, err := db.Interactions().DistinctUserIDs(ctx)
	if err != nil {
		t.Fatalf("DistinctUserIDs() error = %v", err)
	}
	if want := []string{"u1", "u2", "u3"}; !equalIDs(users, want) {
		t.Errorf("DistinctUserIDs() = %v, want %v", users, want)
	}
}

func TestInteractionStore_AppendValidation(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   *models.Interaction
	}{
		{"nil", nil},
		{"missing id", &models.Interaction{UserID: "u", BookID: "b", Kind: models.KindView}},
		{"missing user", &models.Interaction{ID: "i", BookID: "b", Kind: models.KindView}},
		{"unknown kind", &models.Interaction{ID: "i", UserID: "u", BookID: "b", Kind: "share"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.Interactions().Append(ctx, tt.in); !errors.Is(err, ErrInvalidInteraction) {
				t.Errorf("Append() error = %v, want ErrInvalidInteraction", err)
			}
		})
	}
}

func TestInteractionStore_History(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	page, err := db.Interactions().UserHistory(ctx, "u1", 2, 2)
	if err != nil {
		t.Fatalf("UserHistory() error = %v", err)
	}
	if !equalIDs(interactionIDs(page.Interactions), []string{"i1"}) {
		t.Errorf("UserHistory page 2 = %v, want [i1]", interactionIDs(page.Interactions))
	}
	if page.Pagination.Total != 3 || page.Pagination.TotalPages != 2 || page.Pagination.Page != 2 {
		t.Errorf("Pagination = %+v", page.Pagination)
	}

	page, err = db.Interactions().BookHistory(ctx, "b1", 0, 0)
	if err != nil {
		t.Fatalf("BookHistory() error = %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != 20 || len(page.Interactions) != 3 {
		t.Errorf("BookHistory defaults = %+v, %d items", page.Pagination, len(page.Interactions))
	}
}

func TestInteractionStore_Stats(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	tests := []struct {
		name           string
		userID, bookID string
		want           models.InteractionStats
	}{
		{"global", "", "", models.InteractionStats{TotalViews: 2, TotalRatings: 2, TotalWishlists: 1, TotalInteractions: 5, AverageRating: 4.5}},
		{"user", "u1", "", models.InteractionStats{TotalViews: 1, TotalRatings: 1, TotalWishlists: 1, TotalInteractions: 3, AverageRating: 5}},
		{"book", "", "b1", models.InteractionStats{TotalViews: 2, TotalRatings: 1, TotalInteractions: 3, AverageRating: 4}},
		{"user and book", "u1", "b1", models.InteractionStats{TotalViews: 1, TotalInteractions: 1}},
		{"nothing", "nobody", "", models.InteractionStats{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Interactions().Stats(ctx, tt.userID, tt.bookID)
			if err != nil {
				t.Fatalf("Stats() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("Stats() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestInteractionStore_ActiveUsers(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	ctx := context.Background()

	got, err := db.Interactions().ActiveUsers(ctx, 10)
	if err != nil {
		t.Fatalf("ActiveUsers() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ActiveUsers() returned %d users, want 3", len(got))
	}

	// u1 has 3 interactions; u3 and u2 have one each, u3 more recently
	if got[0].User.ID != "u1" || got[0].InteractionCount != 3 || got[0].User.Username != "ursula" {
		t.Errorf("ActiveUsers()[0] = %+v", got[0])
	}
	if got[1].User.ID != "u3" || got[2].User.ID != "u2" {
		t.Errorf("ActiveUsers() order = %s, %s, want u3, u2", got[1].User.ID, got[2].User.ID)
	}
	if got[1].User.Username != "" {
		t.Errorf("unknown user Username = %q, want empty", got[1].User.Username)
	}
	if !got[0].LastActivity.Equal(base.Add(3 * time.Minute)) {
		t.Errorf("LastActivity = %v, want %v", got[0].LastActivity, base.Add(3*time.Minute))
	}

	top, err := db.Interactions().ActiveUsers(ctx, 1)
	if err != nil || len(top) != 1 {
		t.Errorf("ActiveUsers(1) = %v, %v", top, err)
	}
}
