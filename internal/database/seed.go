// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/models"
)

// SeedData is the content of a catalog seed file.
type SeedData struct {
	Books        []models.Book        `json:"books"`
	Users        []models.User        `json:"users"`
	Interactions []models.Interaction `json:"interactions"`
}

// SeedResult counts the records written by Seed.
type SeedResult struct {
	Books        int `json:"books"`
	Users        int `json:"users"`
	Interactions int `json:"interactions"`
}

// LoadSeedFile reads a YAML or JSON seed file. Field names follow the JSON
// API (id, title, favorite_genres, rating_value, ...).
func LoadSeedFile(path string) (*SeedData, error) {
	k := koanf.New(".")
	// JSON documents are valid YAML
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var data SeedData
	if err := k.UnmarshalWithConf("", &data, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	return &data, nil
}

// Seed writes books and users (upsert) and appends interactions. Book
// metrics are taken from the seed as-is; seeded interactions do not update
// them. Interactions without an ID or timestamp get a fresh uuid and now.
func (db *DB) Seed(ctx context.Context, data *SeedData) (SeedResult, error) {
	var res SeedResult
	books, users, log := db.Books(), db.Users(), db.Interactions()

	for i := range data.Books {
		if err := books.Upsert(ctx, &data.Books[i]); err != nil {
			return res, err
		}
		res.Books++
	}
	for i := range data.Users {
		if err := users.Upsert(ctx, &data.Users[i]); err != nil {
			return res, err
		}
		res.Users++
	}

	now := time.Now().UTC()
	for i := range data.Interactions {
		in := &data.Interactions[i]
		if in.ID == "" {
			in.ID = uuid.NewString()
		}
		if in.Timestamp.IsZero() {
			in.Timestamp = now
		}
		if err := log.Append(ctx, in); err != nil {
			return res, err
		}
		res.Interactions++
	}

	logging.Info().
		Int("books", res.Books).
		Int("users", res.Users).
		Int("interactions", res.Interactions).
		Msg("Seed data loaded")
	return res, nil
}
