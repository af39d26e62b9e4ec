// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Load books, users and interactions from a YAML or JSON file",
		Long: `Upsert the books and users of FILE and append its interactions.

Book metrics (rating, ratingCount, viewCount, wishlistCount) are written as
given; seeded interactions do not change them.`,
		Example: `  shelfwise seed testdata/catalog.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			data, err := database.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			db, err := database.New(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer closeWithLog("database", db)

			res, err := db.Seed(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("seed %s: %w", args[0], err)
			}
			logging.Info().
				Str("file", args[0]).
				Int("books", res.Books).
				Int("users", res.Users).
				Int("interactions", res.Interactions).
				Msg("Seed complete")
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}
