// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/database"
	"github.com/tomtom215/shelfwise/internal/logging"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Regenerate the recommendation cache once and print the report",
		Long: `Compute content-based lists for every book and collaborative lists for
every user with interactions, write them to the cache and print the batch
report as JSON.

Interrupting the run stops the workers; the partial report is still printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.New(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer closeWithLog("database", db)

			c, err := openCache(&cfg.Cache)
			if err != nil {
				return err
			}
			defer closeWithLog("cache", c)

			engine, err := newEngine(cfg, db, c)
			if err != nil {
				return err
			}
			return runGenerate(ctx, engine, cmd.OutOrStdout())
		},
	}
}

// batchGenerator is satisfied by *recommend.Engine.
type batchGenerator interface {
	Generate(ctx context.Context) (*recommend.GenerateReport, error)
}

func runGenerate(ctx context.Context, gen batchGenerator, out io.Writer) error {
	report, genErr := gen.Generate(ctx)
	if report != nil {
		logging.Info().
			Int("books", report.Books).
			Int("users", report.Users).
			Int64("content_entries", report.ContentEntries).
			Int64("collaborative_entries", report.CollaborativeEntries).
			Int64("failures", report.Failures).
			Dur("duration", report.Duration).
			Msg("Batch generation finished")

		if err := writeJSON(out, report); err != nil {
			return err
		}
	}
	if genErr != nil {
		return fmt.Errorf("generate: %w", genErr)
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
