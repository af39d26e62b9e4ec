// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

/*
Package main is the entry point for the shelfwise CLI.

Usage:

	shelfwise [command]

Available Commands:

	serve       Run the HTTP API, event router and regeneration scheduler
	generate    Regenerate the recommendation cache once and print the report
	token       Issue a JWT for a user
	seed        Load books, users and interactions from a YAML or JSON file

Every command reads configuration from --config, CONFIG_PATH or the default
paths, with environment variables taking precedence.

Examples:

	# Load a catalog, then serve
	shelfwise seed testdata/catalog.yaml
	shelfwise serve

	# Admin token for POST /api/v1/recommendations/generate
	shelfwise token --user ops --role admin
*/
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/api"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	api.Version = version

	var opts rootOptions
	rootCmd := &cobra.Command{
		Use:   "shelfwise",
		Short: "Book recommendation engine",
		Long: `shelfwise serves content-based, collaborative, personalized and hybrid
book recommendations over a JSON HTTP API.

Books, users and interactions live in DuckDB. Precomputed lists are cached in
BadgerDB and refreshed by a scheduled batch job.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default: CONFIG_PATH or ./config.yaml)")

	rootCmd.AddCommand(newServeCmd(&opts))
	rootCmd.AddCommand(newGenerateCmd(&opts))
	rootCmd.AddCommand(newTokenCmd(&opts))
	rootCmd.AddCommand(newSeedCmd(&opts))
	return rootCmd
}
