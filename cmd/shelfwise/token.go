// Shelfwise - Book Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/shelfwise/internal/auth"
	"github.com/tomtom215/shelfwise/internal/config"
	"github.com/tomtom215/shelfwise/internal/recommend"
)

type tokenOptions struct {
	userID   string
	username string
	role     string
}

func newTokenCmd(opts *rootOptions) *cobra.Command {
	var topts tokenOptions
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a JWT for a user",
		Long: `Sign a bearer token with the configured JWT secret. The token
authenticates GET /recommendations/user and /recommendations/hybrid as the
given user; the admin role also unlocks generate and stats.`,
		Example: `  shelfwise token --user u42
  shelfwise token --user ops --role admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return runToken(&cfg.Security, topts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&topts.userID, "user", "u", "", "user id (required)")
	cmd.Flags().StringVar(&topts.username, "username", "", "display name (default: the user id)")
	cmd.Flags().StringVarP(&topts.role, "role", "r", "", "role claim (default: security.default_role)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runToken(sec *config.SecurityConfig, topts tokenOptions, out io.Writer) error {
	if err := recommend.ValidateID("user", topts.userID); err != nil {
		return err
	}
	if topts.username == "" {
		topts.username = topts.userID
	}
	if topts.role == "" {
		topts.role = sec.DefaultRole
	}

	jwtManager, err := auth.NewJWTManager(sec)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT manager: %w", err)
	}
	token, err := jwtManager.GenerateToken(topts.userID, topts.username, topts.role)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
