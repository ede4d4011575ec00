// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/streamai/internal/auth"
	"github.com/tomtom215/streamai/internal/config"
)

// newTokenCommand mints bearer tokens for local testing. The service never
// issues tokens itself.
func newTokenCommand() *cobra.Command {
	var (
		secret string
		issuer string
		id     string
		email  string
		name   string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development JWT",
		Example: `  streamctl token --id u1 --role USER
  streamctl token --id admin --role ADMIN --ttl 15m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv(envJWTSecret)
			}
			if secret == "" {
				return errors.New("jwt secret required: pass --jwt-secret or set " + envJWTSecret)
			}
			manager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: secret, JWTIssuer: issuer})
			if err != nil {
				return err
			}
			token, err := manager.GenerateToken(id, email, name, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "jwt-secret", "", "HS256 secret (default $"+envJWTSecret+")")
	cmd.Flags().StringVar(&issuer, "issuer", "", "iss claim")
	cmd.Flags().StringVar(&id, "id", "", "User id")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&name, "name", "", "Display name claim")
	cmd.Flags().StringVar(&role, "role", "USER", "Role claim: USER or ADMIN")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
