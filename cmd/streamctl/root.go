// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/streamai/internal/logging"
	"github.com/tomtom215/streamai/internal/securelink"
)

// Environment fallbacks, shared with the server configuration.
const (
	envSigningSecret = "STREAM_SIGNING_SECRET"
	envJWTSecret     = "JWT_SECRET"
)

// commandContext carries the persistent flags to subcommands.
type commandContext struct {
	secret    string
	algorithm string
	bindIP    bool
	verbose   bool
}

// signer builds a Signer from flags, falling back to STREAM_SIGNING_SECRET.
func (c *commandContext) signer() (*securelink.Signer, error) {
	secret := c.secret
	if secret == "" {
		secret = os.Getenv(envSigningSecret)
	}
	if secret == "" {
		return nil, errors.New("signing secret required: pass --secret or set " + envSigningSecret)
	}
	return securelink.NewSigner(securelink.Config{
		Secret:       secret,
		Algorithm:    securelink.Algorithm(strings.ToLower(c.algorithm)),
		BindClientIP: c.bindIP,
	})
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "streamctl",
		Short:         "StreamAI operator tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if ctx.verbose {
				level = "debug"
			}
			logging.Init(logging.Config{Level: level, Format: "console", Output: cmd.ErrOrStderr()})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.secret, "secret", "", "Signing secret shared with the edge (default $"+envSigningSecret+")")
	flags.StringVar(&ctx.algorithm, "algorithm", string(securelink.AlgorithmMD5), "Signature algorithm: md5 or hmac-sha256")
	flags.BoolVar(&ctx.bindIP, "bind-ip", false, "Signatures cover the client address")
	flags.BoolVarP(&ctx.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newSignCommand(ctx))
	rootCmd.AddCommand(newVerifyCommand(ctx))
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newCatalogCommand())

	return rootCmd
}
