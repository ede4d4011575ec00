// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/streamai/internal/securelink"
)

// newVerifyCommand checks a URL the way the edge does, so an nginx
// secure_link configuration can be tested against issued links.
func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var (
		clientIP string
		at       int64
	)

	cmd := &cobra.Command{
		Use:   "verify <url>",
		Short: "Validate a signed URL with the edge rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := ctx.signer()
			if err != nil {
				return err
			}
			ip, err := normalizeIP(clientIP)
			if err != nil {
				return err
			}

			now := time.Now()
			if at != 0 {
				now = time.Unix(at, 0)
			}

			parsed, err := securelink.Parse(args[0])
			if err != nil {
				return err
			}
			if err := signer.Verify(parsed.Path, parsed.Signature, parsed.Expires, ip, now); err != nil {
				return fmt.Errorf("rejected: %w", err)
			}

			remaining := time.Unix(parsed.Expires, 0).Sub(now).Truncate(time.Second)
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s expires %s (in %s)\n",
				parsed.Path, time.Unix(parsed.Expires, 0).UTC().Format(time.RFC3339), remaining)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientIP, "client-ip", "", "Client address the link was bound to")
	cmd.Flags().Int64Var(&at, "at", 0, "Evaluate at this unix time instead of now")
	return cmd
}
