// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/streamai/internal/config"
)

type signedLink struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	Expires int64  `json:"expires"`
}

func newSignCommand(ctx *commandContext) *cobra.Command {
	var (
		base      string
		expiresIn time.Duration
		expiresAt int64
		clientIP  string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "sign <path>",
		Short: "Print a signed edge URL for a storage path",
		Example: `  streamctl sign /42/index.m3u8 --secret S --base https://edge.example.com
  streamctl sign /42/index.m3u8 --bind-ip --client-ip 203.0.113.7 --expires-in 1h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := ctx.signer()
			if err != nil {
				return err
			}
			if base == "" {
				base = os.Getenv("STREAM_EDGE_BASE_URL")
			}
			ip, err := normalizeIP(clientIP)
			if err != nil {
				return err
			}

			expires := expiresAt
			if expires == 0 {
				if expiresIn < time.Second {
					return fmt.Errorf("--expires-in must be at least 1s, got %v", expiresIn)
				}
				expires = time.Now().Unix() + int64(expiresIn/time.Second)
			}

			link, err := signer.SignURL(base, args[0], expires, ip)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(signedLink{URL: link, Path: args[0], Expires: expires})
			}
			fmt.Fprintln(out, link)
			return nil
		},
	}

	cmd.Flags().StringVar(&base, "base", "", "Edge base URL (default $STREAM_EDGE_BASE_URL)")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", config.DefaultValidityWindow, "Validity window from now")
	cmd.Flags().Int64Var(&expiresAt, "expires", 0, "Absolute expiry as unix seconds; overrides --expires-in")
	cmd.Flags().StringVar(&clientIP, "client-ip", "", "Client address to bind (with --bind-ip)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// normalizeIP renders addr the way the service does: parsed, with
// IPv4-mapped IPv6 unmapped. Empty stays empty.
func normalizeIP(addr string) (string, error) {
	if addr == "" {
		return "", nil
	}
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return "", fmt.Errorf("invalid --client-ip %q: %w", addr, err)
	}
	return ip.Unmap().String(), nil
}
