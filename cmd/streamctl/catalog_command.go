// StreamAI - Secure Video Delivery Authorization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamai

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomtom215/streamai/internal/catalog"
	"github.com/tomtom215/streamai/internal/logging"
)

type catalogFlags struct {
	badgerDir   string
	hostPattern string
	manifestExt string
}

func newCatalogCommand() *cobra.Command {
	flags := &catalogFlags{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the Badger catalog",
	}
	cmd.PersistentFlags().StringVar(&flags.badgerDir, "badger-dir", "/data/catalog", "Badger catalog directory")
	cmd.PersistentFlags().StringVar(&flags.hostPattern, "internal-host-pattern", "", "Regexp for hosts treated as internal storage")
	cmd.PersistentFlags().StringVar(&flags.manifestExt, "manifest-extension", "m3u8", "Manifest extension")

	cmd.AddCommand(newCatalogImportCommand(flags))
	cmd.AddCommand(newCatalogListCommand(flags))
	return cmd
}

func (f *catalogFlags) open() (*catalog.BadgerStore, error) {
	classifier, err := catalog.NewClassifier(f.hostPattern, f.manifestExt)
	if err != nil {
		return nil, err
	}
	return catalog.OpenBadgerStore(f.badgerDir, classifier)
}

func newCatalogImportCommand(flags *catalogFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "import <data.json>",
		Short: "Load movies from a JSON catalog document into Badger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			items, err := catalog.DecodeItems(data)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			store, err := flags.open()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing catalog")
				}
			}()

			if err := store.Import(cmd.Context(), items); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d items into %s\n", len(items), flags.badgerDir)
			return nil
		},
	}
}

func newCatalogListCommand(flags *catalogFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog entries and how each is served",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := flags.open()
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Error().Err(err).Msg("Error closing catalog")
				}
			}()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.Item.ID, describeSource(e.Source), e.Item.Title)
			}
			return nil
		},
	}
}

func describeSource(src catalog.Source) string {
	switch s := src.(type) {
	case catalog.InternalContent:
		return "internal " + s.Path
	case catalog.ExternalContent:
		return "external " + s.URL
	default:
		return "unknown"
	}
}
