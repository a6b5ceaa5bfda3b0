package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"gamekeep/internal/config"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local catalog snapshot",
	}

	catalogCmd.AddCommand(newCatalogLoadCommand(ctx))
	catalogCmd.AddCommand(newCatalogInfoCommand(ctx))

	return catalogCmd
}

func newCatalogLoadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "load <snapshot.json>",
		Short: "Replace the local catalog from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve snapshot path: %w", err)
			}

			loaded, skipped, err := store.LoadSnapshot(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("load snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d entries (%d skipped) into %s\n",
				loaded, skipped, store.Path())
			return nil
		},
	}
}

func newCatalogInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show catalog snapshot statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("inspect catalog: %w", err)
			}

			rows := [][]string{
				{"Database", store.Path()},
				{"Entries", strconv.Itoa(count)},
				{"BGG base URL", cfg.Catalog.BGGBaseURL},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Field", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}
