package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gamekeep/internal/catalog"
	"gamekeep/internal/resolve"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot catalog search and print ranked suggestions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if limit <= 0 {
				limit = cfg.Resolver.SuggestionLimit
			}
			manager := resolve.NewManager(resolve.ManagerOptions{
				Searcher:        resolve.NewAdapter(store, nil),
				SuggestionLimit: limit,
				Timings:         resolve.TimingsFromConfig(cfg),
			})

			query := strings.Join(args, " ")
			matches, err := manager.Suggest(cmd.Context(), query)
			if err != nil {
				return fmt.Errorf("search catalog: %w", err)
			}
			if len(matches) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No matches for %q\n", query)
				return nil
			}

			rows := make([][]string, 0, len(matches))
			for _, m := range matches {
				rows = append(rows, []string{
					m.Entry.Name,
					formatYear(m.Entry.YearPublished),
					formatRank(m.Entry.Rank),
					m.MatchType.String(),
					fmt.Sprintf("%.2f", m.Similarity),
				})
			}
			out := renderTable(
				[]string{"Name", "Year", "Rank", "Match", "Similarity"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions to print")
	return cmd
}

func formatYear(year int) string {
	if year <= 0 {
		return "-"
	}
	return strconv.Itoa(year)
}

func formatRank(rank int) string {
	if rank <= 0 || rank >= catalog.MissingRank {
		return "-"
	}
	return strconv.Itoa(rank)
}
