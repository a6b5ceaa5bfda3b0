package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamekeep/internal/bgg"
	"gamekeep/internal/logging"
	"gamekeep/internal/notifications"
	"gamekeep/internal/recognizer"
	"gamekeep/internal/resolve"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var enrich bool

	cmd := &cobra.Command{
		Use:   "resolve <title>...",
		Short: "Resolve raw titles through the staggered session pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			var enricher resolve.Enricher
			if enrich {
				client, err := bgg.New(cfg.Catalog.BGGBaseURL)
				if err != nil {
					return fmt.Errorf("configure enrichment client: %w", err)
				}
				enricher = client
			}

			notifier := notifications.NewService(cfg)
			manager := resolve.NewManager(resolve.ManagerOptions{
				Searcher:        resolve.NewAdapter(store, logger),
				Enricher:        enricher,
				Notifier:        notifier,
				Logger:          logger,
				ResultLimit:     cfg.Resolver.ResultLimit,
				SuggestionLimit: cfg.Resolver.SuggestionLimit,
				Timings:         resolve.TimingsFromConfig(cfg),
			})
			manager.Start(cmd.Context())
			defer manager.Stop()

			key := manager.BeginSession()
			titles := make([]recognizer.RecognizedTitle, 0, len(args))
			for _, arg := range args {
				titles = append(titles, recognizer.RecognizedTitle{Title: arg})
			}
			for _, title := range recognizer.CleanBatch(titles) {
				candidate, err := manager.Accept(key, title)
				if err != nil {
					return fmt.Errorf("accept title %q: %w", title.Title, err)
				}
				if err := manager.EnqueueResolution(key, candidate.ID); err != nil {
					return fmt.Errorf("enqueue %q: %w", title.Title, err)
				}
			}

			if err := manager.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("wait for resolution: %w", err)
			}

			out := cmd.OutOrStdout()
			resolved, unresolved := 0, 0
			rows := make([][]string, 0, len(args))
			for _, c := range manager.Candidates() {
				name, year, rank := "-", "-", "-"
				if c.Resolved != nil {
					name = c.Resolved.Name
					year = formatYear(c.Resolved.YearPublished)
					rank = formatRank(c.Resolved.Rank)
				}
				detail := c.ErrorMessage
				if c.Status == resolve.StatusMatched {
					detail = ""
					resolved++
				} else {
					unresolved++
				}
				rows = append(rows, []string{
					c.RawTitle,
					colorizeStatus(out, string(c.Status)),
					name,
					year,
					rank,
					detail,
				})
			}

			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Status", "Matched", "Year", "Rank", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			_ = notifier.NotifySessionCompleted(cmd.Context(), resolved, unresolved)
			return nil
		},
	}

	cmd.Flags().BoolVar(&enrich, "enrich", false, "Fetch display details for matches from BoardGameGeek")
	return cmd
}
