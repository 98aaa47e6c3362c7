package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"finguide/internal/quotes"
	"finguide/internal/store"
	"finguide/pkg/utils"
)

// addQuoteCommands adds quote commands.
func addQuoteCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Quote cache management",
		Long:  "Refresh, inspect, and search the cached quotes for diary symbols.",
	}

	cmd.AddCommand(newQuotesShowCmd(app))
	cmd.AddCommand(newQuotesRefreshCmd(app))
	cmd.AddCommand(newQuotesWatchCmd(app))
	cmd.AddCommand(newQuotesSearchCmd(app))

	rootCmd.AddCommand(cmd)
}

func diarySymbols(ctx context.Context, app *App) []string {
	entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{})
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to collect diary symbols")
		return nil
	}
	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Symbol != "" {
			symbols = append(symbols, e.Symbol)
		}
	}
	return symbols
}

func newQuotesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show cached quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if app.Cache == nil {
				output.Warning("Store not initialized.")
				return nil
			}

			app.Cache.Load(ctx)
			snapshot := app.Cache.Snapshot()
			if output.IsJSON() {
				return output.JSON(snapshot)
			}
			if len(snapshot) == 0 {
				output.Info("Quote cache is empty. Run 'finguide quotes refresh'.")
				return nil
			}

			table := NewTable(output, "Symbol", "Price", "Change")
			for _, q := range snapshot {
				table.AddRow(q.Symbol, utils.FormatPrice(q.Price), output.FormatMove(q.ChangePct))
			}
			table.Render()
			return nil
		},
	}
}

func newQuotesRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh quotes for all diary symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil || app.Cache == nil {
				output.Warning("Store not initialized.")
				return nil
			}

			app.Cache.Load(ctx)
			symbols := diarySymbols(ctx, app)
			if len(symbols) == 0 {
				output.Info("No diary symbols to refresh.")
				return nil
			}

			if err := app.Cache.Refresh(ctx, app.Fetcher, symbols); err != nil {
				output.Error("Refresh failed: %v", err)
				return err
			}
			output.Success("Refreshed %d symbols", len(quotes.DedupeSymbols(symbols)))
			return nil
		},
	}
}

func newQuotesWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh quotes on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil || app.Cache == nil {
				output.Warning("Store not initialized.")
				return nil
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			app.Cache.Load(ctx)
			refresher := quotes.NewRefresher(app.Cache, app.Fetcher,
				func(ctx context.Context) []string { return diarySymbols(ctx, app) },
				app.Config.Quotes.RefreshInterval, app.Logger)

			output.Info("Watching quotes every %s. Ctrl-C to stop.", app.Config.Quotes.RefreshInterval)
			refresher.Run(ctx)
			return nil
		},
	}
}

func newQuotesSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search symbols on the quote bridge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			client, ok := app.Fetcher.(*quotes.Client)
			if !ok {
				output.Warning("Search unavailable with this quote source.")
				return nil
			}

			results, err := client.Search(ctx, args[0])
			if err != nil {
				output.Error("Search failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(results)
			}
			if len(results) == 0 {
				output.Info("No matches.")
				return nil
			}

			table := NewTable(output, "Symbol", "Name")
			for _, r := range results {
				table.AddRow(r.Symbol, r.Name)
			}
			table.Render()
			return nil
		},
	}
}
