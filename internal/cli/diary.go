package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"finguide/internal/analytics"
	"finguide/internal/models"
	"finguide/internal/store"
	"finguide/pkg/utils"
)

// addDiaryCommands adds diary commands.
func addDiaryCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Trading diary management",
		Long:  "Review diary entries, pattern statistics, recheck triggers, and AI feedback.",
	}

	cmd.AddCommand(newDiaryListCmd(app))
	cmd.AddCommand(newDiaryStatsCmd(app))
	cmd.AddCommand(newDiaryRecheckCmd(app))
	cmd.AddCommand(newDiaryFeedbackCmd(app))

	rootCmd.AddCommand(cmd)
}

func newDiaryListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List diary entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Warning("Store not initialized. No diary data available.")
				return nil
			}

			symbol, _ := cmd.Flags().GetString("symbol")
			emotion, _ := cmd.Flags().GetString("emotion")
			limit, _ := cmd.Flags().GetInt("limit")

			entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{
				Symbol:  symbol,
				Emotion: emotion,
				Limit:   limit,
			})
			if err != nil {
				output.Error("Failed to fetch diary: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			if len(entries) == 0 {
				output.Info("No diary entries found.")
				return nil
			}

			table := NewTable(output, "Date", "Emotion", "Driver", "Trade", "Note")
			for _, e := range entries {
				trade := ""
				if e.Symbol != "" {
					trade = string(e.TradeSide) + " " + e.Symbol
					if utils.FinitePtr(e.TradePrice) {
						trade += " @ " + utils.FormatPrice(*e.TradePrice)
					}
				}
				table.AddRow(
					app.Keyer.DateKey(e.Timestamp),
					models.EmotionLabel(e.Emotion),
					models.DriverLabel(e.Driver),
					trade,
					utils.Truncate(e.Note, 40),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "Filter by symbol")
	cmd.Flags().String("emotion", "", "Filter by emotion tag")
	cmd.Flags().Int("limit", 50, "Maximum entries to show")
	return cmd
}

func newDiaryStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Pattern statistics by emotion and decision driver",
		Long:  "Group trade-linked entries by emotion and decision driver with win rate and average effective move.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil || app.Cache == nil {
				output.Warning("Store not initialized. No diary data available.")
				return nil
			}

			app.Cache.Load(ctx)
			entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{})
			if err != nil {
				output.Error("Failed to fetch diary: %v", err)
				return err
			}

			stats := analytics.AggregatePatterns(entries, app.Cache.CurrentPrice)

			if output.IsJSON() {
				return output.JSON(stats)
			}

			output.Bold("Pattern Statistics (%d samples)", stats.SampleN)
			output.Println()

			renderGroups(output, app, "By Emotion", stats.ByEmotion, models.EmotionLabel)
			renderGroups(output, app, "By Driver", stats.ByDriver, models.DriverLabel)

			if stats.Worst != nil {
				output.Bold("Weakest combination")
				output.Printf("  %s + %s: %s avg over %d trades\n",
					models.EmotionLabel(stats.Worst.Emotion),
					models.DriverLabel(stats.Worst.Driver),
					output.FormatMove(stats.Worst.AvgMove()),
					stats.Worst.N)
			}
			return nil
		},
	}
}

func renderGroups(output *Output, app *App, title string, groups []analytics.GroupStat, label func(string) string) {
	if len(groups) == 0 {
		return
	}
	output.Bold(title)
	table := NewTable(output, "Group", "N", "Win Rate", "Avg Move")
	for _, g := range groups {
		table.AddRow(
			label(g.Key),
			utils.FormatNumber(float64(g.N)),
			utils.FormatPercent(g.WinRate()*100),
			output.FormatMove(g.AvgMove()),
		)
	}
	table.Render()
	output.Println()
}

func newDiaryRecheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recheck",
		Short: "Show entries whose recheck trigger has fired",
		Long:  "Compare live price movement against each entry's recheck trigger threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil || app.Cache == nil {
				output.Warning("Store not initialized. No diary data available.")
				return nil
			}

			app.Cache.Load(ctx)
			entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{})
			if err != nil {
				output.Error("Failed to fetch diary: %v", err)
				return err
			}

			// Best effort live refresh; stale cache still evaluates.
			symbols := make([]string, 0, len(entries))
			for _, e := range entries {
				if e.Symbol != "" {
					symbols = append(symbols, e.Symbol)
				}
			}
			if err := app.Cache.Refresh(ctx, app.Fetcher, symbols); err != nil {
				output.Warning("Quote refresh failed, using cached prices: %v", err)
			}

			fired := 0
			table := NewTable(output, "Date", "Symbol", "Move", "Trigger", "Scenario")
			for _, e := range entries {
				if e.Symbol == "" || !utils.FinitePtr(e.TradePrice) || !utils.FinitePtr(e.RecheckPct) {
					continue
				}
				current, ok := app.Cache.CurrentPrice(e.Symbol, e.TradePrice)
				if !ok {
					continue
				}
				move, ok := analytics.MovePct(current, *e.TradePrice)
				if !ok || !analytics.IsRecheckNow(move, *e.RecheckPct) {
					continue
				}
				fired++
				table.AddRow(
					app.Keyer.DateKey(e.Timestamp),
					e.Symbol,
					output.FormatMove(move),
					utils.FormatPercent(*e.RecheckPct),
					utils.Truncate(e.FailureScenario, 40),
				)
			}

			if fired == 0 {
				output.Info("No recheck triggers fired.")
				return nil
			}
			output.Bold("Positions to re-examine")
			table.Render()
			return nil
		},
	}
}

func newDiaryFeedbackCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <entry-id>",
		Short: "Generate AI coaching feedback for an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Warning("Store not initialized.")
				return nil
			}
			if app.Coach == nil {
				output.Warning("OpenAI API key not configured. Set it in credentials.toml or OPENAI_API_KEY.")
				return nil
			}

			entry, err := app.Store.GetDiaryEntry(ctx, args[0])
			if err != nil {
				output.Error("Failed to load entry: %v", err)
				return err
			}

			recent, err := app.Store.GetDiary(ctx, store.DiaryFilter{Limit: 5})
			if err != nil {
				recent = nil
			}

			text, err := app.Coach.Feedback(ctx, *entry, app.Config.Report.Persona, recent)
			if err != nil {
				output.Error("Feedback failed: %v", err)
				return err
			}

			if err := app.Store.UpdateDiaryFeedback(ctx, entry.ID, text); err != nil {
				output.Warning("Feedback generated but not saved: %v", err)
			}

			output.Bold("Coaching feedback")
			output.Printf("%s\n", text)
			return nil
		},
	}
}
