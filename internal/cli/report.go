package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"finguide/internal/report"
	"finguide/internal/store"
)

// addReportCommands adds the weekly report command.
func addReportCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the weekly AI review report",
		Long: `Assemble the week's diary entries, coverage, and pattern statistics
into a payload and generate an AI review of the week.`,
		Example: `  finguide report
  finguide report --week 2026-08-17
  finguide report --payload-only --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()

			if app.Store == nil || app.Cache == nil {
				output.Warning("Store not initialized. No diary data available.")
				return nil
			}

			week, _ := cmd.Flags().GetString("week")
			payloadOnly, _ := cmd.Flags().GetBool("payload-only")

			app.Cache.Load(ctx)
			entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{})
			if err != nil {
				output.Error("Failed to fetch diary: %v", err)
				return err
			}
			txs, err := app.Store.GetTransactions(ctx, store.TransactionFilter{})
			if err != nil {
				output.Error("Failed to fetch transactions: %v", err)
				return err
			}

			assembler := report.NewAssembler(app.Keyer, app.LLM, report.Options{
				WeeklyGoal:    app.Config.Diary.WeeklyGoal,
				TruncateChars: app.Config.Report.TruncateChars,
				TopGroups:     app.Config.Report.TopGroups,
				Persona:       app.Config.Report.Persona,
				Timeout:       app.Config.Report.Timeout,
			}, app.Logger)

			payload, err := assembler.Build(week, time.Now(), entries, txs, app.Cache.CurrentPrice)
			if err != nil {
				output.Error("Failed to assemble report: %v", err)
				return err
			}

			if payloadOnly {
				return output.JSON(payload)
			}
			if app.LLM == nil {
				output.Warning("OpenAI API key not configured; showing payload instead.")
				return output.JSON(payload)
			}

			output.Bold("Weekly Report  %s", payload.Label)
			output.Printf("  Entries: %d/%d weekly goal (%d%%)   Coverage: %d%%\n\n",
				payload.Goal.Count, payload.Goal.Goal, payload.Goal.Pct, payload.Coverage.Pct)

			text, err := assembler.Generate(ctx, payload)
			if err != nil {
				output.Error("Report generation failed: %v", err)
				return err
			}
			output.Printf("%s\n", text)
			return nil
		},
	}

	cmd.Flags().String("week", "", "Week start date (YYYY-MM-DD Monday, default: current week)")
	cmd.Flags().Bool("payload-only", false, "Print the report payload without calling the AI")
	rootCmd.AddCommand(cmd)
}
