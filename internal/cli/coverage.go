package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finguide/internal/reconcile"
	"finguide/internal/store"
)

// addCoverageCommands adds the coverage command.
func addCoverageCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Trade-to-diary journaling coverage",
		Long:  "Show the fraction of executed trades documented by a diary entry, overall and by month.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Warning("Store not initialized. No trade data available.")
				return nil
			}

			months, _ := cmd.Flags().GetInt("months")
			if months <= 0 {
				months = app.Config.Diary.MonthsBack
			}

			txs, err := app.Store.GetTransactions(ctx, store.TransactionFilter{})
			if err != nil {
				output.Error("Failed to fetch transactions: %v", err)
				return err
			}
			entries, err := app.Store.GetDiary(ctx, store.DiaryFilter{})
			if err != nil {
				output.Error("Failed to fetch diary: %v", err)
				return err
			}

			overall := reconcile.Coverage(app.Keyer, txs, entries)
			monthly := reconcile.MonthlyCoverage(app.Keyer, txs, entries, time.Now(), months)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"overall": overall,
					"monthly": monthly,
				})
			}

			output.Bold("Journaling Coverage")
			output.Printf("  Overall: %d/%d trades documented (%d%%)\n\n",
				overall.Covered, overall.Total, overall.Pct)

			table := NewTable(output, "Month", "Documented", "Trades", "Coverage")
			for _, m := range monthly {
				table.AddRow(m.Month,
					fmt.Sprintf("%d", m.Covered),
					fmt.Sprintf("%d", m.Total),
					fmt.Sprintf("%d%%", m.Pct))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("months", 0, "Trailing months to show (default from config)")
	rootCmd.AddCommand(cmd)
}
