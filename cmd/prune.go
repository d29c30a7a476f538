package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"keyword-trends/models"
)

var flagPruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete records older than the retention window",
	Long: `Delete importance records, series and runs older than the retention window.

Uses retention_days from config unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(false)
		if err != nil {
			return err
		}
		defer a.close()

		days := a.cfg.RetentionDays
		if flagPruneDays > 0 {
			days = flagPruneDays
		}
		if days <= 0 {
			fmt.Println("Retention is disabled.")
			return nil
		}

		cutoff := time.Now().AddDate(0, 0, -days).Format(models.DateLayout)
		res, err := a.store.PruneBefore(cmd.Context(), cutoff)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}
		if res.Records+res.Series+res.Runs == 0 {
			fmt.Println("Nothing to prune.")
			return nil
		}
		fmt.Printf("Pruned %d record(s), %d series and %d run(s) before %s.\n", res.Records, res.Series, res.Runs, cutoff)
		return nil
	},
}

func init() {
	pruneCmd.Flags().IntVar(&flagPruneDays, "older-than", 0, "retention in days (overrides retention_days)")
}
