package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"keyword-trends/scheduler"
)

var (
	flagFile  string
	flagDate  string
	flagGroup string
	flagJSON  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Score one batch now",
	Long: `Score a batch and persist the results.

With --file the batch is read from a JSON file. Without it, every group in
the configured inbox is scored for --date (default: yesterday), which is how
missed days are backfilled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		if flagFile == "" {
			if a.cfg.InboxDir == "" {
				return fmt.Errorf("no --file given and inbox_dir is not configured")
			}
			sched, err := scheduler.New(a.engine, a.store, scheduler.Options{
				Timezone: a.cfg.Timezone,
				InboxDir: a.cfg.InboxDir,
			}, nil)
			if err != nil {
				return err
			}
			day := flagDate
			if day == "" {
				day = sched.Yesterday()
			}
			results, err := sched.RunDay(cmd.Context(), day)
			for _, r := range results {
				fmt.Printf("%-20s persisted=%d failed=%d\n", r.GroupID, r.Persisted, len(r.Failed))
			}
			return err
		}

		batch, err := scheduler.ReadBatch(flagFile, flagGroup, flagDate)
		if err != nil {
			return err
		}
		rep, err := a.engine.Run(cmd.Context(), batch)
		if err != nil {
			return err
		}

		if flagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep.Records)
		}
		fmt.Printf("run %s: %s/%s, %d keyword(s) persisted\n", rep.Run.RunID, batch.GroupID, batch.Date, len(rep.Records))
		for i, r := range rep.Records {
			fmt.Printf("%3d. %-30s %6.2f  sentiment %+.2f  mentions %d\n", i+1, r.Keyword, r.ImportanceScore, r.SentimentScore, r.Frequency)
		}
		if len(rep.Failed) > 0 {
			fmt.Printf("failed: %v\n", rep.Failed)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagFile, "file", "", "batch JSON file")
	runCmd.Flags().StringVar(&flagDate, "date", "", "day to score (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&flagGroup, "group", "", "group id when the file does not carry one")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "print records as JSON")
}
