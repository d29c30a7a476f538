package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"keyword-trends/models"
)

var (
	flagSeriesGroup string
	flagSeriesDays  int
)

var seriesCmd = &cobra.Command{
	Use:   "series <keyword>",
	Short: "Print the time series of a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagSeriesGroup == "" {
			return fmt.Errorf("--group is required")
		}
		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		end := time.Now()
		r := models.DateRange{
			Start: end.AddDate(0, 0, -flagSeriesDays).Format(models.DateLayout),
			End:   end.Format(models.DateLayout),
		}
		entry, err := a.engine.GetTimeSeries(cmd.Context(), flagSeriesGroup, args[0], r)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	},
}

func init() {
	seriesCmd.Flags().StringVar(&flagSeriesGroup, "group", "", "group id")
	seriesCmd.Flags().IntVar(&flagSeriesDays, "days", 30, "days to look back")
}
