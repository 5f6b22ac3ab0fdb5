package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/history"
	"github.com/cyberstack/hemu/internal/ui"
)

var (
	flagHistoryLimit int
	flagHistoryClear bool
)

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of records to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all records")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		if flagHistoryClear {
			n, err := store.Clear(ctx)
			if err != nil {
				return err
			}
			ui.Success("Deleted %d records", n)
			return nil
		}

		records, err := store.List(ctx, flagHistoryLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			ui.Info("No records in %s", cfg.History.Path)
			return nil
		}

		out := cmd.OutOrStdout()
		for _, r := range records {
			notified := ""
			if r.Notified {
				notified = "notified"
			}
			fmt.Fprintf(out, "%s  %-13s %d  %s\n", r.Time.Format("2006-01-02 15:04:05"), r.Event, r.Tag, notified)
		}
		return nil
	},
}
