package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/notify"
	"github.com/cyberstack/hemu/internal/ui"
)

func init() {
	rootCmd.AddCommand(eventCmd)
}

var eventCmd = &cobra.Command{
	Use:   "event NAME",
	Short: "Handle one event as if it had been observed",
	Long: `Runs the same actions "hemu watch" runs for NAME (for example
SYSTEM_LOCK or 130). Useful from sleepwatcher, a login hook or a
scheduled task on platforms without a built-in event source.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := notify.ParseEvent(args[0])
		if err != nil {
			return err
		}

		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}
		d, closeFn, err := newDispatcher(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		out := d.Handle(context.Background(), event)
		if !out.Active {
			ui.Warn("%s is not in watch.events, nothing to do", event)
			return nil
		}
		ui.Success("Handled %s", event)
		return nil
	},
}
