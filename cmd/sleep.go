package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/notify"
	"github.com/cyberstack/hemu/internal/power"
	"github.com/cyberstack/hemu/internal/ui"
)

var flagNotify bool

func init() {
	sleepCmd.Flags().BoolVar(&flagNotify, "notify", false, "Send the SYSTEM_SLEEP push notification and webhook before sleeping")
	rootCmd.AddCommand(sleepCmd)
}

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Put this machine to sleep now",
	Long: `Asks the operating system to put the machine to sleep immediately.

The request is fire-and-forget: hemu returns as soon as it has been made,
and the OS may still refuse (for example when another process holds a
sleep assertion). Nothing is reported in that case.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}

		if flagNotify {
			d, closeFn, err := newDispatcher(cfg)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Webhook.Timeout+cfg.Notify.Timeout)
			out := d.Notify(ctx, notify.SystemSleep)
			cancel()
			closeFn()
			if !out.Pushed && !out.Hooked {
				ui.Warn("No notification was delivered")
			}
		}

		ui.Info("Requesting sleep...")
		power.SleepNow()
		return nil
	},
}
