package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/ui"
	"github.com/cyberstack/hemu/internal/watch"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "React to sleep, wake, lock and unlock events",
	Long: `Listens for host power and session events and, for each event listed in
watch.events:

  - sends a push notification (notify.type: pushover or bark)
  - posts the webhook when the event is in webhook.events
  - stores it in the history database when watch.record is true
  - runs watch.script with the event name as its argument

Quiet hours (quiet.*) hold back push notifications and the script.

On Linux events come from systemd-logind. Other platforms can feed events
with "hemu event NAME" from their own hooks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}

		d, closeFn, err := newDispatcher(cfg)
		if err != nil {
			return err
		}
		defer closeFn()

		ui.Banner(version)
		ui.KeyValue("Events", strings.Join(cfg.Watch.Events, ", "))
		ui.KeyValue("Notify", cfg.Notify.Type)
		if cfg.Webhook.Enabled {
			ui.KeyValue("Webhook", cfg.Webhook.URL)
		}
		if cfg.Watch.Record {
			ui.KeyValue("History", cfg.History.Path)
		}
		ui.Separator()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return watch.Run(ctx, watch.NewSource(), d)
	},
}
