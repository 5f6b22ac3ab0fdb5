package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/notify"
	"github.com/cyberstack/hemu/internal/ui"
	"github.com/cyberstack/hemu/internal/watch"
)

const testMessage = "hemu test notification"

func init() {
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage push notifications",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test push notification, ignoring quiet hours",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}

		push := notify.NewPush(cfg.Notify, version)
		if !push.Enabled() {
			ui.Warn("notify.type is %q, nothing to send", cfg.Notify.Type)
			return nil
		}

		hostname, _ := os.Hostname()
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Notify.Timeout)
		defer cancel()
		if _, err := push.Send(ctx, watch.Title(hostname), testMessage); err != nil {
			return err
		}

		ui.Success("Test notification sent via %s", cfg.Notify.Type)
		return nil
	},
}
