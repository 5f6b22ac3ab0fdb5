package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/notify"
	"github.com/cyberstack/hemu/internal/ui"
)

func init() {
	webhookCmd.AddCommand(webhookTestCmd)
	rootCmd.AddCommand(webhookCmd)
}

var webhookCmd = &cobra.Command{
	Use:   "webhook",
	Short: "Manage the event webhook",
}

var webhookTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample SYSTEM_LOCK event to the configured webhook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{})
		if err != nil {
			return err
		}
		hook, err := notify.New(cfg.Webhook, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Webhook.Timeout)
		defer cancel()
		if err := hook.SendTest(ctx); err != nil {
			return err
		}

		ui.Success("Webhook delivered to %s", cfg.Webhook.URL)
		return nil
	},
}
