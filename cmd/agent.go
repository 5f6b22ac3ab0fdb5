package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/client"
	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/power"
	"github.com/cyberstack/hemu/internal/ui"
	"github.com/cyberstack/hemu/internal/updater"
)

var (
	flagToken string
	flagURL   string
)

func init() {
	agentCmd.Flags().StringVar(&flagToken, "token", "", "Agent authentication token")
	agentCmd.Flags().StringVar(&flagURL, "url", "", "WebSocket URL (e.g. wss://control.example.com/hemu/ws)")
	rootCmd.AddCommand(agentCmd)
}

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Accept sleep requests from a remote controller",
	Long: `Keeps a WebSocket connection to a controller open. When the controller
sends a "sleep" request, this machine acknowledges it and goes to sleep.

The connection automatically reconnects with exponential backoff if interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ui.Banner(version)

		// Check for updates (best-effort)
		if info := updater.CheckForUpdate(version); info != nil {
			ui.UpdateNotice(version, info.Latest, info.DownloadURL)
		}

		cfg, err := loadConfig(config.Flags{AgentToken: flagToken, AgentURL: flagURL})
		if err != nil {
			return err
		}
		if err := cfg.ValidateAgent(); err != nil {
			return err
		}

		fmt.Fprintln(os.Stderr)
		ui.KeyValue("Endpoint", cfg.Agent.URL)
		ui.Separator()
		ui.Info("Waiting for connection...")

		c := client.New(cfg, power.Default(), version)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-sigCh
			fmt.Fprintln(os.Stderr)
			ui.Warn("Shutting down...")
			c.Stop()
		}()

		return c.Run()
	},
}
