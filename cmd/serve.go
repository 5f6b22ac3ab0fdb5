package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/power"
	"github.com/cyberstack/hemu/internal/server"
	"github.com/cyberstack/hemu/internal/ui"
)

var flagListen string

func init() {
	serveCmd.Flags().StringVar(&flagListen, "listen", "", "Listen address (default "+config.DefaultListen+")")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a local HTTP API that puts this machine to sleep",
	Long: `Starts an HTTP server with two endpoints:

  GET  /api/info   host name, platform and machine id
  POST /api/sleep  put this machine to sleep

Set http.user and http.password to require basic auth.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(config.Flags{Listen: flagListen})
		if err != nil {
			return err
		}
		if err := cfg.ValidateServer(); err != nil {
			return err
		}

		ui.Banner(version)
		ui.KeyValue("Listen", cfg.HTTP.Listen)
		if cfg.HTTP.User != "" {
			ui.KeyValue("Auth", "basic ("+cfg.HTTP.User+")")
		}
		ui.Separator()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, power.Default(), version).Run(ctx)
	},
}
