package cmd

import (
	"fmt"
	"os"

	"github.com/kataras/golog"
	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/config"
)

var (
	flagConfig   string
	flagLogLevel string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.hemu/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

var rootCmd = &cobra.Command{
	Use:   "hemu",
	Short: "hemu puts this machine to sleep, locally or on request",
	Long: `hemu asks the operating system to put the host to sleep right away.

Run "hemu sleep" from a hotkey or script, "hemu serve" to expose a small
local HTTP API, or "hemu agent" to accept sleep requests from a remote
controller over WebSocket.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a command and applies the log level.
func loadConfig(flags config.Flags) (*config.Config, error) {
	flags.ConfigPath = flagConfig
	flags.LogLevel = flagLogLevel

	cfg, err := config.Load(flags)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	golog.SetOutput(os.Stderr)
	golog.SetTimeFormat("2006/01/02 15:04:05")
	golog.SetLevel(cfg.Log.Level)

	return cfg, nil
}
