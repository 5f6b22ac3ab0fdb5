package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyberstack/hemu/internal/ui"
	"github.com/cyberstack/hemu/internal/updater"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=".
var version = "0.1.0"

var flagCheck bool

func init() {
	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "Also check for a newer release")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of hemu",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hemu v%s\n", version)

		if !flagCheck {
			return
		}
		if info := updater.CheckForUpdate(version); info != nil {
			ui.UpdateNotice(version, info.Latest, info.DownloadURL)
		} else {
			ui.Success("Up to date")
		}
	},
}
