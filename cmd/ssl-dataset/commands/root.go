package commands

import (
	"context"
	"fmt"
	"os"
	"ssl-dataset/lib/telemetry"

	"github.com/spf13/cobra"
)

var configPath *string
var debug *bool

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read, config.local.json5 next to it overrides it.")
	debug = rootCmd.PersistentFlags().Bool("debug", false, "Log debug messages and dump every http request to <dev_state>/resty.")
}

var rootCmd = &cobra.Command{
	Use:   "ssl-dataset",
	Short: "ssl-dataset scrapes Swiss Super League standings and fixtures into csv datasets.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*debug)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
