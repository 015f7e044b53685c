package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "embednav",
	Short: "embednav runs reaction-driven interactive embeds for Discord bots",
	Long: `embednav is a convenience layer for Discord bots: command routing,
reaction-driven pagination and selection widgets, and cooperative cleanup
of the messages those widgets own.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	Execute()
}
