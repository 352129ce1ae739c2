package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"cdnsim/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cdnsim",
	Short: "Synthetic CDN measurement toolkit",
	Long:  "cdnsim generates reproducible synthetic CDN performance datasets and reports on them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := logging.New()
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(viewCmd)
}
