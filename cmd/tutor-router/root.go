package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "tutor-router",
	Short: "AI request router for the language tutoring backend",
	Long: `tutor-router selects the best AI provider model for each tutoring
request, tracks provider health with per-model circuit breakers, fails over
within a bounded attempt budget and records token usage per reply.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(runCmd, validateCmd, versionCmd)
}
