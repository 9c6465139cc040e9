package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cruso003/language-ai-tutor-sub000/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("configuration OK: %d catalog models, %d max attempts, sink %s\n",
			len(cfg.Catalog.Models), cfg.Routing.MaxAttempts, cfg.Usage.Sink)
		return nil
	},
}
