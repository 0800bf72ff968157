package main

import (
	"os"

	"ngo-connect-backend/internal/config"
	"ngo-connect-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:          "ngoconnect",
		Short:        "NGO Connect API server",
		Long:         "NGO Connect matches volunteers with organisations that need their skills.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			logger.Setup(cfg.LogLevel, cfg.Env)
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, verifyDBCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
