package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ngo-connect-backend/bootstrap"
	"ngo-connect-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	skipMigrate bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := bootstrap.Build(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := rt.Close(); err != nil {
					log.Warn().Err(err).Msg("shutdown: closing clients")
				}
			}()

			if !skipMigrate {
				if err := database.AutoMigrate(rt.DB); err != nil {
					return err
				}
			}

			done := make(chan os.Signal, 1)
			lch := make(chan error, 1)
			go func() {
				defer close(lch)
				log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server running")
				lch <- rt.App.Listen(":" + cfg.Port)
			}()
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-lch:
				return err
			case <-done:
			}

			log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return rt.App.ShutdownWithContext(sctx)
		},
	}
)

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on start")
}
