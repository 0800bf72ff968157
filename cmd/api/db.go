package main

import (
	"fmt"
	"sort"

	"ngo-connect-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(db *gorm.DB) error {
				if err := database.AutoMigrate(db); err != nil {
					return err
				}
				log.Info().Int("models", len(database.Models())).Msg("schema migrated")
				return nil
			})
		},
	}

	verifyDBCmd = &cobra.Command{
		Use:   "verify-db",
		Short: "Check the database connection and list its tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(func(db *gorm.DB) error {
				if err := database.Ping(db); err != nil {
					return fmt.Errorf("database unreachable: %w", err)
				}
				tables, err := database.Tables(db)
				if err != nil {
					return err
				}
				sort.Strings(tables)
				fmt.Fprintf(cmd.OutOrStdout(), "Database connection OK (%d tables)\n", len(tables))
				for _, t := range tables {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", t)
				}
				return nil
			})
		},
	}
)

func withDB(fn func(db *gorm.DB) error) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(db)
}
