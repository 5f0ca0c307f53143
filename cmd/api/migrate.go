package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/helha/gdpr-app/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), connectTimeout)
			defer cancel()

			pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			defer pool.Close()

			applied, err := database.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				log.Info().Msg("schema is up to date")
				return nil
			}
			log.Info().Strs("applied", applied).Msg("migrations applied")
			return nil
		},
	}
}
