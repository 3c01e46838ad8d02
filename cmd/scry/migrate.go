package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-deck/internal/config"
	"github.com/phrazzld/scry-deck/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations (postgres driver only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			storage := opts.cfg.Storage
			if storage.Driver != config.DriverPostgres {
				return fmt.Errorf("migrate needs the %s storage driver, configured driver is %s",
					config.DriverPostgres, storage.Driver)
			}

			ctx := cmd.Context()
			opts.logger.Info("running migrations",
				slog.String("url", maskDatabaseURL(storage.DatabaseURL)))

			db, err := postgres.Open(ctx, storage.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := db.Close(); err == nil {
					err = cerr
				}
			}()

			if err := postgres.Migrate(ctx, db, opts.logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
