package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables (sql) or indexes (mongo)",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openStore(cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, store.Close(context.Background()))
		}()

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		if err := store.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", cfg.Database.Driver, err)
		}
		log.Infof("%s schema is up to date", cfg.Database.Driver)
		return nil
	},
}
