package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/leasebook/internal/config"
	"github.com/stwalsh4118/leasebook/internal/database"
	"github.com/stwalsh4118/leasebook/internal/logger"
	"github.com/stwalsh4118/leasebook/internal/repository"
)

// app carries what every command needs. It is filled by open before a
// command runs unless a store is already set.
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.Database
	store repository.Store
	now   func() time.Time
}

func (a *app) open(ctx context.Context) error {
	if a.store != nil {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger.NewWithLevel(cfg.Server.Env, cfg.Server.LogLevel)

	db, err := database.Open(ctx, cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	a.store = repository.NewStore(db)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "leasectl",
		Short:         "Operate the leasebook ledger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	rootCmd.AddCommand(
		migrateCmd(a),
		amendCmd(a),
		outstandingCmd(a),
		statsCmd(a),
		alertsCmd(a),
	)
	return rootCmd
}

func main() {
	a := &app{now: time.Now}
	err := newRootCmd(a).ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
