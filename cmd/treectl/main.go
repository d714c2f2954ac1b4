// Command treectl runs maintenance tasks against a family tree database:
// schema migration, census reports, housekeeping and user accounts.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "github.com/JonMunkholm/familytree/internal/census/catalog" // Register all censuses
	"github.com/JonMunkholm/familytree/internal/config"
	"github.com/JonMunkholm/familytree/internal/core"
	"github.com/JonMunkholm/familytree/internal/logging"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// app connects to the database on first use, so commands that only read the
// census catalog need no configuration.
type app struct {
	out     io.Writer
	cfg     *config.Config
	pool    *pgxpool.Pool
	service *core.Service
}

func (a *app) connect(ctx context.Context) (*core.Service, error) {
	if a.service != nil {
		return a.service, nil
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 2
	poolConfig.MinConns = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	a.cfg = cfg
	a.pool = pool
	a.service = core.NewService(pool,
		core.WithBcryptCost(cfg.Security.BcryptCost),
		core.WithHousekeeping(core.HousekeepingConfig{
			CacheDir:        cfg.Housekeeping.CacheDir,
			ThumbnailDir:    cfg.Housekeeping.ThumbnailDir,
			MaxCacheAge:     cfg.Housekeeping.MaxCacheAge,
			MaxThumbnailAge: cfg.Housekeeping.MaxThumbnailAge,
			MaxLogAge:       cfg.Housekeeping.MaxLogAge,
			MaxSessionAge:   cfg.Housekeeping.MaxSessionAge,
		}),
	)
	return a.service, nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	cmd := &cobra.Command{
		Use:          "treectl",
		Short:        "Family tree maintenance",
		SilenceUsage: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	cmd.AddCommand(
		newMigrateCmd(a),
		newCensusesCmd(a),
		newCensusCmd(a),
		newHousekeepingCmd(a),
		newUserCmd(a),
	)
	return cmd
}
