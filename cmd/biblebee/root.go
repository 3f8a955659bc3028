package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bible-bee-api/internal/config"
	"github.com/bible-bee-api/internal/logging"
	"github.com/bible-bee-api/internal/repository"
	"github.com/bible-bee-api/internal/repository/sqlstore"
	"github.com/bible-bee-api/internal/services"
	schemaconfig "github.com/bible-bee-api/pkg/schema/config"
	"github.com/bible-bee-api/pkg/schema/db"
)

// cliEnv holds what the commands share. The connection is opened on first
// use so that commands without storage never touch it.
type cliEnv struct {
	open        func(ctx context.Context) (*sqlx.DB, error)
	autoMigrate bool
	strictRules bool
	logger      *zap.Logger

	conn *sqlx.DB
}

func defaultEnv() *cliEnv {
	cfg := config.GetConfig()
	return &cliEnv{
		open: func(ctx context.Context) (*sqlx.DB, error) {
			return db.Open(ctx, db.Backend(cfg.StorageBackend), schemaconfig.GetConfig())
		},
		autoMigrate: cfg.AutoMigrate,
		strictRules: cfg.StrictRules,
	}
}

func (e *cliEnv) db(ctx context.Context) (*sqlx.DB, error) {
	if e.conn != nil {
		return e.conn, nil
	}
	conn, err := e.open(ctx)
	if err != nil {
		return nil, withCode(exitStorage, err)
	}
	if e.autoMigrate {
		if err := db.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, withCode(exitStorage, err)
		}
	}
	e.conn = conn
	return conn, nil
}

func (e *cliEnv) store(ctx context.Context) (repository.Store, error) {
	conn, err := e.db(ctx)
	if err != nil {
		return repository.Store{}, err
	}
	return sqlstore.New(conn), nil
}

func (e *cliEnv) resolver(store repository.Store) *services.RuleResolver {
	return services.NewRuleResolver(store.Years, store.Rules, e.strictRules)
}

func (e *cliEnv) close() {
	if e.conn != nil {
		_ = e.conn.Close()
		e.conn = nil
	}
}

func newRootCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "biblebee",
		Short:         "Bible Bee scripture import and enrollment tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if env.logger != nil {
				return nil
			}
			cfg := config.GetConfig()
			logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return withCode(exitUsage, err)
			}
			env.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if env.logger != nil {
				_ = env.logger.Sync()
			}
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return withCode(exitUsage, err)
	})

	cmd.AddCommand(newMigrateCmd(env))
	cmd.AddCommand(newPreviewCmd(env))
	cmd.AddCommand(newImportCmd(env))
	cmd.AddCommand(newLookupCmd(env))
	cmd.AddCommand(newEnrollCmd(env))
	cmd.AddCommand(newSeedCmd(env))
	return cmd
}

// exactArgs is cobra.ExactArgs with a usage exit code
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return withCode(exitUsage, cobra.ExactArgs(n)(cmd, args))
	}
}

// requireFlags reports missing required string flags with a usage exit code
func requireFlags(flags map[string]string) error {
	for name, value := range flags {
		if value == "" {
			return withCode(exitUsage, fmt.Errorf("required flag \"%s\" not set", name))
		}
	}
	return nil
}

func Execute() {
	_ = godotenv.Load()

	env := defaultEnv()
	err := newRootCmd(env).Execute()
	env.close()
	if err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}
