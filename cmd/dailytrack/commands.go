package main

import (
	"fmt"

	"github.com/GoArmGo/DailyTrack/internal/di"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dailytrack",
		Short: "Daily tracking backend: tasks, reflections and energy assessments",
		Long: `DailyTrack stores per-day tasks, reflections and energy assessments
for each user and serves them over a JSON HTTP API.

Configuration is read from the environment (and from .env when present).`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := di.Bootstrap()
			if err != nil {
				return err
			}

			application, err := di.BuildApp(cmd.Context(), cfg, logger)
			if err != nil {
				logger.Error("failed to build app", "error", err)
				return err
			}

			if err := application.Run(cmd.Context()); err != nil {
				logger.Error("application run failed", "error", err)
				return err
			}

			logger.Info("application stopped gracefully")
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  withMigrator(func(m migrator, cmd *cobra.Command) error { return m.Up() }),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE:  withMigrator(func(m migrator, cmd *cobra.Command) error { return m.Down() }),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: withMigrator(func(m migrator, cmd *cobra.Command) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		},
	)
	return migrateCmd
}

type migrator interface {
	Up() error
	Down() error
	Version() (uint, bool, error)
	Close() error
}

// withMigrator открывает мигратор, выполняет действие и закрывает его.
func withMigrator(run func(migrator, *cobra.Command) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := di.Bootstrap()
		if err != nil {
			return err
		}
		m, err := di.BuildMigrator(cfg, logger)
		if err != nil {
			return err
		}

		runErr := run(m, cmd)
		if closeErr := m.Close(); closeErr != nil && runErr == nil {
			return closeErr
		}
		return runErr
	}
}
