package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MSSkowron/CareAuth/internal/app"
	"github.com/MSSkowron/CareAuth/internal/config"
	"github.com/MSSkowron/CareAuth/internal/database"
	"github.com/MSSkowron/CareAuth/pkg/logger"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.LoggerSettings()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the gRPC token verifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to start: %w", err)
			}

			if err := a.Run(ctx); err != nil {
				return fmt.Errorf("failed to run server: %w", err)
			}

			logger.Info("Stopped gracefully")
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer logger.Close()

			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations need STORAGE_DRIVER=%s, got %q", config.StoragePostgres, cfg.StorageDriver)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := database.NewPostgresDatabase(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := database.NewSQLMigrator(db, database.MigrationsFS(), database.MigrationsDir).Up(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			logger.Info("Database is up to date")
			return nil
		},
	}
}
