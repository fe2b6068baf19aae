package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"secretsanta/config"
	"secretsanta/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gorm.io/gorm"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "secretsanta",
		Short:         "Secret Santa exchanges: participants, random draws and private reveals.",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.String("db-driver", "postgres", "database driver, postgres or sqlite (env: DB_DRIVER)")
	fs.String("db-path", "secretsanta.db", "sqlite database file (env: DB_PATH)")

	cmd.AddCommand(newServeCmd(), newInitDBCmd(), newMigrateLegacyCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringP("port", "p", "8080", "port to listen on (env: PORT)")
	fs.StringP("bind", "b", "localhost", "address to bind to (env: BIND_ADDRESS)")

	return cmd
}

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the schema and the bootstrap super admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			admin, err := services.NewUserService(db).EnsureSuperAdmin(cmd.Context(), cfg.AdminUser, cfg.AdminPassword)
			if err != nil {
				return fmt.Errorf("failed to create super admin: %w", err)
			}

			log.Printf("Database initialized, super admin %q has id %d", admin.Username, admin.ID)
			return nil
		},
	}
}

func newMigrateLegacyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-legacy",
		Short: "Move the single-scope participants into a reserved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}

			users := services.NewUserService(db)
			migrator := services.NewLegacyMigrator(db, users, cfg.AdminUser, cfg.AdminPassword, cfg.LegacyGameName)

			result, err := migrator.Migrate(cmd.Context())
			if err != nil {
				return err
			}

			switch {
			case result.Migrated:
				log.Printf("Legacy data moved into game %d (%d participants)", result.Game.ID, result.Participants)
			case result.Game != nil:
				log.Printf("Legacy game %d already present", result.Game.ID)
			default:
				log.Printf("No legacy data found")
			}
			return nil
		},
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Load(cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := config.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
