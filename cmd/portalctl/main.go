package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"healthcare-portal/cmd/bootstrap"
	"healthcare-portal/config"
	"healthcare-portal/internal/infrastructure/database"
	"healthcare-portal/internal/repository"
	"healthcare-portal/internal/service"
	"healthcare-portal/internal/usecase"
	"healthcare-portal/pkg/jwt"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Administrative tasks for the healthcare portal",
	}
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openMigrator() (*database.Migrator, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := bootstrap.NewLogger(cfg.App.Env)

	migrator, err := database.NewMigrator(database.MigrationURL(cfg.DB), log)
	if err != nil {
		return nil, nil, err
	}
	return migrator, func() {
		if err := migrator.Close(); err != nil {
			log.Warnf("Failed to close migrator: %v", err)
		}
	}, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeFn, err := openMigrator()
			if err != nil {
				return err
			}
			defer closeFn()
			return migrator.Up()
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			migrator, closeFn, err := openMigrator()
			if err != nil {
				return err
			}
			defer closeFn()
			return migrator.Down(steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, closeFn, err := openMigrator()
			if err != nil {
				return err
			}
			defer closeFn()

			v, dirty, err := migrator.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create fake patients and providers for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, _ := cmd.Flags().GetInt("providers")
			patients, _ := cmd.Flags().GetInt("patients")
			seed, _ := cmd.Flags().GetUint64("seed")
			password, _ := cmd.Flags().GetString("password")

			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			log := bootstrap.NewLogger(cfg.App.Env)
			loc, err := cfg.App.Location()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresConnection(cfg.DB, loc, cfg.App.Env)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			// Registration never touches the token store.
			authUsecase := usecase.NewAuthUsecase(
				db, log,
				repository.NewUserRepository(),
				repository.NewProviderProfileRepository(),
				repository.NewPatientProfileRepository(),
				service.NewAuditService(log, repository.NewAuditLogRepository()),
				jwt.NewJWTService(cfg.JWT),
				nil,
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			s := newSeeder(authUsecase, log, seed, password)
			created, err := s.Run(ctx, providers, patients)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d providers and %d patients (password %q)\n", created.Providers, created.Patients, password)
			return nil
		},
	}
	cmd.Flags().Int("providers", 10, "Number of providers to create")
	cmd.Flags().Int("patients", 50, "Number of patients to create")
	cmd.Flags().Uint64("seed", 0, "Random seed, 0 picks one")
	cmd.Flags().String("password", "password123", "Password for every seeded account")
	return cmd
}
