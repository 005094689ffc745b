package main

import (
	"fmt"
	"os"

	"mediapost/config"
	"mediapost/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the mediapost postgres schema",
	}

	cmd.AddCommand(
		newUpCmd(cfg),
		newDownCmd(cfg),
		newStatusCmd(cfg),
		newVersionCmd(cfg),
		newResetCmd(cfg),
		newSeedCmd(cfg),
	)
	return cmd
}

func withDB(cfg *config.Config, fn func(db *gorm.DB) error) error {
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

func newUpCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(db *gorm.DB) error {
				if err := database.MigrateUp(db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newDownCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, database.MigrateDown)
		},
	}
}

func newStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the applied state of each migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, database.MigrateStatus)
		},
	}
}

func newVersionCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(db *gorm.DB) error {
				v, err := database.MigrationVersion(db)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
				return nil
			})
		},
	}
}

func newResetCmd(cfg *config.Config) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Roll back every migration (drops all data)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("reset drops all tables; rerun with --force")
			}
			return withDB(cfg, database.MigrateReset)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "confirm dropping all tables")
	return cmd
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	seed := database.DefaultSeedConfig()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo user",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed.BcryptCost = cfg.BcryptCost
			return withDB(cfg, func(db *gorm.DB) error {
				u, err := database.SeedUser(cmd.Context(), db, seed)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded user %s <%s>\n", u.Username, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seed.Username, "username", seed.Username, "demo username")
	cmd.Flags().StringVar(&seed.Email, "email", seed.Email, "demo email")
	cmd.Flags().StringVar(&seed.Password, "password", seed.Password, "demo password")
	return cmd
}
