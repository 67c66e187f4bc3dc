package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"haushaltsbuch/internal/auth"
	"haushaltsbuch/internal/migration"
	"haushaltsbuch/internal/store"
)

func dataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "data",
		Short: "Upgrade the dataset document and seed the default user",
		Long: `Runs the same dataset migration the server runs at startup: upgrades
the schema version, seeds the default user into an empty user list and
attaches lines without an owner.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, manager, err := openManager()
			if err != nil {
				return err
			}
			defer manager.Close()

			if err := manager.RunMigrations(); err != nil {
				return err
			}

			repo := store.NewRepository(manager.Backend())
			result, err := migration.NewRunner(repo, auth.NewPasswordHasher(0), migration.Seed{
				Username:     cfg.SeedUsername,
				Password:     cfg.SeedPassword,
				PasswordHash: cfg.SeedPasswordHash,
			}).Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("dataset migration failed: %w", err)
			}

			cmd.Printf("store=%s users=%d lines=%d upgraded=%v seeded=%q orphans=%d\n",
				repo.Location(), result.Users, result.Lines,
				result.SchemaUpgraded, result.SeededUserID, result.OrphansAttached)
			return nil
		},
	}
}
