package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seafood-shop/internal/core/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and the default categories",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, done, err := open()
		if err != nil {
			return err
		}
		defer done()

		if err := database.Migrate(e.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := e.svc.Catalog.EnsureCategories(cmd.Context(), e.cfg.Shop.Categories); err != nil {
			return fmt.Errorf("categories: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(database.Models()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
