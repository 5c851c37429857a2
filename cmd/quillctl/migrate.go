package main

import (
	"fmt"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/quillpress/quillpress-server/internal/di/providers"
)

func newMigrateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long:  `Opens the configured database and applies the schema. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			injector := g.container()
			defer injector.Shutdown()

			st, err := do.Invoke[*providers.StoreHandle](injector)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			if err := st.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}
