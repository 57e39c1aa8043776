package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenworks/sectioncms/internal/storage"
)

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, _, err := openModule(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer module.Close()

			if err := module.Migrate(); err != nil {
				return err
			}
			version, dirty, err := storage.MigrationVersion(module.Container().DB())
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"version": version, "dirty": dirty})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d (dirty=%t)\n", version, dirty)
			return nil
		},
	}
}
