package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenworks/sectioncms/internal/importer"
)

func newImportCmd(opts *cliOptions) *cobra.Command {
	var (
		dryRun  bool
		pattern string
		locales []string
	)
	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import markdown pages with frontmatter into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, cfg, err := openModule(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer module.Close()

			if len(locales) == 0 {
				locales = cfg.Locales
			}
			loader := importer.NewLoader(os.DirFS(args[0]), importer.LoaderConfig{
				DefaultLocale: cfg.DefaultLocale,
				Locales:       locales,
				Pattern:       pattern,
			})
			docs, err := loader.LoadDirectory(cmd.Context(), ".")
			if err != nil {
				return err
			}
			result, importErr := module.Importer().ImportDocuments(cmd.Context(), docs, importer.Options{DryRun: dryRun})

			if opts.jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				return importErr
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d document(s): %d page(s) created, %d updated, %d section(s) created, %d updated\n",
				len(docs), len(result.PagesCreated), len(result.PagesUpdated), result.SectionsCreated, result.SectionsUpdated)
			for _, failure := range result.Failures {
				fmt.Fprintf(out, "  failed %s: %s\n", failure.Key, failure.Error)
			}
			if dryRun {
				fmt.Fprintln(out, "dry run: nothing was written")
			}
			return importErr
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().StringVar(&pattern, "pattern", "*.md", "file name glob")
	cmd.Flags().StringSliceVar(&locales, "locales", nil, "known locales, defaults to the configured list")
	return cmd
}
