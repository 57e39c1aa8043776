package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lumenworks/sectioncms"
)

type cliOptions struct {
	configPath string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:           "sectioncms",
		Short:         "Localized section-based content backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("SECTIONCMS_CONFIG"), "config file (yaml, toml or json); SECTIONCMS_* env vars override it")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newImportCmd(opts))
	root.AddCommand(newEnvCmd())
	return root
}

// openModule loads configuration and builds the module. mutate, when set, adjusts
// the loaded config before validation-dependent wiring happens.
func openModule(ctx context.Context, opts *cliOptions, mutate func(*cms.Config)) (*cms.Module, cms.Config, error) {
	cfg, err := cms.LoadConfig(opts.configPath)
	if err != nil {
		return nil, cms.Config{}, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := cms.New(ctx, cfg)
	if err != nil {
		return nil, cms.Config{}, err
	}
	return module, cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
