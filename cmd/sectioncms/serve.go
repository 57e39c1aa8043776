package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lumenworks/sectioncms"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public and admin HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, cfg, err := openModule(cmd.Context(), opts, func(cfg *cms.Config) {
				if addr != "" {
					cfg.HTTP.Addr = addr
				}
			})
			if err != nil {
				return err
			}
			defer module.Close()
			return serve(cmd.Context(), module, cfg.HTTP)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.addr")
	return cmd
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func serve(ctx context.Context, module *cms.Module, cfg cms.HTTPConfig) error {
	logger := module.Logger("cms.server")
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server.listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		logger.Info("server.shutdown", "timeout", cfg.ShutdownTimeout.String())
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
