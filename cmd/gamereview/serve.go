package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vvakame/gamereview/internal/log"
	"github.com/vvakame/gamereview/internal/metrics"
	"github.com/vvakame/gamereview/server"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := log.FromContext(ctx)

			es, err := server.NewExecutableSchema(ctx, &server.Config{
				Dataset: cfg.DatasetSource(),
			})
			if err != nil {
				logger.Error(err, "failed to execute NewExecutableSchema")
				return err
			}

			h, err := server.NewHandler(es, &server.HandlerConfig{
				Logger:        logger,
				Metrics:       metrics.New(),
				Playground:    cfg.Playground,
				Introspection: cfg.Introspection,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, fmt.Sprintf(":%d", cfg.Port), h)
		},
	}

	cmd.Flags().Int("port", 4000, "Port to listen on.")
	cmd.Flags().Bool("playground", true, "Serve the GraphQL playground on /.")
	cmd.Flags().Bool("introspection", true, "Allow introspection queries.")

	return cmd
}

// serve runs the HTTP server until ctx is done and then shuts it down
// gracefully.
func serve(ctx context.Context, addr string, h http.Handler) error {
	logger := log.FromContext(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("listening server", "addr", addr)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
