package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/adapters/httpapi"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local account management API",
		Args:  cobra.NoArgs,
		RunE: app.action(func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = app.cfg.Serve.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.engine.Load(ctx); err != nil {
				return err
			}

			listener, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving account API on http://%s\n", listener.Addr())
			return serveAPI(ctx, app, listener)
		}),
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from serve.addr, 127.0.0.1:8045)")

	return cmd
}

// serveAPI runs the HTTP API, and the auto refresh loop when configured,
// until ctx is cancelled.
func serveAPI(ctx context.Context, app *app, listener net.Listener) error {
	if app.log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &http.Server{
		Handler:           httpapi.NewRouter(httpapi.NewHandler(app.engine, app.log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve api: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if interval := app.cfg.Engine.AutoRefreshInterval; interval > 0 {
		app.log.WithField("interval", interval.String()).Info("auto refresh enabled")
		group.Go(func() error {
			err := app.engine.AutoRefresh(groupCtx, interval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	return group.Wait()
}
