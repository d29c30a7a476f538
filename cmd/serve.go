package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"keyword-trends/handlers"
	"keyword-trends/scheduler"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the API and run the daily schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		addr := a.cfg.HTTPAddr
		if flagAddr != "" {
			addr = flagAddr
		}

		sched, err := scheduler.New(a.engine, a.store, scheduler.Options{
			Schedule:      a.cfg.Schedule,
			Timezone:      a.cfg.Timezone,
			InboxDir:      a.cfg.InboxDir,
			RetentionDays: a.cfg.RetentionDays,
		}, slog.Default())
		if err != nil {
			return err
		}
		if a.cfg.Schedule != "" {
			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{Addr: addr, Handler: handlers.NewRouter(a.engine)}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting server", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides http_addr)")
}
