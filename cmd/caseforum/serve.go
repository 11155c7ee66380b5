package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/tenderdesk/caseforum/docs"
	"github.com/tenderdesk/caseforum/internal/api"
	"github.com/tenderdesk/caseforum/internal/app"
	"github.com/tenderdesk/caseforum/internal/view"
	"github.com/tenderdesk/caseforum/pkg/logger"
)

var serveMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		be, err := openBackend(ctx, cfg, serveMemory, log)
		if err != nil {
			return err
		}
		defer be.close(context.Background())

		e := api.NewRouter(api.Dependencies{
			Auth:       be.auth,
			Admins:     be.admins,
			Builder:    view.NewBuilder(be.cases, be.comments, be.admins),
			Dispatcher: app.NewDispatcher(be.cases, be.comments, be.admins, logger.Component(log, "dispatcher")),
			Probes:     be.probes,
			Logger:     logger.Component(log, "api"),
			Production: cfg.Production(),
		})

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
			if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "Keep data in process instead of MongoDB")
}
