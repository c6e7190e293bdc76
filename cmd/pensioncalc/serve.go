package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rgehrsitz/pensioncalc/internal/api"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pension calculation over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := settings.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		handler := api.NewHandler(newCalculator(cmd, domain.DefaultRules(), false), logger)
		server := &http.Server{
			Addr: addr,
			Handler: api.NewRouter(handler, api.RouterOptions{
				AllowedOrigins: settings.CORSOrigins,
				RequestLog:     logger,
			}),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Infof("listening on %s", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address; defaults to PENSION_ADDR")
}
