package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/shopfront/config"
	"github.com/ncobase/shopfront/handler"
	"github.com/ncobase/shopfront/messaging/email"
	"github.com/ncobase/shopfront/net/cookie"
	"github.com/ncobase/shopfront/service"
	"github.com/ncobase/shopfront/version"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configFile)
		},
	}
}

func serve(ctx context.Context, configFile string) error {
	a, err := bootstrap(ctx, configFile)
	if err != nil {
		return err
	}
	defer a.cleanup()

	cfg, l := a.cfg, a.logger
	gin.SetMode(cfg.RunMode)

	sender, err := email.NewSender(cfg.Email, l)
	if err != nil {
		return fmt.Errorf("failed to init email sender: %w", err)
	}

	cfg.Watch(func(next *config.Config) {
		if err := l.SetLevelName(next.Logger.Level); err != nil {
			l.Warn(ctx, "ignoring invalid log level", "level", next.Logger.Level)
			return
		}
		l.Info(ctx, "configuration reloaded", "log_level", next.Logger.Level)
	}, func(err error) {
		l.Error(ctx, "failed to reload configuration", "error", err)
	})

	svc := service.New(service.NewDeps(cfg, a.data, sender, l))
	h := handler.New(svc, handler.Options{
		Cookie:          cookie.NewOptions(cfg.Cookie, cfg.Auth.JWT.AccessExpire, cfg.Auth.JWT.RefreshExpire),
		AllowQueryToken: cfg.Auth.AllowQueryToken,
		Health:          a.data,
	}, l)

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           handler.NewEngine(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info(ctx, "server listening", "addr", srv.Addr, "version", version.Version, "mode", cfg.RunMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info(context.Background(), "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
