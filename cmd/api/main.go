package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastprodman/novabank/internal/api"
	"github.com/fastprodman/novabank/internal/config"
	"github.com/fastprodman/novabank/internal/infra/logging"
	"github.com/fastprodman/novabank/internal/infra/pgutils"
	"github.com/fastprodman/novabank/internal/notify"
	"github.com/fastprodman/novabank/internal/otp"
	accountssvc "github.com/fastprodman/novabank/internal/services/accounts"
	adminsvc "github.com/fastprodman/novabank/internal/services/admin"
	transfersvc "github.com/fastprodman/novabank/internal/services/transfer"
	"github.com/fastprodman/novabank/pkg/envconf"
	"github.com/fastprodman/novabank/pkg/shutdownqueue"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT"`
	Postgres        config.PostgresConfig
	Admin           config.AdminConfig
	SMTP            notify.SMTPConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	notifier := notify.NewFromConfig(cfg.SMTP)
	otps := otp.NewRegistry(otp.NewMemStore())
	staged := transfersvc.NewStaging()

	accountsSrv := accountssvc.New(dbConns, otps, notifier)
	transfersSrv := transfersvc.New(dbConns, otps, staged, notifier)
	adminSrv := adminsvc.New(dbConns)

	// --- HTTP server ---
	handler := api.NewHandler(accountsSrv, transfersSrv, adminSrv)
	srv := api.NewServer(cfg.Port, handler, cfg.Admin)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
