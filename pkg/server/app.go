package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"FinAdvisor/pkg/config"
	xhttp "FinAdvisor/pkg/http"
	applogger "FinAdvisor/pkg/logger"
)

// App encapsulates the application lifecycle: HTTP server plus the
// resources that need closing on shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	closers    []io.Closer
}

// New creates the application. Closers are released in reverse order on
// shutdown.
func New(cfg *config.Config, log *applogger.Logger, handler xhttp.Handler, closers ...io.Closer) *App {
	return &App{cfg: cfg, log: log, handler: handler, closers: closers}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops the server and closes resources.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn("resource close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
