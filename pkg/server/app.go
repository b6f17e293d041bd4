package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CoinPulse/pkg/config"
	xhttp "CoinPulse/pkg/http"
	applogger "CoinPulse/pkg/logger"
)

// Closer releases one infrastructure dependency on shutdown.
type Closer struct {
	Name  string
	Close func() error
}

// App encapsulates one service binary's lifecycle: the HTTP server, its
// logger, and the infrastructure clients released on shutdown. The gateway
// and the three computation units all run through the same App; they differ
// only in the handler and closers the injector wires in.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	closers    []Closer
}

// New creates a new App instance around an already-wired route handler.
func New(cfg *config.Config, logger *applogger.Logger, handler xhttp.Handler) *App {
	return &App{cfg: cfg, logger: logger, handler: handler}
}

// AddCloser registers a dependency to release on shutdown. Closers run in
// reverse registration order.
func (a *App) AddCloser(name string, fn func() error) {
	a.closers = append(a.closers, Closer{Name: name, Close: fn})
}

// Run starts the HTTP server and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
	)

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown drains the HTTP server, then releases closers in reverse order.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.Close(); err != nil {
			a.logger.Warn(c.Name+" close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
