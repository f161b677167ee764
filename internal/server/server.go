// Package server wires storage, services and the HTTP surface together and runs them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/ticket-registration-service/internal/admin"
	"github.com/maxviazov/ticket-registration-service/internal/config"
	"github.com/maxviazov/ticket-registration-service/internal/metrics"
	"github.com/maxviazov/ticket-registration-service/internal/repository"
	"github.com/maxviazov/ticket-registration-service/internal/router"
	"github.com/maxviazov/ticket-registration-service/internal/service"
)

type deps struct {
	info        admin.Info
	logger      zerolog.Logger
	tickets     service.TicketService
	pinger      repository.Pinger
	metrics     *metrics.Metrics
	appendSlash bool
	corsOrigins []string
}

// Server owns the HTTP listener and everything behind it.
type Server struct {
	cfg     *config.Config
	logger  zerolog.Logger
	storage *Storage
	metrics *metrics.Metrics
	engine  *gin.Engine
	table   *router.Table
}

// New opens storage and builds the full handler tree. Call Close when done.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	logger = logger.With().Str("module", "server").Logger()

	storage, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	m := metrics.New()
	tickets := service.NewTicketService(storage.Tickets, m, logger)

	engine, table, err := buildHandler(deps{
		info:        admin.Info{Name: cfg.App.Name, Version: cfg.App.Version, Env: cfg.App.Env},
		logger:      logger,
		tickets:     tickets,
		pinger:      storage.Pinger,
		metrics:     m,
		appendSlash: cfg.Router.AppendSlash,
		corsOrigins: cfg.CORS.AllowedOrigins,
	})
	if err != nil {
		storage.Close()
		return nil, err
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		storage: storage,
		metrics: m,
		engine:  engine,
		table:   table,
	}, nil
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Routes returns the top-level route table.
func (s *Server) Routes() *router.Table { return s.table }

// Metrics exposes the collectors fed by the server.
func (s *Server) Metrics() *metrics.Metrics { return s.metrics }

// Close releases storage.
func (s *Server) Close() { s.storage.Close() }

// Run listens on cfg.App.Addr() and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.App.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.App.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down gracefully
// within cfg.App.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.engine,
		ReadTimeout:  s.cfg.App.ReadTimeout,
		WriteTimeout: s.cfg.App.WriteTimeout,
		IdleTimeout:  s.cfg.App.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Int("routes", s.table.Len()).
			Msg("http server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info().Dur("timeout", s.cfg.App.ShutdownTimeout).Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	<-errCh
	s.logger.Info().Msg("http server stopped")
	return nil
}
