// Package server exposes the analyzer and the scan history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cognicore/ingredo/pkg/ingredo"
	"github.com/cognicore/ingredo/pkg/ingredo/diet"
	"github.com/cognicore/ingredo/pkg/ingredo/internalerr"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	maxBodySize            = "1M"
)

// Options configures a Server. Analyzer is required.
type Options struct {
	Analyzer        *ingredo.Analyzer
	Logger          *slog.Logger
	Gatherer        prometheus.Gatherer // nil: no /metrics route
	Preference      diet.Preference     // used when a request names none
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	echo            *echo.Echo
	analyzer        *ingredo.Analyzer
	log             *slog.Logger
	preference      diet.Preference
	shutdownTimeout time.Duration
}

// New builds the echo instance and registers all routes.
func New(opts Options) (*Server, error) {
	if opts.Analyzer == nil {
		return nil, fmt.Errorf("%w: analyzer is required", internalerr.ErrInvalidConfig)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pref := opts.Preference
	if pref == "" {
		pref = diet.Vegan
	}
	shutdown := opts.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = opts.ReadTimeout

	s := &Server{
		echo:            e,
		analyzer:        opts.Analyzer,
		log:             log,
		preference:      pref,
		shutdownTimeout: shutdown,
	}
	e.HTTPErrorHandler = s.handleHTTPError
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(s.loggingMiddleware())

	e.GET("/healthz", s.health)
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api/v1")
	api.POST("/analyze", s.analyze)
	api.GET("/preferences", s.preferences)
	api.GET("/scans", s.listScans)
	api.GET("/scans/:id", s.getScan)

	return s, nil
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(addr)
	}()
	s.log.Info("http server listening", slog.String("addr", addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server", slog.Duration("timeout", s.shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}

func (s *Server) loggingMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			attrs := []slog.Attr{
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", c.Response().Status),
				slog.String("ip", c.RealIP()),
				slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			}
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			s.log.LogAttrs(req.Context(), slog.LevelDebug, "api request", attrs...)
			return err
		}
	}
}
