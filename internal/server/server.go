// Package server runs the embedded HTTP server: the Telegram webhook
// endpoint, a health check and the Prometheus metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edgard/odinbot/internal/config"
	"github.com/edgard/odinbot/internal/logger"
	"github.com/edgard/odinbot/internal/telemetry"
)

// Pinger is implemented by dependencies the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options selects the optional routes.
type Options struct {
	// WebhookPath and Webhook mount the Telegram update endpoint when both are set.
	WebhookPath string
	Webhook     http.Handler

	// Health is probed by /healthz when set.
	Health Pinger
}

// Server wraps an http.Server serving a gin engine.
type Server struct {
	srv             *http.Server
	engine          *gin.Engine
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// New builds the server for cfg. It does not start listening.
func New(cfg config.HTTPConfig, log *slog.Logger, opts Options) *Server {
	if log == nil {
		log = logger.Discard()
	}
	log = log.With("component", "http_server")

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(log), gin.Recovery())

	engine.GET("/healthz", healthHandler(opts.Health))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if opts.Webhook != nil && opts.WebhookPath != "" {
		engine.POST(opts.WebhookPath, gin.WrapH(opts.Webhook))
	}

	return &Server{
		srv: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:          engine,
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          log,
	}
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func healthHandler(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// requestLogger logs each request at debug level and counts it.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		telemetry.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()

		log.LogAttrs(c.Request.Context(), levelFor(status), "HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelDebug
	}
}
