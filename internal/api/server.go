// Package api implements the HTTP surface of the mail gateway: the send
// endpoint behind the access gate, the health and metadata endpoints, and
// the IP-gated documentation routes.
package api

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mailsystem/mailgate/internal/access"
	"github.com/mailsystem/mailgate/internal/config"
	"github.com/mailsystem/mailgate/internal/provider"
)

// Version is reported by the root and documentation endpoints.
const Version = "1.0.0"

// shutdownTimeout is the maximum time to wait for in-flight requests
// during graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server is the HTTP front-end. Requests flow through the access guard,
// then the request validator, then the configured delivery provider.
type Server struct {
	cfg       *config.Config
	guard     *access.Guard
	provider  provider.Provider
	tlsConfig *tls.Config
	engine    *gin.Engine
}

// New creates a Server wiring the guard and provider into the gin engine.
// A nil tlsConfig serves plain HTTP.
func New(cfg *config.Config, guard *access.Guard, prov provider.Provider, tlsConfig *tls.Config) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		guard:     guard,
		provider:  prov,
		tlsConfig: tlsConfig,
		engine:    engine,
	}
	engine.Use(s.requestLogger())
	s.registerRoutes()

	return s
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe starts the HTTP server and blocks until the context is
// cancelled. On cancellation it stops accepting new connections and waits
// up to 30 seconds for in-flight requests to complete.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:      s.cfg.Server.Listen,
		Handler:   s.engine,
		TLSConfig: s.tlsConfig,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if s.tlsConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("HTTP server listening",
		"addr", s.cfg.Server.Listen,
		"provider", s.provider.Name(),
		"access_mode", s.guard.Mode().String(),
		"tls_enabled", s.tlsConfig != nil,
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs one line per completed request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", access.ClientIP(c.Request),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
