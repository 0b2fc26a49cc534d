// Package server exposes an Engine over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/az-ai-labs/ko-lang-nlp/config"
	"github.com/az-ai-labs/ko-lang-nlp/internal/engine"
	"github.com/az-ai-labs/ko-lang-nlp/internal/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// envelopeSlack is the body allowance on top of the input limit for JSON
// keys, quoting and escapes.
const envelopeSlack = 4096

// Server serves the /v1 API of one Engine.
type Server struct {
	eng     *engine.Engine
	cfg     *config.Config
	log     zerolog.Logger
	metrics *metrics.Metrics
	router  *gin.Engine
}

// New builds a Server. Collectors are registered with reg and served on
// /metrics.
func New(eng *engine.Engine, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) *Server {
	s := &Server{
		eng:     eng,
		cfg:     cfg,
		log:     log,
		metrics: metrics.MustNew(reg),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(s.requestID())
	r.Use(s.accessLog())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.Use(s.limitBody())
	v1.POST("/tokenize", s.tokenize)
	v1.POST("/tokenize/topn", s.tokenizeTopN)
	v1.POST("/chunks", s.chunks)
	v1.POST("/detokenize", s.detokenize)
	v1.POST("/sentences", s.sentences)
	v1.POST("/normalize", s.normalize)
	v1.POST("/mask", s.mask)
	v1.POST("/phrases", s.phrases)

	s.router = r
	return s
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", RequestIDHeader}
	c.ExposeHeaders = []string{RequestIDHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Server.Addr until ctx is done, then shuts down
// gracefully within cfg.Server.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", srv.Addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// limitBody caps the bytes read from a request body. Escaped JSON may take
// up to twice the raw input, so the cap is doubled before the slack.
func (s *Server) limitBody() gin.HandlerFunc {
	limit := 2*int64(s.cfg.Tokenizer.MaxInputBytes) + envelopeSlack
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(route, strconv.Itoa(status), elapsed)

		ev := s.log.Info()
		if status >= http.StatusInternalServerError {
			ev = s.log.Error()
		}
		ev.Str("request_id", c.GetString(RequestIDHeader)).
			Str("method", c.Request.Method).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request")
	}
}
