package gin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginlib "github.com/gin-gonic/gin"

	"github.com/pgd-harmeet/shipstation-triggers/internal/config"
	"github.com/pgd-harmeet/shipstation-triggers/pkg/logger"
)

type Server struct {
	engine *ginlib.Engine
	addr   string
	srv    *http.Server
}

// NewEngine returns an engine with one access-log line per request and
// panic recovery. The logger sits outside Recovery so panics are logged as
// 500s.
func NewEngine(log logger.Logger) *ginlib.Engine {
	r := ginlib.New()
	r.Use(RequestLogger(log))
	r.Use(ginlib.Recovery())
	return r
}

// RequestLogger logs each request after it is served.
func RequestLogger(log logger.Logger) ginlib.HandlerFunc {
	return func(c *ginlib.Context) {
		start := time.Now()
		c.Next()

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Int64("latency_ms", time.Since(start).Milliseconds()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("http request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("http request", fields...)
		default:
			log.Info("http request", fields...)
		}
	}
}

func NewServer(cfg config.ServerConfig, engine *ginlib.Engine) *Server {
	return &Server{
		engine: engine,
		addr:   cfg.Address(),
	}
}

// Run blocks until the server stops. A Shutdown is not reported as an
// error.
func (s *Server) Run() error {
	if s.engine == nil {
		return fmt.Errorf("gin engine is nil")
	}
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
