package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/config"
	"github.com/cyberstack/hemu/internal/device"
)

const shutdownTimeout = 5 * time.Second

// Sleeper triggers a system sleep. *power.Trigger satisfies it.
type Sleeper interface {
	Sleep()
}

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// InfoData is returned by GET /api/info: the device fields plus the
// hemu version.
type InfoData struct {
	device.Info
	Version string `json:"version"`
}

type Server struct {
	cfg     *config.Config
	sleeper Sleeper
	version string
	engine  *gin.Engine

	// DeviceInfo is swappable for tests.
	DeviceInfo func() device.Info
}

func New(cfg *config.Config, sleeper Sleeper, version string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:        cfg,
		sleeper:    sleeper,
		version:    version,
		DeviceInfo: device.Current,
	}

	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())

	api := r.Group("/api")
	if cfg.HTTP.User != "" && cfg.HTTP.Password != "" {
		api.Use(gin.BasicAuth(gin.Accounts{cfg.HTTP.User: cfg.HTTP.Password}))
	}
	{
		api.GET("/info", s.handleInfo)
		api.POST("/sleep", s.handleSleep)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, Response{Success: false, Error: "not found"})
	})

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTP.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	golog.Warn("server is shutting down ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    InfoData{Info: s.DeviceInfo(), Version: s.version},
	})
}

// handleSleep flushes the reply before triggering so the caller sees it
// even if the host suspends right away.
func (s *Server) handleSleep(c *gin.Context) {
	golog.Infof("sleep requested by %s", c.ClientIP())

	c.JSON(http.StatusOK, Response{Success: true})
	c.Writer.Flush()

	s.sleeper.Sleep()
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= http.StatusBadRequest {
			golog.Warnf("%3d | %13v | %15s | %-7s %s %s",
				status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Errors.String())
			return
		}
		golog.Debugf("%3d | %13v | %15s | %-7s %s",
			status, latency, c.ClientIP(), c.Request.Method, c.Request.URL.Path)
	}
}
