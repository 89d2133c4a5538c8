// Package api serves the scheduler over HTTP with gin.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aadipatodia/Scheduler/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Goals         service.GoalService
	Roadmaps      service.RoadmapService
	Tasks         service.TaskService
	Recalibration service.RecalibrationService
	Stats         service.StatsService
}

// Server is the scheduler HTTP API.
type Server struct {
	svc    Services
	log    *zap.Logger
	router *gin.Engine
	now    func() time.Time
}

// NewServer builds the router for svc.
func NewServer(svc Services, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	router := gin.New()
	s := &Server{
		svc:    svc,
		log:    log.Named("api"),
		router: router,
		now:    time.Now,
	}
	router.Use(gin.Recovery(), s.requestLogger())

	api := router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		api.POST("/goals", s.handleCreateGoal)
		api.GET("/goals", s.handleListGoals)
		api.GET("/goals/:id", s.handleGetGoal)
		api.PUT("/goals/:id", s.handleUpdateGoal)
		api.DELETE("/goals/:id", s.handleDeleteGoal)
		api.GET("/goals/:id/progress", s.handleGoalProgress)

		api.POST("/goals/:id/roadmap", s.handleGenerateRoadmap)
		api.GET("/goals/:id/roadmap", s.handleGetRoadmap)
		api.POST("/goals/:id/roadmap/import", s.handleImportRoadmap)
		api.GET("/goals/:id/schedule/preview", s.handlePreviewSchedule)
		api.PUT("/roadmaps/:id/approve", s.handleApproveRoadmap)
		api.POST("/roadmaps/:id/refine", s.handleRefineRoadmap)

		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/today", s.handleToday)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.GET("/tasks/:id/history", s.handleTaskHistory)

		api.POST("/goals/:id/recalibrate", s.handleRecalibrate)
		api.GET("/goals/:id/recalibrations", s.handleListRecalibrations)
		api.GET("/stats/overview", s.handleOverview)
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

// serve owns ln. Requests in flight when ctx ends are drained for up to
// shutdownTimeout; their contexts are not cancelled with ctx.
func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			s.log.Error("http_request", fields...)
			return
		}
		s.log.Debug("http_request", fields...)
	}
}
