package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/analyzer"
	"github.com/seo-optimizer/contentscore/config"
	"github.com/seo-optimizer/contentscore/logging"
	"github.com/seo-optimizer/contentscore/metrics"
	"github.com/seo-optimizer/contentscore/middleware"
)

const (
	maintenanceInterval = 10 * time.Minute
	clientIdleTimeout   = time.Hour
	shutdownTimeout     = 10 * time.Second
	maxBodyBytes        = 2 << 20
	statsRetainMonths   = 12
)

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := newServer(cfg, logger)
			defer srv.Close()
			return srv.Run(ctx)
		},
	}
}

// server wires the engine to the HTTP API
type server struct {
	cfg      *config.Config
	logger   *zap.Logger
	analyzer *analyzer.Analyzer
	stats    *logging.Statistics
	metrics  *metrics.Recorder
	limiter  *middleware.RateLimiter
}

func newServer(cfg *config.Config, logger *zap.Logger) *server {
	gin.SetMode(cfg.Server.GinMode)

	s := &server{
		cfg:      cfg,
		logger:   logger,
		analyzer: analyzer.New(analyzerOptions(cfg, logger)),
		stats:    logging.NewStatistics(cfg.Server.DevMode),
		metrics:  metrics.NewRecorder(),
		limiter:  middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
	}
	s.metrics.WatchCache(s.analyzer)
	return s
}

func (s *server) routes() *gin.Engine {
	r := gin.New()

	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(s.logger))
	r.Use(s.limiter.RateLimit())
	r.Use(middleware.CORS())
	r.Use(middleware.Stats(s.stats))

	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/preview", s.handlePreview)
		api.GET("/statistics", s.handleStatistics)
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              ":" + s.cfg.Server.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.maintain(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", "http://localhost:"+s.cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// maintain periodically forgets idle rate limit buckets and stale visitors
func (s *server) maintain(ctx context.Context) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clients := s.limiter.Cleanup(clientIdleTimeout)
			visitors := s.stats.PruneVisitors()
			s.analyzer.GetStats().Cleanup(statsRetainMonths)
			s.logger.Debug("maintenance done",
				zap.Int("clients_removed", clients),
				zap.Int("visitors_removed", visitors))
		}
	}
}

func (s *server) Close() {
	s.analyzer.Shutdown()
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// bindInput decodes an analysis request and normalizes its keywords
func (s *server) bindInput(c *gin.Context, endpoint string) (analyzer.Input, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var in analyzer.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		s.metrics.ObserveFailure(endpoint, "bad_request")
		s.logger.Debug("invalid analysis request", zap.String("endpoint", endpoint), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid analysis request: " + err.Error(),
		})
		return analyzer.Input{}, false
	}

	in.SecondaryKeywords = analyzer.NormalizeKeywords(in.SecondaryKeywords)
	c.Set(middleware.KeywordKey, in.PrimaryKeyword)
	return in, true
}

func (s *server) handleAnalyze(c *gin.Context) {
	in, ok := s.bindInput(c, "analyze")
	if !ok {
		return
	}

	start := time.Now()
	report := s.analyzer.Analyze(in)
	s.metrics.ObserveAnalysis("analyze", report.Score, time.Since(start))

	c.JSON(http.StatusOK, report)
}

func (s *server) handlePreview(c *gin.Context) {
	in, ok := s.bindInput(c, "preview")
	if !ok {
		return
	}

	start := time.Now()
	report := s.analyzer.Analyze(in)
	s.metrics.ObserveAnalysis("preview", report.Score, time.Since(start))

	c.JSON(http.StatusOK, report.Preview)
}

func (s *server) handleStatistics(c *gin.Context) {
	result := s.stats.GetStatistics()
	result["engine"] = s.analyzer.GetStats().GetCurrentStats()
	if s.cfg.Server.DevMode {
		result["cache"] = s.analyzer.GetCacheStats()
	}
	c.JSON(http.StatusOK, result)
}
