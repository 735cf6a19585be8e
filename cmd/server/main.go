package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/acousticlab/annometer/internal/cache"
	"github.com/acousticlab/annometer/internal/chunk"
	"github.com/acousticlab/annometer/internal/errors"
	"github.com/acousticlab/annometer/internal/loader"
	"github.com/acousticlab/annometer/internal/monitoring"
	"github.com/acousticlab/annometer/internal/ratelimit"
	"github.com/acousticlab/annometer/internal/roc"
	"github.com/acousticlab/annometer/internal/stats"
	"github.com/acousticlab/annometer/internal/types"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	cacheTTL := getEnvIntOrDefault("CACHE_TTL_MINUTES", 15)
	ipLimit := getEnvIntOrDefault("RATE_LIMIT_PER_MIN", 60)
	workers := getEnvIntOrDefault("EVAL_WORKERS", 1)

	r := gin.New()

	// Initialize monitoring system
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()
	appLogger.SetLevel(parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")))

	evaluator := stats.NewEvaluator(appLogger, workers)

	// Add monitoring middleware first (to capture all requests)
	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))

	// Add error handling middleware
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	// CORS for browser-based annotation tools
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	// IP rate limiting
	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = ipLimit
	limiter := ratelimit.NewRateLimiter(limiterConfig, appMetrics)
	r.Use(limiter.IPRateLimitMiddleware())

	// Response cache for the deterministic evaluation endpoints
	appCache := cache.NewCache(time.Duration(cacheTTL) * time.Minute)
	r.Use(appCache.Middleware(appMetrics, appLogger,
		"/api/v1/chunk",
		"/api/v1/statistics",
		"/api/v1/global",
		"/api/v1/roc",
	))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"metrics":   appMetrics.GetStats(),
		})
	})

	// Metrics endpoint
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	// Cache stats endpoint
	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	// Rate limiter stats endpoint
	r.GET("/ratelimit/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, limiter.GetStats())
	})

	api := r.Group("/api/v1")

	// CSV intake: converts an annotation table into the JSON schema the
	// evaluation endpoints consume.
	api.POST("/load", func(c *gin.Context) {
		set, err := loader.ReadCSV(c.Request.Body)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"annotations": set,
			"rows":        len(set),
		})
	})

	api.POST("/chunk", func(c *gin.Context) {
		var req types.ChunkRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		chunked, err := chunk.Chunk(req.Annotations, req.ChunkLength)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"annotations": chunked,
			"input_rows":  len(req.Annotations),
			"output_rows": len(chunked),
		})
	})

	api.POST("/statistics", func(c *gin.Context) {
		var req types.StatisticsRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		runID := uuid.NewString()
		started := time.Now()
		slog.Info("Starting evaluation", "run_id", runID, "mode", req.Mode, "ip", c.ClientIP())

		var (
			report stats.Report
			err    error
		)
		if req.ByClass {
			report, err = evaluator.ClipStatistics(req.Automated, req.Manual, stats.Mode(req.Mode), req.Threshold)
		} else {
			report, err = evaluator.AnnotationStatistics(req.Automated, req.Manual, stats.Mode(req.Mode), req.Threshold)
		}
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appMetrics.IncrementEvaluations()
		appMetrics.AddClipResults(report.Processed, report.Errored)
		appLogger.EvaluationLogger(req.Mode, report.Processed, report.Errored, time.Since(started))

		c.JSON(http.StatusOK, gin.H{
			"run_id": runID,
			"report": report,
		})
	})

	api.POST("/global", func(c *gin.Context) {
		var req types.StatisticsRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		runID := uuid.NewString()
		started := time.Now()

		report, err := evaluator.ClipStatistics(req.Automated, req.Manual, stats.Mode(req.Mode), req.Threshold)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		var overall types.GlobalMetrics
		if stats.Mode(req.Mode) == stats.ModeGeneral {
			overall = stats.GlobalGeneralStatistics(report.Rows, "all", appLogger)
		} else {
			overall = stats.GlobalStatistics(report.Rows, "all", appLogger)
		}
		perClass := stats.ClassStatistics(report.Rows, stats.Mode(req.Mode), appLogger)

		appMetrics.IncrementEvaluations()
		appMetrics.AddClipResults(report.Processed, report.Errored)
		appLogger.EvaluationLogger(req.Mode, report.Processed, report.Errored, time.Since(started))

		c.JSON(http.StatusOK, gin.H{
			"run_id":          runID,
			"global":          overall,
			"classes":         perClass,
			"clips_processed": report.Processed,
			"clips_errored":   report.Errored,
		})
	})

	api.POST("/roc", func(c *gin.Context) {
		var req types.ROCRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		var (
			pair roc.Pair
			err  error
		)
		if req.Raw {
			pair, err = roc.RawInputs(req.Manual, req.Confidence)
		} else {
			pair, err = roc.Inputs(req.Manual, req.Confidence, req.ChunkLength)
		}
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		points, err := roc.Curve(pair)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"pair":   pair,
			"points": points,
			"auc":    roc.AUC(points),
		})
	})

	api.POST("/catch", func(c *gin.Context) {
		var req types.CatchRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		rows, errored, err := evaluator.DatasetCatch(req.Automated, req.Manual)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"rows":          rows,
			"clips_errored": errored,
		})
	})

	api.POST("/duration", func(c *gin.Context) {
		var req types.DurationRequest
		if err := c.BindJSON(&req); err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		summary, err := stats.DurationStatistics(req.Annotations)
		if err != nil {
			appErr := errors.ToAppError(err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, summary)
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

// Helper function for environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func parseLogLevel(value string) slog.Level {
	switch value {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
