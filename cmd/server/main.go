package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/pensionworks/realism/internal/cache"
	"github.com/pensionworks/realism/internal/dataset"
	apperrors "github.com/pensionworks/realism/internal/errors"
	"github.com/pensionworks/realism/internal/history"
	"github.com/pensionworks/realism/internal/monitoring"
	"github.com/pensionworks/realism/internal/realism"
	"github.com/pensionworks/realism/internal/security"
	"github.com/pensionworks/realism/internal/types"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	benchmarksFile := os.Getenv("BENCHMARKS_FILE")
	port := getEnvOrDefault("PORT", "8080")

	// Reference configuration: built-in UK benchmarks, optionally overridden
	// from a YAML file. A structurally invalid table is a deployment defect
	// and aborts startup.
	bench := realism.DefaultBenchmarks()
	if benchmarksFile != "" {
		loaded, err := realism.LoadBenchmarks(benchmarksFile)
		if err != nil {
			appErr := apperrors.NewConfigurationError("benchmarks file rejected", err)
			slog.Error("Failed to load benchmarks file", "path", benchmarksFile, "error", appErr)
			os.Exit(1)
		}
		bench = loaded
		slog.Info("Loaded benchmark overrides", "path", benchmarksFile)
	}

	engine, err := realism.NewEngine(bench)
	if err != nil {
		appErr := apperrors.NewConfigurationError("scoring engine rejected the reference configuration", err)
		slog.Error("Failed to initialize scoring engine", "error", appErr)
		os.Exit(1)
	}

	store, err := history.Open(dataDir)
	if err != nil {
		slog.Error("Failed to initialize assessment history",
			"error", apperrors.WrapError(err, "opening history in %s", dataDir))
		os.Exit(1)
	}
	defer apperrors.SafeClose(store, "assessment history")

	r := setupRouter(engine, store)

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

// setupRouter wires the full middleware chain and API surface around one
// scoring engine and one history store.
func setupRouter(engine *realism.Engine, store *history.Store) *gin.Engine {
	r := gin.New()

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())

	securityConfig := security.DefaultSecurityConfig()
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		securityConfig.AllowedOrigins = strings.Split(origins, ",")
	}
	securityMiddleware := security.NewSecurityMiddleware(securityConfig)

	r.Use(securityMiddleware.SecurityHeaders)
	r.Use(securityMiddleware.RequestTimeout)
	r.Use(securityMiddleware.ValidateContentType)
	r.Use(securityMiddleware.LimitBodySize)
	r.Use(securityMiddleware.RateLimitByIP)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     securityConfig.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Assessments are pure functions of the payload, so identical datasets
	// are answered from cache (15 minutes TTL).
	appCache := cache.NewCache(15 * time.Minute)
	r.Use(appCache.Middleware(appMetrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
			"metrics":   appMetrics.GetStats(),
		})
	})

	api := r.Group("/api/v1")

	api.POST("/assess", func(c *gin.Context) {
		var req types.AssessRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			appErr := apperrors.NewValidationError("invalid JSON body", err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		runAssessment(c, engine, store, appMetrics, appLogger, dataset.FromRows(req.Records), req.Source)
	})

	api.POST("/assess/csv", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			appErr := apperrors.NewValidationError("failed to read request body", err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		table, err := dataset.ParseCSV(body)
		if err != nil {
			appErr := apperrors.NewValidationError("invalid CSV payload", err.Error())
			apperrors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		runAssessment(c, engine, store, appMetrics, appLogger, table, c.Query("source"))
	})

	api.GET("/benchmarks", func(c *gin.Context) {
		c.JSON(http.StatusOK, engine.Benchmarks())
	})

	api.GET("/assessments", func(c *gin.Context) {
		limit := 50
		if limitStr := c.Query("limit"); limitStr != "" {
			if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
				limit = l
			}
		}

		assessments, err := store.List(limit)
		if err != nil {
			appLogger.APIErrorLogger(err, "GET", "/api/v1/assessments", c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve assessments"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"assessments": assessments})
	})

	api.GET("/assessments/:id", func(c *gin.Context) {
		a, err := store.Get(c.Param("id"))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				appErr := apperrors.NewNotFoundError("assessment")
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			appLogger.APIErrorLogger(err, "GET", "/api/v1/assessments/"+c.Param("id"), c.ClientIP(), http.StatusInternalServerError)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve assessment"})
			return
		}

		c.JSON(http.StatusOK, a)
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	return r
}

// runAssessment scores a parsed table, records metrics, persists the run and
// writes the report.
func runAssessment(c *gin.Context, engine *realism.Engine, store *history.Store, metrics *monitoring.Metrics, logger *monitoring.Logger, table *dataset.Table, source string) {
	start := time.Now()

	result := engine.Assess(table)

	metrics.RecordAssessment(result.RowCount)
	scored := 0
	for _, cr := range result.Categories {
		switch cr.Status {
		case realism.CategoryScored:
			scored++
		case realism.CategorySkipped:
			metrics.RecordCategorySkip(cr.Category)
		}
	}

	logger.AssessmentLogger(result.RowCount, result.Score, string(result.Grade), scored, time.Since(start), c.GetBool("cache_hit"))

	// History persistence is best-effort; a storage failure must not turn a
	// successful scoring run into an error response.
	id, err := store.Save(source, result)
	if err != nil {
		slog.Error("Failed to save assessment to history", "error", err)
	}

	response := gin.H{
		"result": result,
	}
	if id != "" {
		response["assessment_id"] = id
	}

	c.JSON(http.StatusOK, response)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
