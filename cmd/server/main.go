package main

import (
	"context"
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

	"github.com/gitfolio/portfolio-analyzer/internal/adapters"
	"github.com/gitfolio/portfolio-analyzer/internal/analysis"
	"github.com/gitfolio/portfolio-analyzer/internal/cache"
	apperrors "github.com/gitfolio/portfolio-analyzer/internal/errors"
	"github.com/gitfolio/portfolio-analyzer/internal/monitoring"
	"github.com/gitfolio/portfolio-analyzer/internal/ratelimit"
	"github.com/gitfolio/portfolio-analyzer/internal/types"
)

const version = "1.0.0"

type config struct {
	Port            string
	GitHubToken     string
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	RateLimitPerMin int
	RateLimitBurst  int
	AllowedOrigins  []string
	LogLevel        slog.Level
}

func loadConfig() config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config{
		Port:            getEnvOrDefault("PORT", "8080"),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		CacheTTL:        getEnvDuration("CACHE_TTL", 15*time.Minute),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:  strings.Split(getEnvOrDefault("ALLOWED_ORIGINS", "*"), ","),
		LogLevel:        slog.LevelInfo,
	}

	if getEnvOrDefault("LOG_LEVEL", "info") == "debug" {
		cfg.LogLevel = slog.LevelDebug
	}
	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

// server bundles the components the handlers need.
type server struct {
	cfg      config
	analyzer *analysis.Analyzer
	cache    *cache.Cache
	limiter  *ratelimit.Limiter
	metrics  *monitoring.Metrics
	logger   *monitoring.Logger
}

func newServer(cfg config, fetcher analysis.Fetcher) *server {
	return &server{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(fetcher),
		cache:    cache.New(cfg.CacheTTL),
		limiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMin,
			Burst:             cfg.RateLimitBurst,
		}),
		metrics: monitoring.NewMetrics(),
		logger:  monitoring.NewLogger(cfg.LogLevel),
	}
}

func (s *server) router() *gin.Engine {
	r := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(s.cfg.AllowedOrigins) == 1 && s.cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = s.cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	r.Use(monitoring.Middleware(s.metrics, s.logger))
	r.Use(apperrors.ErrorHandler())
	r.Use(apperrors.RecoveryHandler())
	r.Use(s.limiter.Middleware(s.metrics))
	r.Use(s.cache.Middleware(s.metrics))

	r.POST("/analyze", s.handleAnalyze)
	r.GET("/analyze/:username", s.handleAnalyzeUser)
	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/cache/stats", s.handleCacheStats)
	r.GET("/ratelimit/stats", s.handleRateLimitStats)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// handleAnalyze scores the profile named in the request body. The input
// may be a bare username or a profile URL.
func (s *server) handleAnalyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.BindJSON(&req); err != nil {
		s.respondError(c, apperrors.NewValidationError("request body must include a non-empty input field"))
		return
	}
	s.runAnalysis(c, req.Input)
}

// handleAnalyzeUser scores the profile named in the URL path.
func (s *server) handleAnalyzeUser(c *gin.Context) {
	s.runAnalysis(c, c.Param("username"))
}

func (s *server) runAnalysis(c *gin.Context, input string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	s.metrics.IncrementGitHubCalls()

	result, err := s.analyzer.Analyze(ctx, strings.TrimSpace(input), time.Now())
	if err != nil {
		s.respondError(c, apperrors.ToAppError(err))
		return
	}

	s.metrics.IncrementAnalyses()
	s.logger.AnalysisLogger(result.Profile.Login, result.OverallScore, result.Tier.Title, time.Since(start))

	c.JSON(http.StatusOK, result)
}

func (s *server) respondError(c *gin.Context, appErr *apperrors.AppError) {
	apperrors.LogError(c, appErr)
	c.JSON(appErr.HTTPStatus, gin.H{
		"error":    appErr.Error(),
		"category": appErr.Category,
	})
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   version,
		"timestamp": time.Now().Format(time.RFC3339),
		"metrics":   s.metrics.GetStats(),
	})
}

func (s *server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.metrics.GetStats())
}

func (s *server) handleCacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.cache.Stats())
}

func (s *server) handleRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.limiter.Stats())
}

func main() {
	cfg := loadConfig()

	logger := monitoring.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger.Logger)

	github := adapters.NewGitHubClient(cfg.GitHubToken)
	defer github.Close()

	s := newServer(cfg, github)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.router(),
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited")
}
