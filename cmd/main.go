package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sitegen_ai_server/config"
	"sitegen_ai_server/internal/ai"
	"sitegen_ai_server/internal/api"
	"sitegen_ai_server/internal/catalog"
	"sitegen_ai_server/internal/logger"
	"sitegen_ai_server/internal/metrics"
	"sitegen_ai_server/internal/pipeline"
	"sitegen_ai_server/internal/store"
)

func main() {
	// --- Load .env file ---
	// Must happen BEFORE viper loads config.
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		} else {
			log.Println("Info: .env file not found, relying on system environment variables.")
		}
	} else {
		log.Println("Info: Loaded environment variables from .env file.")
	}

	// --- Configuration Loading ---
	cfg, err := config.LoadConfig(".") // Load from config.yaml or env vars
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	appLog, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.AppEnv != "production"})
	if err != nil {
		log.Fatalf("Cannot create logger: %v", err)
	}
	defer func() { _ = appLog.Sync() }()

	// --- Dependency Initialization ---
	industries, err := catalog.Default()
	if err != nil {
		appLog.Error("Cannot load industry catalog", logger.Error(err))
		os.Exit(1)
	}

	aiGenerator := ai.NewGenerator(ai.Options{
		APIKey:            cfg.OpenAIKey,
		BaseURL:           cfg.OpenAIBaseURL,
		Model:             cfg.CompletionModel,
		ImageModel:        cfg.ImageModel,
		ImageSize:         cfg.ImageSize,
		ImageQuality:      cfg.ImageQuality,
		RequestsPerSecond: cfg.AIRequestsPerSecond,
		Burst:             cfg.AIBurst,
	})
	if !aiGenerator.Enabled() {
		appLog.Warn("No OpenAI credentials configured, every AI stage will use its fallback")
	}

	var sites store.SiteStore
	if cfg.RedisAddress != "" {
		client, err := store.NewRedisClient(store.RedisConfig{
			Address:  cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			appLog.Error("Cannot connect to Redis", logger.String("address", cfg.RedisAddress), logger.Error(err))
			os.Exit(1)
		}
		defer client.Close()
		sites = store.NewRedisStore(client, cfg.SiteTTL)
		appLog.Info("Storing websites in Redis", logger.String("address", cfg.RedisAddress), logger.Duration("ttl", cfg.SiteTTL))
	} else {
		sites = store.NewMemoryStore(cfg.SiteTTL)
		appLog.Info("Storing websites in memory", logger.Duration("ttl", cfg.SiteTTL))
	}

	recorder := metrics.NewRecorder()

	orchestrator, err := pipeline.New(pipeline.Options{
		Completer:            aiGenerator,
		Images:               aiGenerator,
		Catalog:              industries,
		Logger:               appLog,
		Observer:             recorder,
		StageTimeout:         cfg.StageTimeout,
		RequestTimeout:       cfg.RequestTimeout,
		SectionConcurrency:   cfg.SectionConcurrency,
		AILayoutPlanning:     cfg.AILayoutPlanning,
		AIStyleHarmonization: cfg.AIStyleHarmonization,
		RenderImages:         cfg.RenderImages && aiGenerator.Enabled(),
		ImageSize:            cfg.ImageSize,
		ImageQuality:         cfg.ImageQuality,
	})
	if err != nil {
		appLog.Error("Cannot create pipeline", logger.Error(err))
		os.Exit(1)
	}

	apiHandler := api.NewAPIHandler(orchestrator, sites, recorder, appLog)

	// --- Start API Server ---
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()        // Use gin.New() for more control over middleware
	router.Use(gin.Logger())   // Request logging middleware
	router.Use(gin.Recovery()) // Panic recovery middleware

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowOrigins) == 0 || (len(cfg.CORSAllowOrigins) == 1 && cfg.CORSAllowOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	api.RegisterRoutes(router, apiHandler, recorder.Handler())

	server := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
		// A generation may legitimately take up to REQUEST_TIMEOUT.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.Info("Starting API server", logger.String("address", cfg.ServerAddress))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("API server listen error", logger.Error(err))
			os.Exit(1)
		}
		appLog.Info("API server has stopped listening")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLog.Info("Shutting down server", logger.String("signal", sig.String()))

	shutdownCtx, serverCancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer serverCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("API server forced shutdown", logger.Error(err))
	} else {
		appLog.Info("API server gracefully stopped")
	}
}
