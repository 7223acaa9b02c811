package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-survey-backend/config"
	_ "go-survey-backend/docs" // Important for Swagger
	v1 "go-survey-backend/internal/delivery/http/v1"
	"go-survey-backend/internal/repository/postgres"
	"go-survey-backend/internal/usecase"
	"go-survey-backend/pkg/auth"
	"go-survey-backend/pkg/database"
	"go-survey-backend/pkg/logger"
	"go-survey-backend/pkg/openai"
	"go-survey-backend/pkg/redis"
)

// @title           Survey Backend API
// @version         1.0
// @description     User survey backend with AI-generated profile analysis.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name auth_token
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting survey backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, rate limiting falls back to in-memory)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	demoRepo := postgres.NewDemographicsRepository(dbPool)
	surveyRepo := postgres.NewSurveyRepository(dbPool)

	// 6. Setup outbound completion client + analyzer
	completionClient := openai.NewClient(
		cfg.OpenAIBaseURL,
		cfg.OpenAIAPIKey,
		cfg.OpenAIModel,
		cfg.OpenAIMaxTokens,
		cfg.OpenAITemperature,
	)
	analyzer := usecase.NewProfileAnalyzer(demoRepo, surveyRepo, completionClient, logger.Log)

	// 7. Setup UseCases
	authUC := usecase.NewAuthUsecase(userRepo)
	profileUC := usecase.NewProfileUsecase(demoRepo)
	surveyUC := usecase.NewSurveyUsecase(surveyRepo, analyzer)
	healthUC := usecase.NewHealthUsecase()

	// 8. Setup Session Tokens
	tokens := auth.NewTokenManager(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:    authUC,
		ProfileUC: profileUC,
		SurveyUC:  surveyUC,
		HealthUC:  healthUC,
		Tokens:    tokens,
		Config:    cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
