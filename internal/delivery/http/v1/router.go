package v1

import (
	"net/http"
	"time"

	"go-survey-backend/config"
	"go-survey-backend/internal/delivery/http/middleware"
	"go-survey-backend/internal/delivery/http/response"
	"go-survey-backend/internal/domain"
	"go-survey-backend/internal/usecase"
	"go-survey-backend/pkg/auth"
	"go-survey-backend/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC    domain.AuthUsecase
	ProfileUC domain.ProfileUsecase
	SurveyUC  domain.SurveyUsecase
	HealthUC  usecase.HealthUsecase
	Tokens    *auth.TokenManager
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	// Form validation runs through gin's binding engine
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// Global Middlewares
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{deps.Config.FrontendURL}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	// Home
	r.GET("/", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "Survey backend", gin.H{
			"register": "/register",
			"login":    "/login",
		})
	})

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", deps.HealthUC.Check(c.Request.Context()))
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	loginLimiter := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))

	// Public routes
	public := r.Group("")

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.SessionMiddleware(deps.Tokens, deps.AuthUC))
	{
		NewAuthHandler(public, protected, deps.AuthUC, deps.Tokens, deps.Config, loginLimiter)
		NewDemographicsHandler(protected, deps.ProfileUC)
		NewSurveyHandler(protected, deps.SurveyUC, deps.ProfileUC)
	}

	return r
}
