package v1

import (
	"time"

	"go-interview-backend/config"
	"go-interview-backend/internal/delivery/http/middleware"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/pkg/security"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	TemplateUC  domain.TemplateUsecase
	InterviewUC domain.InterviewUsecase
	AnalyticsUC domain.AnalyticsUsecase
	WebhookUC   domain.WebhookUsecase
	HealthUC    usecase.HealthUsecase
	JWKS        middleware.KeyFunc
	RateLimiter *middleware.RateLimiter
	SecLog      *security.SecurityLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// CORS must be first so preflights never hit auth or rate limiting
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction()))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.Limit(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	}

	v1 := r.Group("/v1")

	v1.GET("/health", healthHandler(deps.HealthUC))

	if cfg.SwaggerEnabled {
		v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	NewWebhookHandler(v1, deps.WebhookUC, cfg.WebhookSigningSecret, cfg.WebhookTolerance, deps.SecLog)

	submitLimit := func(c *gin.Context) { c.Next() }
	if deps.RateLimiter != nil {
		submitLimit = deps.RateLimiter.Limit(middleware.SubmitRateLimitConfig(cfg.RateLimitSubmitThreshold, window))
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(middleware.AuthConfig{
		JWTSecret: cfg.SupabaseJWTSecret,
		JWKS:      deps.JWKS,
		Users:     deps.AuthUC,
		SecLog:    deps.SecLog,
	}))
	{
		NewAuthHandler(protected, deps.AuthUC, deps.SecLog)
		NewTemplateHandler(protected, deps.TemplateUC)
		NewInterviewHandler(protected, deps.InterviewUC, submitLimit)
		NewAnalyticsHandler(protected, deps.AnalyticsUC, deps.InterviewUC, deps.SecLog)
	}

	return r
}
