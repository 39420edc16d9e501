package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-interview-backend/config"
	"go-interview-backend/docs"
	"go-interview-backend/internal/delivery/http/middleware"
	v1 "go-interview-backend/internal/delivery/http/v1"
	"go-interview-backend/internal/domain"
	"go-interview-backend/internal/repository/postgres"
	"go-interview-backend/internal/scoring"
	"go-interview-backend/internal/usecase"
	"go-interview-backend/internal/worker"
	"go-interview-backend/pkg/auth"
	"go-interview-backend/pkg/database"
	"go-interview-backend/pkg/email"
	"go-interview-backend/pkg/logger"
	"go-interview-backend/pkg/redis"
	"go-interview-backend/pkg/security"
	"go-interview-backend/pkg/storage"
	"go-interview-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// @title           Interview Platform API
// @version         1.0
// @description     Interview templates, candidate sessions, response scoring and recruiter analytics.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting interview backend", "port", cfg.Port, "env", cfg.Environment)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	// Let the UI call whichever host served it
	docs.SwaggerInfo.Host = ""

	secLog := security.NewSecurityLogger("interview-api", cfg.Environment)
	defer secLog.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Redis is optional; rate limiting falls back to process memory
	var cache usecase.Pinger
	redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
	if err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
		cache = redis.Pinger{Client: redisClient}
	}

	// Repositories
	tx := postgres.NewTransactor(dbPool)
	userRepo := postgres.NewUserRepository(dbPool)
	templateRepo := postgres.NewTemplateRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	responseRepo := postgres.NewResponseRepository(dbPool)
	analysisRepo := postgres.NewAnalysisRepository(dbPool)
	analyticsRepo := postgres.NewAnalyticsRepository(dbPool)

	// Scoring
	bands := scoring.DefaultBands()
	if cfg.RecommendationBandsFile != "" {
		bands, err = scoring.LoadBands(cfg.RecommendationBandsFile)
		if err != nil {
			logger.Log.Error("Failed to load recommendation bands", "error", err)
			os.Exit(1)
		}
	}
	scorer, closeScorer, err := scoring.NewScorer(ctx, scoring.Options{
		Provider:    cfg.ScorerProvider,
		Timeout:     cfg.ScorerTimeout,
		MaxAttempts: cfg.ScorerMaxAttempts,
		Vertex: scoring.VertexOptions{
			ProjectID: cfg.GoogleCloudProject,
			Location:  cfg.GoogleCloudLocation,
			Model:     cfg.VertexModel,
		},
	})
	if err != nil {
		logger.Log.Error("Failed to set up scorer", "provider", cfg.ScorerProvider, "error", err)
		os.Exit(1)
	}
	defer closeScorer()
	logger.Log.Info("Scorer ready", "provider", cfg.ScorerProvider)

	// Outbound collaborators
	mailer := email.NewInvitationService(cfg)
	if !mailer.IsConfigured() {
		logger.Log.Warn("SMTP not configured - invitations will not be emailed")
	}

	var uploads domain.UploadURLIssuer
	if cfg.S3Bucket != "" {
		vu, err := storage.NewVideoUploads(ctx, storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			TTL:             cfg.UploadURLTTL,
		})
		if err != nil {
			logger.Log.Warn("Video uploads disabled", "error", err)
		} else {
			uploads = vu
		}
	}

	// Use cases
	validate := validation.New()
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Register(engine)
	}

	authUC := usecase.NewAuthUsecase(userRepo)
	templateUC := usecase.NewTemplateUsecase(templateRepo, usecase.NewTemplateValidator(validate))
	interviewUC := usecase.NewInterviewUsecase(usecase.InterviewDeps{
		Tx:            tx,
		InterviewRepo: interviewRepo,
		ResponseRepo:  responseRepo,
		AnalysisRepo:  analysisRepo,
		TemplateRepo:  templateRepo,
		UserRepo:      userRepo,
		Scorer:        scorer,
		Aggregator:    scoring.NewAggregator(bands),
		Notifier:      mailer,
		Uploads:       uploads,
		FrontendURL:   cfg.FrontendURL,
	})
	analyticsUC := usecase.NewAnalyticsUsecase(analyticsRepo, nil)
	webhookUC := usecase.NewWebhookUsecase(authUC, userRepo)
	healthUC := usecase.NewHealthUsecase(dbPool, cache)

	// RS256 tokens are verified against the identity provider's JWKS
	var jwks middleware.KeyFunc
	if cfg.SupabaseUrl != "" {
		jwks = auth.NewProvider(cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json")
	}

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		TemplateUC:  templateUC,
		InterviewUC: interviewUC,
		AnalyticsUC: analyticsUC,
		WebhookUC:   webhookUC,
		HealthUC:    healthUC,
		JWKS:        jwks,
		RateLimiter: middleware.NewRateLimiter(ctx, redisClient, secLog),
		SecLog:      secLog,
		Config:      cfg,
	})

	go worker.NewExpirySweeper(interviewUC, cfg.ExpirySweepInterval).Run(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	// Scoring inside a submission can take a while; give in-flight requests time
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
