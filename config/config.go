package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	LogLevel          string
	Environment       string
	DBUrl             string
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	// SMTP Configuration
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitSubmitThreshold int
	// Scoring Configuration
	ScorerProvider          string // "mock" or "vertexai"
	ScorerTimeout           time.Duration
	ScorerMaxAttempts       int
	GoogleCloudProject      string
	GoogleCloudLocation     string
	VertexModel             string
	RecommendationBandsFile string
	// Video upload storage (S3 compatible)
	S3Provider        string // "aws" or "wasabi"
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string
	UploadURLTTL      time.Duration
	// Lifecycle
	ExpirySweepInterval time.Duration
	// Identity provider webhook
	WebhookSigningSecret string
	WebhookTolerance     time.Duration
	// API docs
	SwaggerEnabled bool
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; in production the environment is authoritative
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "debug"),
		Environment: getEnv("APP_ENV", "development"),
		DBUrl:       getEnv("DATABASE_URL", ""),
		// Trailing slash would produce .co//auth
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", ""),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		// SMTP Configuration
		SMTPHost:      getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "interviews@example.com"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitSubmitThreshold: getEnvInt("RATE_LIMIT_SUBMIT_THRESHOLD", 20),
		// Scoring Configuration
		ScorerProvider:          strings.ToLower(getEnv("SCORER_PROVIDER", "mock")),
		ScorerTimeout:           getEnvDuration("SCORER_TIMEOUT_SECONDS", 20*time.Second),
		ScorerMaxAttempts:       getEnvInt("SCORER_MAX_ATTEMPTS", 3),
		GoogleCloudProject:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleCloudLocation:     getEnv("GOOGLE_CLOUD_LOCATION", "us-central1"),
		VertexModel:             getEnv("VERTEX_MODEL", "gemini-1.5-flash"),
		RecommendationBandsFile: getEnv("RECOMMENDATION_BANDS_FILE", ""),
		// Video upload storage
		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_VIDEO_BUCKET", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		UploadURLTTL:      getEnvDuration("UPLOAD_URL_TTL_SECONDS", time.Hour),
		// Lifecycle
		ExpirySweepInterval: getEnvDuration("EXPIRY_SWEEP_INTERVAL_SECONDS", 5*time.Minute),
		// Identity provider webhook
		WebhookSigningSecret: getEnv("WEBHOOK_SIGNING_SECRET", ""),
		WebhookTolerance:     getEnvDuration("WEBHOOK_TOLERANCE_SECONDS", 5*time.Minute),
		// API docs
		SwaggerEnabled: getEnvBool("SWAGGER_ENABLED", true),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	if cfg.ScorerProvider == "vertexai" && cfg.GoogleCloudProject == "" {
		log.Println("WARNING: SCORER_PROVIDER=vertexai without GOOGLE_CLOUD_PROJECT. Scorer setup will fail.")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in release mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration reads a whole number of seconds
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
