package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// AI enhancement service
	AIServiceAPIURL        string
	AIServiceAPIKey        string
	AIServiceWebhookSecret string

	// Supabase storage
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret      string
	AccessTokenTTL time.Duration

	// Uploads
	MaxFileSizeMB int

	// Stuck-job sweep
	SweepInterval       time.Duration
	StuckImageThreshold time.Duration

	// Rate limiting
	InquiriesPerHour int

	// Server
	Port        string
	Environment string
	BaseURL     string
}

func Load() (*Config, error) {
	// .env is optional; deployments usually set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		AIServiceAPIURL:        getEnv("AI_SERVICE_API_URL", ""),
		AIServiceAPIKey:        getEnv("AI_SERVICE_API_KEY", ""),
		AIServiceWebhookSecret: getEnv("AI_SERVICE_WEBHOOK_SECRET", ""),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "property-images"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:      getEnv("JWT_SECRET_KEY", ""),
		AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,

		MaxFileSizeMB: getEnvInt("MAX_FILE_SIZE_MB", 10),

		SweepInterval:       time.Duration(getEnvInt("SWEEP_INTERVAL_MINUTES", 15)) * time.Minute,
		StuckImageThreshold: time.Duration(getEnvInt("STUCK_IMAGE_THRESHOLD_HOURS", 48)) * time.Hour,

		InquiriesPerHour: getEnvInt("RATE_LIMIT_INQUIRIES_PER_HOUR", 5),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AIServiceAPIURL == "" {
		return fmt.Errorf("AI_SERVICE_API_URL is required")
	}
	if c.AIServiceAPIKey == "" {
		return fmt.Errorf("AI_SERVICE_API_KEY is required")
	}
	if c.AIServiceWebhookSecret == "" {
		return fmt.Errorf("AI_SERVICE_WEBHOOK_SECRET is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
