package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string
	AutoMigrate bool

	RedisURL string

	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	IdPJWTSecret string
	IdPIssuer    string
	AdminEmails  []string

	StorageDriver       string
	MinIOEndpoint       string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOBucket         string
	MinIOUseSSL         bool
	S3Region            string
	S3Bucket            string
	S3Endpoint          string
	S3Prefix            string
	UploadURLTTL        time.Duration
	DownloadURLTTL      time.Duration
	MaxUploadSize       int64
	AllowedUploadTypes  []string
	DispatchTimeout     time.Duration
	DashboardCacheTTL   time.Duration
	RateLimitAuth       int
	RateLimitAuthWindow time.Duration

	CORSOrigins string

	ResendAPIKey  string
	FromEmail     string
	AppBaseURL    string
	DefaultLocale string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		AutoMigrate: getBoolEnv("AUTO_MIGRATE", true),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  getDurationEnv("JWT_ACCESS_EXPIRY", 15*time.Minute),
		JWTRefreshExpiry: getDurationEnv("JWT_REFRESH_EXPIRY", 7*24*time.Hour),

		IdPJWTSecret: getEnv("IDP_JWT_SECRET", ""),
		IdPIssuer:    getEnv("IDP_ISSUER", ""),
		AdminEmails:  getListEnv("ADMIN_EMAILS", nil),

		StorageDriver:      getEnv("STORAGE_DRIVER", "minio"),
		MinIOEndpoint:      getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:        getEnv("MINIO_BUCKET", "onboarding-documents"),
		MinIOUseSSL:        getBoolEnv("MINIO_USE_SSL", false),
		S3Region:           getEnv("S3_REGION", "ap-south-1"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		UploadURLTTL:       getDurationEnv("UPLOAD_URL_TTL", 15*time.Minute),
		DownloadURLTTL:     getDurationEnv("DOWNLOAD_URL_TTL", 10*time.Minute),
		MaxUploadSize:      getInt64Env("MAX_UPLOAD_SIZE", 10*1024*1024),
		AllowedUploadTypes: getListEnv("ALLOWED_UPLOAD_TYPES", []string{"application/pdf", "image/png", "image/jpeg", "image/webp"}),

		DispatchTimeout:     getDurationEnv("DISPATCH_TIMEOUT", 30*time.Second),
		DashboardCacheTTL:   getDurationEnv("DASHBOARD_CACHE_TTL", time.Minute),
		RateLimitAuth:       getIntEnv("RATE_LIMIT_AUTH", 20),
		RateLimitAuthWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		FromEmail:     getEnv("FROM_EMAIL", "onboarding@example.com"),
		AppBaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
	}
}

// IsAdminEmail reports whether email is on the auto-promotion list.
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
