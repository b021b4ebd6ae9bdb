package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr string

	// TokenSigningKey signs the inner JWT; TokenEncryptionKey is the
	// 32-byte key for the outer AES-256-GCM envelope.
	TokenSigningKey    string
	TokenEncryptionKey string

	// StorageDriver is "local" or "minio".
	StorageDriver string
	StorageDir    string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RateLimitLogin time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: os.Getenv("DB_PASS"),
		DBName: getEnv("DB_NAME", "movie_admin"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		TokenSigningKey:    getEnv("TOKEN_SIGNING_KEY", "change-me"),
		TokenEncryptionKey: getEnv("TOKEN_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef"),

		StorageDriver: getEnv("STORAGE_DRIVER", "local"),
		StorageDir:    getEnv("STORAGE_DIR", "uploads"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "movie-admin"),
		MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
	}

	if len(cfg.TokenEncryptionKey) != 32 {
		return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(cfg.TokenEncryptionKey))
	}

	var err error
	cfg.RateLimitLogin, err = time.ParseDuration(getEnv("RATE_LIMIT_LOGIN", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
