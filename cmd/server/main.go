package main

import (
	"context"
	"log"

	"cineva.app/movieadmin/internal/bootstrap"
	"cineva.app/movieadmin/internal/config"
	"cineva.app/movieadmin/internal/server"
	"cineva.app/movieadmin/pkg/database"
	"cineva.app/movieadmin/pkg/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if err := bootstrap.SeedOperations(db); err != nil {
		log.Fatalf("failed to seed operations: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedSuperAdmin(db, "admin@cineva.app", "admin123"); err != nil {
			log.Fatalf("failed to seed super admin: %v", err)
		}
	}

	// Redis is optional; without it login rate limiting is disabled.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("redis unreachable, continuing without rate limiting: %v", err)
			redisClient = nil
		}
	}

	var fileStorage storage.FileStorage
	switch cfg.StorageDriver {
	case "minio":
		fileStorage, err = storage.NewMinioStorage(context.Background(), storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		fileStorage, err = storage.NewLocalStorage(cfg.StorageDir)
	}
	if err != nil {
		log.Fatalf("failed to initialize file storage: %v", err)
	}

	srv, err := server.NewServer(cfg, db, redisClient, fileStorage)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
