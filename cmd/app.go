package cmd

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"taskboard.com/taskboard/internal/auth"
	config "taskboard.com/taskboard/internal/configs"
	httpapi "taskboard.com/taskboard/internal/http"
	"taskboard.com/taskboard/internal/ratelimit"
	repository "taskboard.com/taskboard/internal/repositories"
	"taskboard.com/taskboard/internal/services"
)

// loadConfig reads .env when present, then the process environment.
func loadConfig() config.Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}
	cfg := config.Load()
	config.SetupLogger(cfg)
	return cfg
}

// stores picks the Redis-backed limiter and revocation store when Redis is
// enabled, in-memory ones otherwise. The returned func releases them.
func stores(cfg config.Config) (ratelimit.Limiter, auth.RevocationStore, func()) {
	if !cfg.RedisEnabled {
		limiter, err := ratelimit.NewMemoryLimiter(cfg.RateLimit, time.Minute)
		if err != nil {
			log.Fatalf("rate limiter: %v", err)
		}
		return limiter, auth.NewMemoryRevocationStore(), func() {}
	}

	client := config.NewRedisClient(cfg.RedisAddr)
	limiter, err := ratelimit.NewRedisLimiter(client, cfg.RedisKeyPrefix, cfg.RateLimit, time.Minute)
	if err != nil {
		log.Fatalf("rate limiter: %v", err)
	}
	slog.Info("using redis for rate limiting and token revocation", "addr", cfg.RedisAddr)
	return limiter, auth.NewRedisRevocationStore(client, cfg.RedisKeyPrefix), client.Close
}

func tokenIssuer(cfg config.Config) *auth.TokenIssuer {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
		slog.Warn("JWT_SECRET is not set; using an ephemeral secret, tokens will not survive a restart")
	}
	issuer, err := auth.NewTokenIssuer(secret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}
	return issuer
}

func buildServices(db *gorm.DB, issuer *auth.TokenIssuer, revocations auth.RevocationStore) httpapi.Services {
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return httpapi.Services{
		Organizations: services.NewOrganizationService(db, orgRepo, userRepo),
		Users:         services.NewUserService(userRepo),
		Projects:      services.NewProjectService(projectRepo),
		Tasks:         services.NewTaskService(taskRepo, projectRepo, userRepo),
		Reports:       services.NewReportService(repository.NewReportRepository(db), projectRepo, orgRepo),
		Auth:          services.NewAuthService(userRepo, issuer, revocations),
	}
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
