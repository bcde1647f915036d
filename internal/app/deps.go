package app

import (
	"context"
	"time"

	"github.com/vidshelf/backend/internal/auth"
	"github.com/vidshelf/backend/internal/config"
	"github.com/vidshelf/backend/internal/db"
	"github.com/vidshelf/backend/internal/handlers"
	"github.com/vidshelf/backend/internal/middleware"
	"github.com/vidshelf/backend/internal/repositories"
	"github.com/vidshelf/backend/internal/service"
	"github.com/vidshelf/backend/internal/storage"
)

const rateLimitTTL = 10 * time.Minute

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)

	var videos repositories.VideoRepository = repositories.NewPostgresVideoRepository(pool)
	if cfg.VideoCacheSize > 0 {
		videos = repositories.NewCachedVideoRepository(videos, cfg.VideoCacheSize, cfg.VideoCacheTTL)
	}

	return wireServices(ctx, users, videos, pool, cfg)
}

func wireServices(ctx context.Context, users repositories.UserRepository, videos repositories.VideoRepository, database handlers.Pinger, cfg config.Config) (handlers.Dependencies, error) {
	tokens := auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	validator := service.NewValidator()

	deps := handlers.Dependencies{
		Accounts:    service.NewAccountService(users, auth.NewPasswordHasher(cfg.BcryptCost), tokens, validator),
		Favorites:   service.NewFavoritesService(users),
		Videos:      service.NewVideoService(videos, users, validator),
		Auth:        auth.NewGate(tokens),
		Database:    database,
		AuthLimiter: middleware.NewIPRateLimiter(cfg.AuthRateLimit, rateLimitTTL),
		TrustProxy:  cfg.TrustProxy,
	}

	if cfg.ObjectStore.Enabled() {
		images, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, err
		}
		deps.Images = images
	}

	return deps, nil
}
