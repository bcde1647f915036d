package repositories

import (
	"context"

	"github.com/vidshelf/backend/internal/models"
)

// VideoRepository exposes data access for catalog videos.
type VideoRepository interface {
	Create(ctx context.Context, video models.Video) error
	FindByID(ctx context.Context, id string) (models.Video, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Video, error)
	DeleteByID(ctx context.Context, id string) error
	List(ctx context.Context, skip, limit int) ([]models.Video, int, error)
}
