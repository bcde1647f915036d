package repositories

import (
	"context"

	"github.com/vidshelf/backend/internal/models"
)

// UserRepository defines the data access contract for users.
//
// The Update methods are versioned writes: they succeed only when the stored
// version still equals expectedVersion, bump the version, and return the
// updated record. Otherwise they fail with ErrStale (or ErrNotFound).
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateFavorites(ctx context.Context, id string, expectedVersion int64, favorites []string) (models.User, error)
	UpdateOwnedVideos(ctx context.Context, id string, expectedVersion int64, owned []string) (models.User, error)
}
