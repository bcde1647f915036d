package handlers

import (
	"context"
	"io"

	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/service"
)

// AccountService registers users and exchanges credentials for tokens.
type AccountService interface {
	SignUp(ctx context.Context, input service.SignUpInput) (models.User, error)
	Login(ctx context.Context, email, password string) (service.LoginResult, error)
}

// FavoritesService toggles videos in a user's favorites.
type FavoritesService interface {
	Toggle(ctx context.Context, userID, videoID string) ([]string, error)
}

// VideoService captures the catalog operations exposed over HTTP.
type VideoService interface {
	List(ctx context.Context, page int) (service.VideoPage, error)
	Get(ctx context.Context, id string) (models.Video, error)
	ListByUser(ctx context.Context, userID string) ([]models.Video, error)
	Create(ctx context.Context, creatorID string, input service.CreateVideoInput) (models.Video, service.CreatorSummary, error)
	Delete(ctx context.Context, videoID, requesterID string) error
}

// Authenticator resolves an Authorization header to a user id.
type Authenticator interface {
	Authenticate(rawHeader string) (string, error)
}

// ImageStore persists uploaded images and returns their public location.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
}

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
