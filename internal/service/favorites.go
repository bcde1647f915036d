package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/metrics"
	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/repositories"
)

// FavoritesService flips membership of videos in a user's favorites list.
type FavoritesService struct {
	users       repositories.UserRepository
	maxAttempts int
}

// NewFavoritesService constructs a FavoritesService.
func NewFavoritesService(users repositories.UserRepository) *FavoritesService {
	return &FavoritesService{users: users, maxAttempts: defaultMaxAttempts}
}

// Toggle adds videoID to the user's favorites when absent and removes it when
// present, returning the resulting list. The video id is not checked against
// the catalog.
func (s *FavoritesService) Toggle(ctx context.Context, userID, videoID string) ([]string, error) {
	ctx, span := logging.StartSpan(ctx, "favorites.toggle")
	defer span.End()

	videoID = models.CanonicalID(videoID)
	if videoID == "" {
		return nil, invalidField("videoId", "This field is required")
	}

	var (
		favorites []string
		action    string
	)
	err := retryOnStale(ctx, "toggle favorite", s.maxAttempts, func() error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return &NotFoundError{Entity: EntityUser}
			}
			return fmt.Errorf("load user: %w", err)
		}

		next, added := toggleID(user.FavoriteVideos, videoID)
		updated, err := s.users.UpdateFavorites(ctx, user.ID, user.Version, next)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return &NotFoundError{Entity: EntityUser}
			}
			return err
		}

		favorites = updated.FavoriteVideos
		action = "removed"
		if added {
			action = "added"
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.FavoriteToggles.WithLabelValues(action).Inc()
	logging.FromContext(ctx).Info("favorite toggled",
		slog.String("user_id", userID),
		slog.String("video_id", videoID),
		slog.String("action", action),
	)

	if favorites == nil {
		favorites = []string{}
	}
	return favorites, nil
}

// toggleID returns a copy of ids with id removed when it is present, or
// appended once when it is not. Comparison uses canonical ids.
func toggleID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids)+1)
	removed := false
	for _, existing := range ids {
		if !removed && models.SameID(existing, id) {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if removed {
		return out, false
	}
	return append(out, id), true
}

// removeID returns a copy of ids without any entry equal to id.
func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if models.SameID(existing, id) {
			continue
		}
		out = append(out, existing)
	}
	return out
}
