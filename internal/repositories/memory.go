package repositories

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vidshelf/backend/internal/models"
)

// InMemoryUserRepository implements UserRepository for tests and local development.
type InMemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.User
	byEmail map[string]string
}

// NewInMemoryUserRepository returns an empty in-memory user store.
func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create persists a new user record.
func (r *InMemoryUserRepository) Create(_ context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[user.ID]; exists {
		return ErrConflict
	}
	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrConflict
	}

	r.byID[user.ID] = cloneUser(user)
	r.byEmail[email] = user.ID
	return nil
}

// FindByID fetches a user by identifier.
func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(user), nil
}

// FindByEmail fetches a user by email address.
func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email string) (models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

// UpdateFavorites replaces the favorites list if the stored version matches.
func (r *InMemoryUserRepository) UpdateFavorites(_ context.Context, id string, expectedVersion int64, favorites []string) (models.User, error) {
	return r.versionedUpdate(id, expectedVersion, func(u *models.User) {
		u.FavoriteVideos = slices.Clone(favorites)
	})
}

// UpdateOwnedVideos replaces the owned-video list if the stored version matches.
func (r *InMemoryUserRepository) UpdateOwnedVideos(_ context.Context, id string, expectedVersion int64, owned []string) (models.User, error) {
	return r.versionedUpdate(id, expectedVersion, func(u *models.User) {
		u.OwnedVideos = slices.Clone(owned)
	})
}

func (r *InMemoryUserRepository) versionedUpdate(id string, expectedVersion int64, apply func(*models.User)) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	if user.Version != expectedVersion {
		return models.User{}, ErrStale
	}

	apply(&user)
	user.Version++
	user.UpdatedAt = time.Now().UTC()
	r.byID[id] = user
	return cloneUser(user), nil
}

func cloneUser(user models.User) models.User {
	user.FavoriteVideos = nonNil(slices.Clone(user.FavoriteVideos))
	user.OwnedVideos = nonNil(slices.Clone(user.OwnedVideos))
	return user
}

// InMemoryVideoRepository implements VideoRepository for tests and local development.
type InMemoryVideoRepository struct {
	mu     sync.RWMutex
	videos map[string]models.Video
}

// NewInMemoryVideoRepository returns an empty in-memory video store.
func NewInMemoryVideoRepository() *InMemoryVideoRepository {
	return &InMemoryVideoRepository{videos: make(map[string]models.Video)}
}

// Create stores a new video record.
func (r *InMemoryVideoRepository) Create(_ context.Context, video models.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.videos[video.ID]; exists {
		return ErrConflict
	}
	r.videos[video.ID] = video
	return nil
}

// FindByID fetches a single video.
func (r *InMemoryVideoRepository) FindByID(_ context.Context, id string) (models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	video, ok := r.videos[id]
	if !ok {
		return models.Video{}, ErrNotFound
	}
	return video, nil
}

// FindByIDs fetches every existing video among ids, newest first.
func (r *InMemoryVideoRepository) FindByIDs(_ context.Context, ids []string) ([]models.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	videos := []models.Video{}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if video, ok := r.videos[id]; ok {
			videos = append(videos, video)
		}
	}
	sortNewestFirst(videos)
	return videos, nil
}

// DeleteByID removes a video record.
func (r *InMemoryVideoRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.videos[id]; !ok {
		return ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

// List returns one page of videos, newest first, along with the total count.
func (r *InMemoryVideoRepository) List(_ context.Context, skip, limit int) ([]models.Video, int, error) {
	r.mu.RLock()
	all := make([]models.Video, 0, len(r.videos))
	for _, video := range r.videos {
		all = append(all, video)
	}
	r.mu.RUnlock()

	sortNewestFirst(all)

	total := len(all)
	if skip < 0 {
		return nil, 0, fmt.Errorf("list videos: negative offset %d", skip)
	}
	if skip >= total {
		return []models.Video{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return all[skip:end], total, nil
}

func sortNewestFirst(videos []models.Video) {
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].CreatedAt.Equal(videos[j].CreatedAt) {
			return videos[i].ID < videos[j].ID
		}
		return videos[i].CreatedAt.After(videos[j].CreatedAt)
	})
}

var _ UserRepository = (*InMemoryUserRepository)(nil)
var _ VideoRepository = (*InMemoryVideoRepository)(nil)
