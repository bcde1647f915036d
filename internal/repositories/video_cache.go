package repositories

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vidshelf/backend/internal/models"
)

// CachedVideoRepository serves FindByID from an expiring LRU. Videos never
// change after creation, so only deletes invalidate entries; deletes made by
// other processes stay visible here for at most ttl.
type CachedVideoRepository struct {
	VideoRepository
	lru *expirable.LRU[string, models.Video]
}

// NewCachedVideoRepository wraps next with a cache of up to size entries.
func NewCachedVideoRepository(next VideoRepository, size int, ttl time.Duration) *CachedVideoRepository {
	return &CachedVideoRepository{
		VideoRepository: next,
		lru:             expirable.NewLRU[string, models.Video](size, nil, ttl),
	}
}

// FindByID returns the cached video or loads and caches it.
func (r *CachedVideoRepository) FindByID(ctx context.Context, id string) (models.Video, error) {
	if video, ok := r.lru.Get(id); ok {
		return video, nil
	}

	video, err := r.VideoRepository.FindByID(ctx, id)
	if err != nil {
		return models.Video{}, err
	}
	r.lru.Add(id, video)
	return video, nil
}

// DeleteByID deletes the video and evicts it.
func (r *CachedVideoRepository) DeleteByID(ctx context.Context, id string) error {
	r.lru.Remove(id)
	err := r.VideoRepository.DeleteByID(ctx, id)
	r.lru.Remove(id)
	return err
}
