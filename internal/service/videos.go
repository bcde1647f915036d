package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/metrics"
	"github.com/vidshelf/backend/internal/models"
	"github.com/vidshelf/backend/internal/repositories"
)

// PageSize is the number of videos returned per catalog page.
const PageSize = 12

// CreateVideoInput is the payload accepted when publishing a video.
type CreateVideoInput struct {
	Title       string `json:"title" validate:"min=3"`
	ImageURL    string `json:"imageUrl" validate:"min=3"`
	Description string `json:"description" validate:"min=3"`
}

// VideoPage is one page of the catalog.
type VideoPage struct {
	Videos     []models.Video
	TotalItems int
}

// CreatorSummary identifies the publisher of a newly created video.
type CreatorSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// VideoService implements catalog reads and owner-gated mutations.
type VideoService struct {
	videos      repositories.VideoRepository
	users       repositories.UserRepository
	validator   *Validator
	now         func() time.Time
	maxAttempts int
}

// NewVideoService constructs a VideoService.
func NewVideoService(videos repositories.VideoRepository, users repositories.UserRepository, validator *Validator) *VideoService {
	if validator == nil {
		validator = NewValidator()
	}
	return &VideoService{
		videos:      videos,
		users:       users,
		validator:   validator,
		now:         time.Now,
		maxAttempts: defaultMaxAttempts,
	}
}

// List returns the requested catalog page, newest first. Pages below 1 are
// treated as the first page. Pages past the addressable range come back empty
// with the real total.
func (s *VideoService) List(ctx context.Context, page int) (VideoPage, error) {
	if page < 1 {
		page = 1
	}

	skip, limit := (page-1)*PageSize, PageSize
	if page-1 > math.MaxInt/PageSize {
		skip, limit = math.MaxInt, 0
	}

	videos, total, err := s.videos.List(ctx, skip, limit)
	if err != nil {
		return VideoPage{}, fmt.Errorf("list videos: %w", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return VideoPage{Videos: videos, TotalItems: total}, nil
}

// Get returns a single video.
func (s *VideoService) Get(ctx context.Context, id string) (models.Video, error) {
	video, err := s.videos.FindByID(ctx, models.CanonicalID(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Video{}, &NotFoundError{Entity: EntityVideo}
		}
		return models.Video{}, fmt.Errorf("find video: %w", err)
	}
	return video, nil
}

// ListByUser returns the videos published by the given user.
func (s *VideoService) ListByUser(ctx context.Context, userID string) ([]models.Video, error) {
	user, err := s.users.FindByID(ctx, models.CanonicalID(userID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &NotFoundError{Entity: EntityUser}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	videos, err := s.videos.FindByIDs(ctx, user.OwnedVideos)
	if err != nil {
		return nil, fmt.Errorf("find owned videos: %w", err)
	}
	if videos == nil {
		videos = []models.Video{}
	}
	return videos, nil
}

// Create publishes a video on behalf of creatorID and records it in the
// creator's owned videos.
func (s *VideoService) Create(ctx context.Context, creatorID string, input CreateVideoInput) (models.Video, CreatorSummary, error) {
	ctx, span := logging.StartSpan(ctx, "videos.create")
	defer span.End()

	input.Title = strings.TrimSpace(input.Title)
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	input.Description = strings.TrimSpace(input.Description)
	if err := s.validator.Struct(input); err != nil {
		return models.Video{}, CreatorSummary{}, err
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Video{}, CreatorSummary{}, &NotFoundError{Entity: EntityUser}
		}
		return models.Video{}, CreatorSummary{}, fmt.Errorf("find creator: %w", err)
	}

	video := models.Video{
		ID:          uuid.NewString(),
		Title:       input.Title,
		ImageURL:    input.ImageURL,
		Description: input.Description,
		Creator:     creator.ID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.videos.Create(ctx, video); err != nil {
		return models.Video{}, CreatorSummary{}, fmt.Errorf("create video: %w", err)
	}

	summary := CreatorSummary{ID: creator.ID, Name: creator.Name}

	err = retryOnStale(ctx, "record owned video", s.maxAttempts, func() error {
		current, err := s.users.FindByID(ctx, creator.ID)
		if err != nil {
			return err
		}
		owned := append(removeID(current.OwnedVideos, video.ID), video.ID)
		_, err = s.users.UpdateOwnedVideos(ctx, current.ID, current.Version, owned)
		return err
	})
	if err != nil {
		metrics.PartialFailures.WithLabelValues("create_video").Inc()
		logging.FromContext(ctx).Error("video created but not recorded on creator",
			slog.String("video_id", video.ID),
			slog.String("creator_id", creator.ID),
			slog.Any("error", err),
		)
		return video, summary, &PartialFailureError{Op: "create video", Err: err}
	}

	logging.FromContext(ctx).Info("video created",
		slog.String("video_id", video.ID),
		slog.String("creator_id", creator.ID),
	)
	return video, summary, nil
}

// AuthorizeDelete reports whether requesterID may delete video.
func (s *VideoService) AuthorizeDelete(video models.Video, requesterID string) error {
	if !models.SameID(video.Creator, requesterID) {
		return ErrForbidden
	}
	return nil
}

// Delete removes a video owned by requesterID and drops it from the creator's
// owned videos. Other users' favorites keep the dangling id.
func (s *VideoService) Delete(ctx context.Context, videoID, requesterID string) error {
	ctx, span := logging.StartSpan(ctx, "videos.delete")
	defer span.End()

	video, err := s.Get(ctx, videoID)
	if err != nil {
		return err
	}

	if err := s.AuthorizeDelete(video, requesterID); err != nil {
		logging.FromContext(ctx).Warn("video delete refused",
			slog.String("video_id", video.ID),
			slog.String("requester_id", requesterID),
		)
		return err
	}

	if err := s.videos.DeleteByID(ctx, video.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &NotFoundError{Entity: EntityVideo}
		}
		return fmt.Errorf("delete video: %w", err)
	}

	err = retryOnStale(ctx, "release owned video", s.maxAttempts, func() error {
		creator, err := s.users.FindByID(ctx, video.Creator)
		if err != nil {
			return err
		}
		_, err = s.users.UpdateOwnedVideos(ctx, creator.ID, creator.Version, removeID(creator.OwnedVideos, video.ID))
		return err
	})
	if err != nil {
		metrics.PartialFailures.WithLabelValues("delete_video").Inc()
		logging.FromContext(ctx).Error("video deleted but still listed on creator",
			slog.String("video_id", video.ID),
			slog.String("creator_id", video.Creator),
			slog.Any("error", err),
		)
		return &PartialFailureError{Op: "delete video", Err: err}
	}

	logging.FromContext(ctx).Info("video deleted", slog.String("video_id", video.ID))
	return nil
}
