package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidshelf/backend/internal/models"
)

func TestInMemoryUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	user := models.User{ID: "user-1", Email: "ann@test.com", Name: "Ann"}
	require.NoError(t, repo.Create(ctx, user))
	assert.ErrorIs(t, repo.Create(ctx, models.User{ID: "user-2", Email: "ANN@test.com"}), ErrConflict)

	byEmail, err := repo.FindByEmail(ctx, "ann@test.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", byEmail.ID)
	assert.NotNil(t, byEmail.FavoriteVideos)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryUserRepository_VersionedUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, models.User{ID: "user-1", Email: "ann@test.com"}))

	updated, err := repo.UpdateFavorites(ctx, "user-1", 0, []string{"v1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.Version)
	assert.Equal(t, []string{"v1"}, updated.FavoriteVideos)

	_, err = repo.UpdateFavorites(ctx, "user-1", 0, []string{"v2"})
	assert.ErrorIs(t, err, ErrStale)

	updated, err = repo.UpdateOwnedVideos(ctx, "user-1", 1, []string{"v9"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, []string{"v1"}, updated.FavoriteVideos)

	_, err = repo.UpdateOwnedVideos(ctx, "missing", 0, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()
	require.NoError(t, repo.Create(ctx, models.User{ID: "user-1", Email: "a@test.com", FavoriteVideos: []string{"v1"}}))

	user, err := repo.FindByID(ctx, "user-1")
	require.NoError(t, err)
	user.FavoriteVideos[0] = "tampered"

	again, err := repo.FindByID(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1"}, again.FavoriteVideos)
}

func TestInMemoryVideoRepository_ListPagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryVideoRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, repo.Create(ctx, models.Video{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	page, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, "e", page[0].ID)
	assert.Equal(t, "d", page[1].ID)

	page, _, err = repo.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)

	page, total, err = repo.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, page)

	_, _, err = repo.List(ctx, -12, 12)
	assert.Error(t, err)
}

func TestInMemoryVideoRepository_FindByIDsAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryVideoRepository()
	require.NoError(t, repo.Create(ctx, models.Video{ID: "a"}))
	require.NoError(t, repo.Create(ctx, models.Video{ID: "b"}))
	assert.ErrorIs(t, repo.Create(ctx, models.Video{ID: "a"}), ErrConflict)

	videos, err := repo.FindByIDs(ctx, []string{"a", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	require.NoError(t, repo.DeleteByID(ctx, "a"))
	assert.ErrorIs(t, repo.DeleteByID(ctx, "a"), ErrNotFound)

	_, err = repo.FindByID(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
