package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()

	cfg := DefaultDBConfig()
	cfg.RetryDelay = time.Millisecond

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db)
}

func TestRepository_SaveAndFind(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	saved := &models.Analysis{
		ID:        "a1",
		UserID:    "user-1",
		Type:      "video",
		Title:     "Never Gonna Give You Up",
		Thumbnail: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		Data:      json.RawMessage(`{"title":"Never Gonna Give You Up","views":1}`),
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, saved))

	got, err := repo.Find(ctx, "user-1", "a1")
	require.NoError(t, err)
	assert.Equal(t, saved.Title, got.Title)
	assert.Equal(t, saved.Thumbnail, got.Thumbnail)
	assert.JSONEq(t, string(saved.Data), string(got.Data))
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))

	_, err = repo.Find(ctx, "user-2", "a1")
	assert.True(t, errors.IsNotFound(err))
}

func TestRepository_ListByUser(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []models.Analysis{
		{ID: "a1", UserID: "u", Type: "video", Title: "old", CreatedAt: base},
		{ID: "a2", UserID: "u", Type: "channel_list", Title: "mid", CreatedAt: base.Add(time.Hour)},
		{ID: "a3", UserID: "u", Type: "video", Title: "new", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b1", UserID: "other", Type: "video", Title: "theirs", CreatedAt: base},
	}
	for i := range fixtures {
		fixtures[i].Data = json.RawMessage(`[]`)
		require.NoError(t, repo.Save(ctx, &fixtures[i]))
	}

	all, err := repo.ListByUser(ctx, "u", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, titles(all))
	assert.Empty(t, all[0].Thumbnail)

	videos, err := repo.ListByUser(ctx, "u", "video")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, titles(videos))

	none, err := repo.ListByUser(ctx, "nobody", "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestRepository_SaveDuplicateID(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	a := &models.Analysis{ID: "dup", UserID: "u", Type: "video", Title: "x", Data: json.RawMessage(`{}`), CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, a))

	err := repo.Save(ctx, a)
	require.Error(t, err)
	assert.Equal(t, 500, errors.Code(err))
}

func titles(analyses []models.Analysis) []string {
	out := make([]string, len(analyses))
	for i, a := range analyses {
		out[i] = a.Title
	}
	return out
}
