package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/logger"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	analyses []models.Analysis
	saveErr  error
}

func (m *memoryRepo) Save(ctx context.Context, a *models.Analysis) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.analyses = append(m.analyses, *a)
	return nil
}

func (m *memoryRepo) Find(ctx context.Context, userID, id string) (*models.Analysis, error) {
	for _, a := range m.analyses {
		if a.UserID == userID && a.ID == id {
			return &a, nil
		}
	}
	return nil, errors.NotFound("memoryRepo.Find", nil, "Analysis not found")
}

func (m *memoryRepo) ListByUser(ctx context.Context, userID, analysisType string) ([]models.Analysis, error) {
	out := []models.Analysis{}
	for _, a := range m.analyses {
		if a.UserID == userID && (analysisType == "" || a.Type == analysisType) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type recordingArchiver struct {
	archived []string
	err      error
	stored   map[string]*models.Analysis
	gets     int
}

func (r *recordingArchiver) ArchiveAnalysis(ctx context.Context, a *models.Analysis) error {
	r.archived = append(r.archived, a.UserID+"/"+a.ID)
	return r.err
}

func (r *recordingArchiver) GetAnalysis(ctx context.Context, userID, id string) (*models.Analysis, error) {
	r.gets++
	if a, ok := r.stored[userID+"/"+id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("no such key %s/%s", userID, id)
}

func newTestService(repo repository.AnalysisRepository, archiver Archiver) *service {
	svc := NewService(repo, archiver, logger.Discard()).(*service)
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSave(t *testing.T) {
	repo := &memoryRepo{}
	archiver := &recordingArchiver{}
	svc := newTestService(repo, archiver)

	req := models.SaveAnalysisRequest{
		Type:  "video",
		Title: "Rick",
		Data:  json.RawMessage(` {"title":"Rick","views":3} `),
	}
	saved, err := svc.Save(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, `{"title":"Rick","views":3}`, string(saved.Data))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), saved.CreatedAt)
	assert.Len(t, repo.analyses, 1)
	assert.Equal(t, []string{"user-1/" + saved.ID}, archiver.archived)
}

func TestSave_ArchiveFailureIsNotSurfaced(t *testing.T) {
	svc := newTestService(&memoryRepo{}, &recordingArchiver{err: fmt.Errorf("bucket gone")})

	_, err := svc.Save(context.Background(), "u", models.SaveAnalysisRequest{
		Type: "video", Title: "t", Data: json.RawMessage(`{}`),
	})
	assert.NoError(t, err)
}

func TestSave_Validation(t *testing.T) {
	svc := newTestService(&memoryRepo{}, nil)

	tests := []struct {
		name    string
		userID  string
		req     models.SaveAnalysisRequest
		code    int
		message string
	}{
		{
			name:    "missing user",
			req:     models.SaveAnalysisRequest{Type: "video", Title: "t", Data: json.RawMessage(`{}`)},
			code:    http.StatusUnauthorized,
			message: "Unauthorized",
		},
		{
			name:    "missing title",
			userID:  "u",
			req:     models.SaveAnalysisRequest{Type: "video", Data: json.RawMessage(`{}`)},
			code:    http.StatusBadRequest,
			message: "Missing required fields",
		},
		{
			name:    "null data",
			userID:  "u",
			req:     models.SaveAnalysisRequest{Type: "video", Title: "t", Data: json.RawMessage(`null`)},
			code:    http.StatusBadRequest,
			message: "Missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), tt.userID, tt.req)
			require.Error(t, err)
			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestSave_RepositoryError(t *testing.T) {
	repoErr := errors.Internal("memoryRepo.Save", fmt.Errorf("disk full"), "Failed to save analysis")
	archiver := &recordingArchiver{}
	svc := newTestService(&memoryRepo{saveErr: repoErr}, archiver)

	_, err := svc.Save(context.Background(), "u", models.SaveAnalysisRequest{
		Type: "video", Title: "t", Data: json.RawMessage(`{}`),
	})
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
	assert.Empty(t, archiver.archived)
}

func TestListAndGet(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo, nil)
	ctx := context.Background()

	a, err := svc.Save(ctx, "u", models.SaveAnalysisRequest{Type: "video", Title: "one", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	_, err = svc.Save(ctx, "u", models.SaveAnalysisRequest{Type: "channel_list", Title: "two", Data: json.RawMessage(`[]`)})
	require.NoError(t, err)

	videos, err := svc.List(ctx, "u", "video")
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "one", videos[0].Title)

	got, err := svc.Get(ctx, "u", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = svc.Get(ctx, "someone-else", a.ID)
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.List(ctx, "", "")
	assert.Equal(t, http.StatusUnauthorized, errors.Code(err))
}

func TestGet_FallsBackToArchive(t *testing.T) {
	archived := &models.Analysis{
		ID:        "old-1",
		UserID:    "u",
		Type:      "video",
		Title:     "archived",
		Data:      json.RawMessage(`{"views":1}`),
		CreatedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	repo := &memoryRepo{}
	archiver := &recordingArchiver{stored: map[string]*models.Analysis{
		"u/old-1":    archived,
		"u/mismatch": archived,
	}}
	svc := newTestService(repo, archiver)
	ctx := context.Background()

	got, err := svc.Get(ctx, "u", "old-1")
	require.NoError(t, err)
	assert.Equal(t, "archived", got.Title)
	require.Len(t, repo.analyses, 1, "archived copy is restored locally")

	// Served from the repository now.
	_, err = svc.Get(ctx, "u", "old-1")
	require.NoError(t, err)
	assert.Equal(t, 1, archiver.gets)

	_, err = svc.Get(ctx, "u", "missing")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.Get(ctx, "u", "mismatch")
	assert.True(t, errors.IsNotFound(err))

	_, err = svc.Get(ctx, "", "old-1")
	assert.Equal(t, http.StatusUnauthorized, errors.Code(err))
}

func TestGet_RepositoryErrorSkipsArchive(t *testing.T) {
	archiver := &recordingArchiver{}
	svc := newTestService(&failingFindRepo{}, archiver)

	_, err := svc.Get(context.Background(), "u", "x")
	assert.Equal(t, http.StatusInternalServerError, errors.Code(err))
	assert.Equal(t, 0, archiver.gets)
}

type failingFindRepo struct{ memoryRepo }

func (f *failingFindRepo) Find(ctx context.Context, userID, id string) (*models.Analysis, error) {
	return nil, errors.Internal("failingFindRepo.Find", fmt.Errorf("disk I/O error"), "Database error")
}
