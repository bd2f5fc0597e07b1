package repository

import (
	"context"

	"github.com/nijaru/yt-research/models"
)

// AnalysisRepository stores each caller's saved analyses. Data is persisted
// exactly as given and returned unmodified.
type AnalysisRepository interface {
	Save(ctx context.Context, analysis *models.Analysis) error
	Find(ctx context.Context, userID, id string) (*models.Analysis, error)
	// ListByUser returns newest first. An empty analysisType matches all.
	ListByUser(ctx context.Context, userID, analysisType string) ([]models.Analysis, error)
}
