package history

import (
	"context"

	"github.com/nijaru/yt-research/models"
)

type Service interface {
	// Save stores a new analysis for userID. Data is kept verbatim.
	Save(ctx context.Context, userID string, req models.SaveAnalysisRequest) (*models.Analysis, error)
	// List returns userID's analyses newest first, optionally of one type.
	List(ctx context.Context, userID, analysisType string) ([]models.Analysis, error)
	Get(ctx context.Context, userID, id string) (*models.Analysis, error)
}

// Archiver copies saved analyses to long-term storage and reads them back
// when the local database no longer has them.
type Archiver interface {
	ArchiveAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysis(ctx context.Context, userID, id string) (*models.Analysis, error)
}
