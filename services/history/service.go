package history

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/repository"
)

type service struct {
	repo     repository.AnalysisRepository
	archiver Archiver
	logger   *logrus.Logger
	now      func() time.Time
}

// NewService returns a history service. archiver may be nil.
func NewService(repo repository.AnalysisRepository, archiver Archiver, logger *logrus.Logger) Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &service{
		repo:     repo,
		archiver: archiver,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *service) Save(ctx context.Context, userID string, req models.SaveAnalysisRequest) (*models.Analysis, error) {
	const op = "HistoryService.Save"
	if userID == "" {
		return nil, errors.Unauthorized(op, nil, "Unauthorized")
	}

	data := json.RawMessage(strings.TrimSpace(string(req.Data)))
	if req.Type == "" || req.Title == "" || len(data) == 0 || string(data) == "null" {
		return nil, errors.InvalidInput(op, nil, "Missing required fields")
	}
	if !json.Valid(data) {
		return nil, errors.InvalidInput(op, nil, "Data must be valid JSON")
	}

	analysis := &models.Analysis{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      req.Type,
		Title:     req.Title,
		Thumbnail: req.Thumbnail,
		Data:      data,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, analysis); err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(logrus.Fields{
		"operation":   op,
		"analysis_id": analysis.ID,
		"type":        analysis.Type,
	})
	logger.Info("Analysis saved")

	if s.archiver != nil {
		if err := s.archiver.ArchiveAnalysis(ctx, analysis); err != nil {
			logger.WithError(err).Warn("Failed to archive analysis")
		}
	}

	return analysis, nil
}

func (s *service) List(ctx context.Context, userID, analysisType string) ([]models.Analysis, error) {
	const op = "HistoryService.List"
	if userID == "" {
		return nil, errors.Unauthorized(op, nil, "Unauthorized")
	}
	return s.repo.ListByUser(ctx, userID, analysisType)
}

func (s *service) Get(ctx context.Context, userID, id string) (*models.Analysis, error) {
	const op = "HistoryService.Get"
	if userID == "" {
		return nil, errors.Unauthorized(op, nil, "Unauthorized")
	}

	analysis, err := s.repo.Find(ctx, userID, id)
	if err == nil || !errors.IsNotFound(err) || s.archiver == nil {
		return analysis, err
	}

	logger := s.logger.WithFields(logrus.Fields{
		"operation":   op,
		"analysis_id": id,
	})
	archived, archiveErr := s.archiver.GetAnalysis(ctx, userID, id)
	if archiveErr != nil {
		logger.WithError(archiveErr).Debug("Analysis not in archive")
		return nil, err
	}
	if archived.UserID != userID || archived.ID != id {
		logger.Warn("Archived analysis does not match its key")
		return nil, err
	}

	if saveErr := s.repo.Save(ctx, archived); saveErr != nil {
		logger.WithError(saveErr).Warn("Failed to restore archived analysis")
	} else {
		logger.Info("Analysis restored from archive")
	}
	return archived, nil
}
