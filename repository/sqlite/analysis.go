package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/repository"
)

var _ repository.AnalysisRepository = (*Repository)(nil)

type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, analysis *models.Analysis) error {
	const op = "SQLiteRepository.Save"

	err := withRetry(ctx, r.db.config, func() error {
		_, err := r.db.statements.insert.ExecContext(ctx,
			analysis.ID,
			analysis.UserID,
			analysis.Type,
			analysis.Title,
			nullString(analysis.Thumbnail),
			string(analysis.Data),
			analysis.CreatedAt.UTC(),
		)
		return err
	})
	if err != nil {
		return errors.Internal(op, err, "Failed to save analysis")
	}
	return nil
}

func (r *Repository) Find(ctx context.Context, userID, id string) (*models.Analysis, error) {
	const op = "SQLiteRepository.Find"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	analysis, err := scanAnalysis(r.db.statements.get.QueryRowContext(ctx, id, userID))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Analysis not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query analysis")
	}
	return analysis, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID, analysisType string) ([]models.Analysis, error) {
	const op = "SQLiteRepository.ListByUser"

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if analysisType == "" {
		rows, err = r.db.statements.list.QueryContext(ctx, userID)
	} else {
		rows, err = r.db.statements.listByType.QueryContext(ctx, userID, analysisType)
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query analyses")
	}
	defer rows.Close()

	analyses := make([]models.Analysis, 0)
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, errors.Internal(op, err, "Failed to read analysis")
		}
		analyses = append(analyses, *analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "Failed to read analyses")
	}

	return analyses, nil
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.db.config.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.db.config.QueryTimeout)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*models.Analysis, error) {
	var (
		analysis  models.Analysis
		thumbnail sql.NullString
		data      string
	)
	err := row.Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.Type,
		&analysis.Title,
		&thumbnail,
		&data,
		&analysis.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	analysis.Thumbnail = thumbnail.String
	analysis.Data = json.RawMessage(data)
	return &analysis, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
