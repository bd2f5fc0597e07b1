package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nijaru/yt-research/errors"
)

const (
	insertAnalysisQuery = `
        INSERT INTO analyses (
            id, user_id, type, title, thumbnail, data, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
    `

	getAnalysisQuery = `
        SELECT id, user_id, type, title, thumbnail, data, created_at
        FROM analyses WHERE id = ? AND user_id = ?
    `

	listAnalysesQuery = `
        SELECT id, user_id, type, title, thumbnail, data, created_at
        FROM analyses
        WHERE user_id = ?
        ORDER BY created_at DESC, rowid DESC
    `

	listAnalysesByTypeQuery = `
        SELECT id, user_id, type, title, thumbnail, data, created_at
        FROM analyses
        WHERE user_id = ? AND type = ?
        ORDER BY created_at DESC, rowid DESC
    `
)

type PreparedStatements struct {
	insert     *sql.Stmt
	get        *sql.Stmt
	list       *sql.Stmt
	listByType *sql.Stmt
}

func (stmts *PreparedStatements) Prepare(ctx context.Context, db *sql.DB) error {
	const op = "PreparedStatements.Prepare"

	var err error

	if stmts.insert, err = db.PrepareContext(ctx, insertAnalysisQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare insert statement")
	}

	if stmts.get, err = db.PrepareContext(ctx, getAnalysisQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare get statement")
	}

	if stmts.list, err = db.PrepareContext(ctx, listAnalysesQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare list statement")
	}

	if stmts.listByType, err = db.PrepareContext(ctx, listAnalysesByTypeQuery); err != nil {
		return errors.Internal(op, err, "failed to prepare listByType statement")
	}

	return nil
}

func (stmts *PreparedStatements) Close() error {
	var errs []error

	statements := [...]*sql.Stmt{
		stmts.insert,
		stmts.get,
		stmts.list,
		stmts.listByType,
	}

	for _, stmt := range statements {
		if stmt != nil {
			if err := stmt.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to close prepared statements: %v", errs)
	}

	return nil
}
