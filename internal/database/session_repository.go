package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SessionRepository stores the ordered file list of the session.
type SessionRepository struct {
	ctx *Context
}

func NewSessionRepository(dbCtx *Context) *SessionRepository {
	return &SessionRepository{ctx: dbCtx}
}

// List returns the session files ordered by position.
func (r *SessionRepository) List(ctx context.Context) ([]SessionFileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("session repository: missing database context")
	}

	rows, err := queries.ListSessionFiles(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]SessionFileRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, SessionFileRecordFromRow(row))
	}
	return result, nil
}

// FindByPosition returns nil when no file sits at position.
func (r *SessionRepository) FindByPosition(ctx context.Context, position int64) (*SessionFileRecord, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return nil, fmt.Errorf("session repository: missing database context")
	}

	row, err := queries.FindSessionFileByPosition(ctx, position)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	record := SessionFileRecordFromRow(row)
	return &record, nil
}

// Append stores f after the last file and returns its position.
func (r *SessionRepository) Append(ctx context.Context, f NewSessionFile) (int64, error) {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return 0, fmt.Errorf("session repository: missing database context")
	}

	count, err := queries.CountSessionFiles(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := queries.InsertSessionFile(ctx, SessionFileInsertParams(count, f)); err != nil {
		return 0, err
	}
	return count, nil
}

// Replace drops every file and stores f at position 0.
func (r *SessionRepository) Replace(ctx context.Context, f NewSessionFile) error {
	if r.ctx == nil || r.ctx.DB == nil {
		return fmt.Errorf("session repository: missing database context")
	}

	tx, err := r.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	queries := queriesFromContext(r.ctx).WithTx(tx)

	if err := queries.DeleteAllSessionFiles(ctx); err != nil {
		return rollback(tx, fmt.Errorf("failed to clear session: %w", err))
	}
	if _, err := queries.InsertSessionFile(ctx, SessionFileInsertParams(0, f)); err != nil {
		return rollback(tx, fmt.Errorf("failed to insert session file: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session replace: %w", err)
	}
	return nil
}

// Remove deletes the file at position and closes the gap. It reports false
// when nothing was stored there.
func (r *SessionRepository) Remove(ctx context.Context, position int64) (bool, error) {
	if r.ctx == nil || r.ctx.DB == nil {
		return false, fmt.Errorf("session repository: missing database context")
	}

	tx, err := r.ctx.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	queries := queriesFromContext(r.ctx).WithTx(tx)

	affected, err := queries.DeleteSessionFileByPosition(ctx, position)
	if err != nil {
		return false, rollback(tx, fmt.Errorf("failed to delete session file: %w", err))
	}
	if affected == 0 {
		_ = tx.Rollback()
		return false, nil
	}
	if err := queries.ShiftSessionPositionsAfter(ctx, position); err != nil {
		return false, rollback(tx, fmt.Errorf("failed to shift positions: %w", err))
	}
	if err := queries.NormalizeSessionPositions(ctx); err != nil {
		return false, rollback(tx, fmt.Errorf("failed to normalize positions: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit session remove: %w", err)
	}
	return true, nil
}

// Clear deletes every session file.
func (r *SessionRepository) Clear(ctx context.Context) error {
	queries := queriesFromContext(r.ctx)
	if queries == nil {
		return fmt.Errorf("session repository: missing database context")
	}
	return queries.DeleteAllSessionFiles(ctx)
}
