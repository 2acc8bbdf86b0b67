package sqldb

import (
	"context"
	"database/sql"
)

const insertSessionFile = `INSERT INTO session_files (position, path, name, version_id, markup_count)
VALUES (?, ?, ?, ?, ?)`

type InsertSessionFileParams struct {
	Position    int64
	Path        string
	Name        string
	VersionID   sql.NullString
	MarkupCount int64
}

func (q *Queries) InsertSessionFile(ctx context.Context, arg InsertSessionFileParams) (sql.Result, error) {
	return q.db.ExecContext(ctx, insertSessionFile,
		arg.Position,
		arg.Path,
		arg.Name,
		arg.VersionID,
		arg.MarkupCount,
	)
}

const listSessionFiles = `SELECT id, position, path, name, version_id, markup_count, loaded_at
FROM session_files
ORDER BY position`

func (q *Queries) ListSessionFiles(ctx context.Context) ([]SessionFile, error) {
	rows, err := q.db.QueryContext(ctx, listSessionFiles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SessionFile
	for rows.Next() {
		var i SessionFile
		if err := rows.Scan(
			&i.ID,
			&i.Position,
			&i.Path,
			&i.Name,
			&i.VersionID,
			&i.MarkupCount,
			&i.LoadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findSessionFileByPosition = `SELECT id, position, path, name, version_id, markup_count, loaded_at
FROM session_files
WHERE position = ?`

func (q *Queries) FindSessionFileByPosition(ctx context.Context, position int64) (SessionFile, error) {
	row := q.db.QueryRowContext(ctx, findSessionFileByPosition, position)
	var i SessionFile
	err := row.Scan(
		&i.ID,
		&i.Position,
		&i.Path,
		&i.Name,
		&i.VersionID,
		&i.MarkupCount,
		&i.LoadedAt,
	)
	return i, err
}

const countSessionFiles = `SELECT COUNT(*) FROM session_files`

func (q *Queries) CountSessionFiles(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSessionFiles)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteSessionFileByPosition = `DELETE FROM session_files WHERE position = ?`

func (q *Queries) DeleteSessionFileByPosition(ctx context.Context, position int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSessionFileByPosition, position)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const shiftSessionPositionsAfter = `UPDATE session_files SET position = -(position - 1) WHERE position > ?`

// ShiftSessionPositionsAfter moves rows after position down by one. Positions
// pass through negative values so the UNIQUE constraint holds row by row;
// NormalizeSessionPositions flips them back.
func (q *Queries) ShiftSessionPositionsAfter(ctx context.Context, position int64) error {
	_, err := q.db.ExecContext(ctx, shiftSessionPositionsAfter, position)
	return err
}

const normalizeSessionPositions = `UPDATE session_files SET position = -position WHERE position < 0`

func (q *Queries) NormalizeSessionPositions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, normalizeSessionPositions)
	return err
}

const deleteAllSessionFiles = `DELETE FROM session_files`

func (q *Queries) DeleteAllSessionFiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllSessionFiles)
	return err
}
