package database

import (
	sqldb "github.com/bcfview/bcfview/internal/database/sqlc"
)

// SessionFileRecordFromRow converts a session_files row to a record.
func SessionFileRecordFromRow(row sqldb.SessionFile) SessionFileRecord {
	return SessionFileRecord{
		ID:          row.ID,
		Position:    row.Position,
		Path:        row.Path,
		Name:        row.Name,
		VersionID:   optionalString(row.VersionID),
		MarkupCount: row.MarkupCount,
		LoadedAt:    row.LoadedAt,
	}
}

// SessionFileInsertParams builds insert parameters for position.
func SessionFileInsertParams(position int64, f NewSessionFile) sqldb.InsertSessionFileParams {
	return sqldb.InsertSessionFileParams{
		Position:    position,
		Path:        f.Path,
		Name:        f.Name,
		VersionID:   nullString(f.VersionID),
		MarkupCount: int64(f.MarkupCount),
	}
}
