package sqldb

import (
	"database/sql"
	"time"
)

type SessionFile struct {
	ID          int64
	Position    int64
	Path        string
	Name        string
	VersionID   sql.NullString
	MarkupCount int64
	LoadedAt    time.Time
}
