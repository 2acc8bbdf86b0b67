package database

import (
	"time"
)

// SessionFileRecord represents a row in the session_files table. Position is
// the archive's Index in the file set.
type SessionFileRecord struct {
	ID          int64
	Position    int64
	Path        string
	Name        string
	VersionID   string
	MarkupCount int64
	LoadedAt    time.Time
}

// NewSessionFile carries the values stored when an archive joins the session.
type NewSessionFile struct {
	Path        string
	Name        string
	VersionID   string
	MarkupCount int
}
