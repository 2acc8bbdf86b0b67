package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcfview/bcfview/internal/config"
)

func setupTestDB(t *testing.T) *Context {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("BCFVIEW_DIR", tmp)

	ctx, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}

	t.Cleanup(func() {
		if err := CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})

	return ctx
}

func TestDatabaseCreationAndMigration(t *testing.T) {
	ctx := setupTestDB(t)

	dbPath := filepath.Join(config.GetDataDir(), "session.db")
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file to exist at %s: %v", dbPath, err)
	}

	var version int
	if err := ctx.DB.QueryRow("SELECT version FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Fatalf("expected schema version 1, got %d", version)
	}

	if !tableExists(t, ctx.DB, "session_files") {
		t.Fatalf("expected table session_files to exist")
	}
}

func TestCreateDatabaseIsReentrant(t *testing.T) {
	first := setupTestDB(t)
	insertSessionFile(t, first.DB, 0, "/tmp/a.bcf", "a")

	second, err := CreateDatabase("")
	if err != nil {
		t.Fatalf("second CreateDatabase returned error: %v", err)
	}
	defer func() {
		_ = CloseDatabase(second)
	}()

	assertCount(t, second.DB, "session_files", 1)
}

func TestClearDatabaseRemovesAllRows(t *testing.T) {
	ctx := setupTestDB(t)

	insertSessionFile(t, ctx.DB, 0, "/tmp/a.bcf", "a")
	insertSessionFile(t, ctx.DB, 1, "/tmp/b.bcf", "b")
	assertCount(t, ctx.DB, "session_files", 2)

	if err := ClearDatabase(ctx); err != nil {
		t.Fatalf("ClearDatabase returned error: %v", err)
	}

	assertCount(t, ctx.DB, "session_files", 0)
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("tableExists query failed for %s: %v", table, err)
	}
	return true
}

func insertSessionFile(t *testing.T, db *sql.DB, position int, path, name string) {
	t.Helper()
	if _, err := db.Exec(`INSERT INTO session_files(position, path, name) VALUES(?, ?, ?)`, position, path, name); err != nil {
		t.Fatalf("insertSessionFile failed: %v", err)
	}
}

func assertCount(t *testing.T, db *sql.DB, table string, expected int) {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("count query failed for %s: %v", table, err)
	}
	if count != expected {
		t.Fatalf("expected %s to have %d rows, got %d", table, expected, count)
	}
}
