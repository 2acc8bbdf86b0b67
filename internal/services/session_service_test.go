package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/database"
)

func setupServiceDB(t *testing.T) *database.Context {
	t.Helper()
	t.Setenv("BCFVIEW_DIR", t.TempDir())

	ctx, err := database.CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := database.CloseDatabase(ctx); err != nil {
			t.Fatalf("CloseDatabase error: %v", err)
		}
	})
	return ctx
}

func archive(path string, index int) *bcf.Archive {
	return &bcf.Archive{
		Name:    path,
		Path:    "/data/" + path + ".bcf",
		Version: bcf.VersionInfo{VersionID: "2.1"},
		Markups: []*bcf.Markup{{}, {}},
		Index:   index,
	}
}

func TestSessionServiceAppendAndReplace(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(setupServiceDB(t))

	if err := svc.Append(ctx, archive("a", 0)); err != nil {
		t.Fatalf("Append a failed: %v", err)
	}
	if err := svc.Append(ctx, archive("b", 1)); err != nil {
		t.Fatalf("Append b failed: %v", err)
	}

	files, err := svc.Files(ctx)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 2 || files[0].Name != "a" || files[1].Name != "b" {
		t.Fatalf("unexpected files: %#v", files)
	}
	if files[1].VersionID != "2.1" || files[1].MarkupCount != 2 {
		t.Fatalf("unexpected metadata: %#v", files[1])
	}

	if err := svc.Replace(ctx, archive("c", 0)); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	files, err = svc.Files(ctx)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "c" {
		t.Fatalf("unexpected files after Replace: %#v", files)
	}
}

func TestSessionServiceAppendRejectsIndexMismatch(t *testing.T) {
	svc := NewSessionService(setupServiceDB(t))

	if err := svc.Append(context.Background(), archive("a", 3)); err == nil {
		t.Fatalf("expected an error for a mismatched index")
	}
}

func TestSessionServiceAppendRejectsTakenPosition(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(setupServiceDB(t))

	if err := svc.Append(ctx, archive("a", 0)); err != nil {
		t.Fatalf("Append a failed: %v", err)
	}
	if err := svc.Append(ctx, archive("b", 0)); err == nil {
		t.Fatalf("expected an error for a taken position")
	}

	files, err := svc.Files(ctx)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "a" {
		t.Fatalf("rejected Append changed the stored files: %#v", files)
	}
}

func TestSessionServiceRemove(t *testing.T) {
	ctx := context.Background()
	svc := NewSessionService(setupServiceDB(t))

	for i, name := range []string{"a", "b"} {
		if err := svc.Append(ctx, archive(name, i)); err != nil {
			t.Fatalf("Append %s failed: %v", name, err)
		}
	}

	if err := svc.Remove(ctx, 0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, 5); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	files, err := svc.Files(ctx)
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "b" || files[0].Position != 0 {
		t.Fatalf("unexpected files after Remove: %#v", files)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
}
