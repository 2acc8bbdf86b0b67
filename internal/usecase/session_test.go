package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcfview/bcfview/internal/bcftest"
	"github.com/bcfview/bcfview/internal/database"
	"github.com/bcfview/bcfview/internal/loader"
	"github.com/bcfview/bcfview/internal/logging"
)

func setupSession(t *testing.T) (*database.Context, func() *Session) {
	t.Helper()
	t.Setenv("BCFVIEW_DIR", t.TempDir())

	dbCtx, err := database.CreateDatabase("")
	if err != nil {
		t.Fatalf("CreateDatabase returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = database.CloseDatabase(dbCtx)
	})

	return dbCtx, func() *Session {
		return NewSession(dbCtx, loader.New(), logging.Nop())
	}
}

func names(s *Session) []string {
	var out []string
	for _, a := range s.Set().Files() {
		out = append(out, a.Name)
	}
	return out
}

func TestSessionPersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	b := bcftest.Scenario(t, dir, "B.bcfzip", false)
	_, newSession := setupSession(t)

	first := newSession()
	if _, err := first.Load(ctx, a); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	second := newSession()
	if err := second.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := second.Append(ctx, b); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	third := newSession()
	if err := third.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	got := names(third)
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("unexpected session files: %v", got)
	}
	for i, f := range third.Set().Files() {
		if f.Index != i {
			t.Fatalf("file %s has index %d, want %d", f.Name, f.Index, i)
		}
	}

	if _, err := third.Load(ctx, b); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	fourth := newSession()
	if err := fourth.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := names(fourth); len(got) != 1 || got[0] != "B" {
		t.Fatalf("Load should replace the session, got %v", got)
	}
}

func TestSessionOpenDropsVanishedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	b := bcftest.Scenario(t, dir, "B.bcfzip", true)
	c := bcftest.Scenario(t, dir, "C.bcfzip", true)
	dbCtx, newSession := setupSession(t)

	s := newSession()
	for _, p := range []string{a, b, c} {
		if _, err := s.Append(ctx, p); err != nil {
			t.Fatalf("Append(%s) failed: %v", p, err)
		}
	}
	if err := os.Remove(b); err != nil {
		t.Fatalf("remove: %v", err)
	}

	reopened := newSession()
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := names(reopened); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Fatalf("unexpected files: %v", got)
	}

	records, err := database.NewSessionRepository(dbCtx).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 || records[1].Path != c || records[1].Position != 1 {
		t.Fatalf("stored list not rewritten: %#v", records)
	}
}

func TestSessionFailedAppendKeepsState(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	_, newSession := setupSession(t)

	s := newSession()
	if _, err := s.Load(ctx, a); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := s.Append(ctx, dir+"/missing.bcf"); err == nil {
		t.Fatalf("expected an error for a missing file")
	}

	reopened := newSession()
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if reopened.Set().Len() != 1 {
		t.Fatalf("failed Append changed the stored session")
	}
}

func TestSessionAppendDropsUnstoredArchive(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	b := bcftest.Scenario(t, dir, "B.bcfzip", true)
	dbCtx, newSession := setupSession(t)

	s := newSession()
	if _, err := s.Load(ctx, a); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// A row written behind the session's back takes the next position.
	repo := database.NewSessionRepository(dbCtx)
	if _, err := repo.Append(ctx, database.NewSessionFile{Path: "/elsewhere/X.bcf", Name: "X"}); err != nil {
		t.Fatalf("repository Append failed: %v", err)
	}

	if _, err := s.Append(ctx, b); err == nil {
		t.Fatalf("expected Append to fail on a taken position")
	}
	if got := names(s); len(got) != 1 || got[0] != "A" {
		t.Fatalf("unstored archive left in the set: %v", got)
	}

	if _, err := s.Load(ctx, b); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := s.Append(ctx, a); err != nil {
		t.Fatalf("Append after Load failed: %v", err)
	}
	if got := names(s); len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Fatalf("unexpected files: %v", got)
	}
}

func TestSessionStoresAbsolutePaths(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bcftest.Scenario(t, dir, "A.bcfzip", true)
	dbCtx, newSession := setupSession(t)

	t.Chdir(dir)
	s := newSession()
	if _, err := s.Load(ctx, "A.bcfzip"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	t.Chdir(t.TempDir())
	reopened := newSession()
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := names(reopened); len(got) != 1 || got[0] != "A" {
		t.Fatalf("session lost after changing directory: %v", got)
	}

	records, err := database.NewSessionRepository(dbCtx).List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 1 || !filepath.IsAbs(records[0].Path) {
		t.Fatalf("expected an absolute stored path: %#v", records)
	}
}

func TestSessionRemoveAndClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	b := bcftest.Scenario(t, dir, "B.bcfzip", true)
	_, newSession := setupSession(t)

	s := newSession()
	for _, p := range []string{a, b} {
		if _, err := s.Append(ctx, p); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := s.Remove(ctx, 0); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := names(s); len(got) != 1 || got[0] != "B" {
		t.Fatalf("unexpected files after Remove: %v", got)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	reopened := newSession()
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if reopened.Set().Len() != 0 {
		t.Fatalf("expected an empty session after Clear")
	}
}

func TestResolveTopic(t *testing.T) {
	ctx := context.Background()
	a := bcftest.Scenario(t, t.TempDir(), "A.bcfzip", true)
	_, newSession := setupSession(t)

	s := newSession()
	if _, err := s.Load(ctx, a); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	byGUID, err := ResolveTopic(s.Set(), "t1")
	if err != nil || byGUID.Markup.Topic.Title != "Leak" {
		t.Fatalf("ResolveTopic by guid returned %+v, %v", byGUID, err)
	}
	byIndex, err := ResolveTopic(s.Set(), "1")
	if err != nil || byIndex.Markup != byGUID.Markup {
		t.Fatalf("ResolveTopic by index returned %+v, %v", byIndex, err)
	}
	if _, err := ResolveTopic(s.Set(), "2"); !errors.Is(err, ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}

	vp, err := ResolveViewpoint(byGUID.Markup, "")
	if err != nil || vp.GUID() != "v1" {
		t.Fatalf("ResolveViewpoint returned %v, %v", vp, err)
	}
	if _, err := ResolveViewpoint(byGUID.Markup, "nope"); err == nil {
		t.Fatalf("expected an error for an unknown viewpoint")
	}
}

func TestTopicDetailView(t *testing.T) {
	ctx := context.Background()
	a := bcftest.Scenario(t, t.TempDir(), "A.bcfzip", true)
	_, newSession := setupSession(t)

	s := newSession()
	if _, err := s.Load(ctx, a); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	views := TopicViews(s.Set())
	if len(views) != 1 || views[0].Number != 1 || views[0].Viewpoints != "1 viewpoint" {
		t.Fatalf("unexpected topic views: %+v", views)
	}

	ref, err := ResolveTopic(s.Set(), "t1")
	if err != nil {
		t.Fatalf("ResolveTopic failed: %v", err)
	}
	d := NewTopicDetail(TopicNumber(s.Set(), ref), ref)
	if d.Topic.Number != 1 || d.Topic.Status != "Open" || len(d.Comments) != 1 || len(d.Viewpoints) != 1 {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if d.Comments[0].Viewpoint != "v1" || d.Comments[0].Date != "02-03-2024 09:30:00" {
		t.Fatalf("unexpected comment view: %+v", d.Comments[0])
	}
	vp := d.Viewpoints[0]
	if vp.Camera != "perspective" || vp.Image != "png" || vp.Move == nil || len(vp.Selection) != 1 {
		t.Fatalf("unexpected viewpoint view: %+v", vp)
	}
	if vp.Width != 4 || vp.Height != 3 || vp.Ratio != 0.75 {
		t.Fatalf("unexpected snapshot size: %dx%d ratio %v", vp.Width, vp.Height, vp.Ratio)
	}

	fv := NewFileView(s.Set().Files()[0])
	if fv.Name != "A" || fv.Version != "2.1" || fv.Topics != 1 || fv.Viewpoints != 1 {
		t.Fatalf("unexpected file view: %+v", fv)
	}
}
