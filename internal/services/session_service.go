package services

import (
	"context"
	"fmt"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/database"
)

// SessionService records which archives make up the session.
type SessionService struct {
	repo *database.SessionRepository
}

func NewSessionService(ctx *database.Context) *SessionService {
	return &SessionService{repo: database.NewSessionRepository(ctx)}
}

func sessionFile(a *bcf.Archive) database.NewSessionFile {
	return database.NewSessionFile{
		Path:        a.Path,
		Name:        a.Name,
		VersionID:   a.Version.VersionID,
		MarkupCount: len(a.Markups),
	}
}

// Files returns the stored files in session order.
func (s *SessionService) Files(ctx context.Context) ([]database.SessionFileRecord, error) {
	return s.repo.List(ctx)
}

// Append stores a after the existing files. The stored position must match
// the archive's Index, so nothing may be stored at it yet.
func (s *SessionService) Append(ctx context.Context, a *bcf.Archive) error {
	existing, err := s.repo.FindByPosition(ctx, int64(a.Index))
	if err != nil {
		return fmt.Errorf("record %s: %w", a.Path, err)
	}
	if existing != nil {
		return fmt.Errorf("record %s: position %d already holds %s", a.Path, a.Index, existing.Path)
	}

	pos, err := s.repo.Append(ctx, sessionFile(a))
	if err != nil {
		return fmt.Errorf("record %s: %w", a.Path, err)
	}
	if pos != int64(a.Index) {
		return fmt.Errorf("record %s: stored at position %d, archive index is %d", a.Path, pos, a.Index)
	}
	return nil
}

// Replace makes a the only stored file.
func (s *SessionService) Replace(ctx context.Context, a *bcf.Archive) error {
	if err := s.repo.Replace(ctx, sessionFile(a)); err != nil {
		return fmt.Errorf("record %s: %w", a.Path, err)
	}
	return nil
}

// Remove drops the file at index. It returns database.ErrNotFound when the
// index is not stored.
func (s *SessionService) Remove(ctx context.Context, index int) error {
	removed, err := s.repo.Remove(ctx, int64(index))
	if err != nil {
		return err
	}
	if !removed {
		return database.ErrNotFound
	}
	return nil
}

// Clear forgets every file.
func (s *SessionService) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
