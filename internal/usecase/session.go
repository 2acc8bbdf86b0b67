package usecase

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/database"
	"github.com/bcfview/bcfview/internal/fileset"
	"github.com/bcfview/bcfview/internal/services"
)

// Session keeps a file set and its stored file list in step. It is not safe
// for concurrent use.
type Session struct {
	set     *fileset.Set
	service *services.SessionService
	log     zerolog.Logger
}

func NewSession(dbCtx *database.Context, l fileset.Loader, log zerolog.Logger) *Session {
	return &Session{
		set:     fileset.New(l),
		service: services.NewSessionService(dbCtx),
		log:     log,
	}
}

// Set returns the in-memory file set.
func (u *Session) Set() *fileset.Set {
	return u.set
}

// Open reloads every stored file from disk. Files that no longer load are
// dropped from the stored list.
func (u *Session) Open(ctx context.Context) error {
	records, err := u.service.Files(ctx)
	if err != nil {
		return err
	}

	u.set.Clear()
	stale := 0
	for _, rec := range records {
		if _, err := u.set.Add(rec.Path); err != nil {
			u.log.Warn().Err(err).Str("path", rec.Path).Msg("dropping session file that no longer loads")
			stale++
		}
	}
	if stale == 0 {
		return nil
	}
	return u.rewrite(ctx)
}

// rewrite stores the current file set, replacing whatever was recorded.
func (u *Session) rewrite(ctx context.Context) error {
	if err := u.service.Clear(ctx); err != nil {
		return err
	}
	for _, a := range u.set.Files() {
		if err := u.service.Append(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the session with the archive at path. The stored path is
// absolute so later invocations can reload it from any directory.
func (u *Session) Load(ctx context.Context, path string) (*bcf.Archive, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	a, err := u.set.Replace(abs)
	if err != nil {
		return nil, err
	}
	if err := u.service.Replace(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Append adds the archive at path to the session.
func (u *Session) Append(ctx context.Context, path string) (*bcf.Archive, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	a, err := u.set.Add(abs)
	if err != nil {
		return nil, err
	}
	if err := u.service.Append(ctx, a); err != nil {
		if rmErr := u.set.Remove(a.Index); rmErr != nil {
			u.log.Error().Err(rmErr).Int("index", a.Index).Msg("failed to drop unsaved archive")
		}
		return nil, err
	}
	return a, nil
}

// Remove drops the archive at index.
func (u *Session) Remove(ctx context.Context, index int) error {
	if err := u.set.Remove(index); err != nil {
		return err
	}
	if err := u.service.Remove(ctx, index); err != nil {
		return fmt.Errorf("remove stored file %d: %w", index, err)
	}
	return nil
}

// Clear empties the session.
func (u *Session) Clear(ctx context.Context) error {
	u.set.Clear()
	return u.service.Clear(ctx)
}
