// Package loader reads a BCF archive into a bcf.Archive object graph.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	// Snapshot decoders.
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog"

	"github.com/bcfview/bcfview/internal/archive"
	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/bcfxml"
)

const (
	versionEntry = "bcf.version"
	markupSuffix = "markup.bcf"
)

// Loader builds archives from BCF files. A Loader holds no per-load state and
// may be shared between goroutines.
type Loader struct {
	log     zerolog.Logger
	decoder *bcfxml.Decoder
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for recoverable problems.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	l.decoder = bcfxml.NewDecoder(l.log)
	return l
}

// Load reads the archive at path. Only failures to open the archive are
// returned; problems with individual entries are logged and recorded in
// Archive.Skipped.
func (l *Loader) Load(path string) (*bcf.Archive, error) {
	return l.LoadContext(context.Background(), path)
}

// LoadContext is Load with cancellation checked between markups.
func (l *Loader) LoadContext(ctx context.Context, path string) (*bcf.Archive, error) {
	r, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	log := l.log.With().Str("archive", path).Logger()
	load := &archiveLoad{
		loader: l,
		log:    log,
		r:      r,
		archive: &bcf.Archive{
			Name: displayName(path),
			Path: path,
		},
	}

	load.readVersion()
	for _, entry := range r.Entries() {
		if !entry.HasSuffixFold(markupSuffix) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		load.readMarkup(entry)
	}

	log.Debug().
		Int("markups", len(load.archive.Markups)).
		Int("skipped", len(load.archive.Skipped)).
		Str("version", load.archive.Version.VersionID).
		Msg("archive loaded")
	return load.archive, nil
}

func displayName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// archiveLoad carries the state of one Load call.
type archiveLoad struct {
	loader  *Loader
	log     zerolog.Logger
	r       *archive.Reader
	archive *bcf.Archive
}

func (a *archiveLoad) skip(path, reason string) {
	a.archive.Skipped = append(a.archive.Skipped, bcf.SkippedEntry{Path: path, Reason: reason})
}

func (a *archiveLoad) readVersion() {
	a.archive.DeclaredVersion = bcf.DefaultVersion()

	data, ok, err := a.r.Read(versionEntry)
	switch {
	case !ok:
		a.log.Debug().Msg("no bcf.version entry, assuming 1.0")
	case err != nil:
		a.log.Warn().Err(err).Msg("unreadable bcf.version, assuming 1.0")
	default:
		v, err := a.loader.decoder.Version(bytes.NewReader(data))
		if err != nil {
			a.log.Warn().Err(err).Msg("invalid bcf.version, assuming 1.0")
			break
		}
		a.archive.DeclaredVersion = v
	}
	a.archive.Version = a.archive.DeclaredVersion
}

// errSkipMarkup aborts the current markup without failing the archive.
var errSkipMarkup = errors.New("skip markup")

func (a *archiveLoad) readMarkup(entry *archive.Entry) {
	name := entry.Name()
	log := a.log.With().Str("entry", name).Int64("size", entry.Size()).Logger()

	data, err := entry.ReadAll()
	if err != nil {
		log.Warn().Err(err).Msg("skipping unreadable markup")
		a.skip(name, err.Error())
		return
	}

	doc, err := a.loader.decoder.Markup(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, bcfxml.ErrNoTopic) {
			log.Debug().Msg("skipping markup without topic")
		} else {
			log.Warn().Err(err).Msg("skipping malformed markup")
		}
		a.skip(name, err.Error())
		return
	}

	folder := entry.Folder()
	m := &bcf.Markup{
		Folder:   folder,
		Header:   doc.Header,
		Topic:    doc.Topic,
		Comments: doc.Comments,
	}

	for _, ref := range doc.Viewpoints {
		vp, err := a.resolveViewpoint(log, folder, ref)
		if err != nil {
			a.skip(name, err.Error())
			return
		}
		m.Viewpoints = append(m.Viewpoints, vp)
	}

	if len(m.Viewpoints) == 0 && a.r.Has(folder+bcf.LegacyViewpointFile) {
		vp, err := a.resolveLegacyViewpoint(log, folder)
		if err != nil {
			a.skip(name, err.Error())
			return
		}
		m.Viewpoints = append(m.Viewpoints, vp)
		m.Legacy = true
		if a.archive.Version.VersionID != bcf.DefaultVersionID {
			log.Debug().
				Str("declared", a.archive.DeclaredVersion.VersionID).
				Msg("legacy viewpoint layout, reporting archive as 1.0")
		}
		a.archive.Version.VersionID = bcf.DefaultVersionID
	}

	m.LinkComments()
	a.archive.Markups = append(a.archive.Markups, m)
}

func (a *archiveLoad) resolveViewpoint(log zerolog.Logger, folder string, ref bcfxml.ViewpointRef) (*bcf.Viewpoint, error) {
	vi, err := a.readVisualization(log, folder+ref.File)
	if err != nil {
		return nil, err
	}
	img := a.readSnapshot(log, folder, ref.Snapshot)
	return bcf.NewViewpoint(ref.GUID, ref.File, ref.Snapshot, ref.Index, vi, img), nil
}

func (a *archiveLoad) resolveLegacyViewpoint(log zerolog.Logger, folder string) (*bcf.Viewpoint, error) {
	vi, err := a.readVisualization(log, folder+bcf.LegacyViewpointFile)
	if err != nil {
		return nil, err
	}
	snapshot := bcf.LegacySnapshotFile
	img := a.readSnapshot(log, folder, snapshot)
	if img == nil {
		snapshot = ""
	}
	return bcf.NewViewpoint(bcf.LegacyViewpointGUID, bcf.LegacyViewpointFile, snapshot, 0, vi, img), nil
}

// readVisualization returns nil without error when the file is absent. A
// file that cannot be decoded fails the markup.
func (a *archiveLoad) readVisualization(log zerolog.Logger, name string) (*bcf.VisualizationInfo, error) {
	data, ok, err := a.r.Read(name)
	if !ok {
		log.Debug().Str("bcfv", name).Msg("visualization file not found")
		return nil, nil
	}
	if err != nil {
		log.Warn().Err(err).Str("bcfv", name).Msg("skipping markup with unreadable visualization")
		return nil, fmt.Errorf("%w: %s: %w", errSkipMarkup, name, err)
	}

	vi, err := a.loader.decoder.VisualizationInfo(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Str("bcfv", name).Msg("skipping markup with malformed visualization")
		return nil, fmt.Errorf("%w: %s: %w", errSkipMarkup, name, err)
	}
	return vi, nil
}

// readSnapshot returns nil for the "-" sentinel, a missing entry or an image
// that cannot be decoded.
func (a *archiveLoad) readSnapshot(log zerolog.Logger, folder, snapshot string) *bcf.Image {
	if snapshot == "" || snapshot == bcf.NoSnapshot {
		return nil
	}
	name := folder + snapshot

	data, ok, err := a.r.Read(name)
	if !ok {
		log.Debug().Str("snapshot", name).Msg("snapshot not found")
		return nil
	}
	if err != nil {
		log.Warn().Err(err).Str("snapshot", name).Msg("unreadable snapshot")
		return nil
	}
	if len(data) == 0 {
		log.Warn().Str("snapshot", name).Msg("empty snapshot")
		return nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Warn().Err(err).Str("snapshot", name).Msg("undecodable snapshot")
		return nil
	}
	return &bcf.Image{
		Data:   data,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
}
