// Package archive provides read-only access to the entries of a ZIP-packaged
// BCF file.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/klauspost/compress/zip"
)

var (
	// ErrNotFound indicates the archive file does not exist.
	ErrNotFound = errors.New("archive: not found")
	// ErrNotAZip indicates the file is not a ZIP archive.
	ErrNotAZip = errors.New("archive: not a zip file")
	// ErrCorrupt indicates the archive or one of its entries is damaged.
	ErrCorrupt = errors.New("archive: corrupt")
)

// Reader is an open archive. It must be closed to release the file.
type Reader struct {
	zr     *zip.ReadCloser
	byName map[string]*Entry
	order  []*Entry
}

// Entry is one file stored in the archive.
type Entry struct {
	f *zip.File
}

// Open opens the archive at path.
func Open(path string) (*Reader, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	r := &Reader{
		zr:     zr,
		byName: make(map[string]*Entry, len(zr.File)),
		order:  make([]*Entry, 0, len(zr.File)),
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		e := &Entry{f: f}
		r.order = append(r.order, e)
		// First entry wins on duplicate names, as with a sequential scan.
		if _, exists := r.byName[f.Name]; !exists {
			r.byName[f.Name] = e
		}
	}
	return r, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case errors.Is(err, zip.ErrFormat):
		return fmt.Errorf("%w: %s", ErrNotAZip, path)
	case errors.Is(err, zip.ErrChecksum), errors.Is(err, zip.ErrAlgorithm), errors.Is(err, io.ErrUnexpectedEOF):
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, path, err)
	default:
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
}

// Close releases the underlying file. It is safe to call more than once.
func (r *Reader) Close() error {
	if r == nil || r.zr == nil {
		return nil
	}
	err := r.zr.Close()
	r.zr = nil
	return err
}

// Entries returns the file entries in archive order.
func (r *Reader) Entries() []*Entry {
	out := make([]*Entry, len(r.order))
	copy(out, r.order)
	return out
}

// Entry looks up an entry by its exact path.
func (r *Reader) Entry(name string) (*Entry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// Has reports whether an entry with the exact path exists.
func (r *Reader) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Read returns the content of the named entry. The boolean is false when the
// entry does not exist.
func (r *Reader) Read(name string) ([]byte, bool, error) {
	e, ok := r.byName[name]
	if !ok {
		return nil, false, nil
	}
	data, err := e.ReadAll()
	return data, true, err
}

// Name returns the entry path inside the archive.
func (e *Entry) Name() string {
	return e.f.Name
}

// Size returns the uncompressed size.
func (e *Entry) Size() int64 {
	return int64(e.f.UncompressedSize64)
}

// HasSuffixFold reports whether the entry path ends with suffix, ignoring case.
func (e *Entry) HasSuffixFold(suffix string) bool {
	name := e.f.Name
	if len(name) < len(suffix) {
		return false
	}
	return strings.EqualFold(name[len(name)-len(suffix):], suffix)
}

// Folder returns the entry's folder including the trailing slash, or the
// empty string for entries at the archive root.
func (e *Entry) Folder() string {
	return Folder(e.f.Name)
}

// Folder returns the part of name up to and including the last slash.
func Folder(name string) string {
	return name[:strings.LastIndex(name, "/")+1]
}

// Open returns a stream over the entry content.
func (e *Entry) Open() (io.ReadCloser, error) {
	rc, err := e.f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %w", ErrCorrupt, e.f.Name, err)
	}
	return rc, nil
}

// ReadAll reads the full entry content.
func (e *Entry) ReadAll() ([]byte, error) {
	rc, err := e.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: entry %s: %w", ErrCorrupt, e.f.Name, err)
	}
	return data, nil
}
