// Package fileset keeps the ordered collection of loaded BCF archives.
//
// A Set has a single owner. Callers sharing one between goroutines must
// serialize access themselves.
package fileset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bcfview/bcfview/internal/bcf"
)

// ErrIndexOutOfRange is returned by Remove for an unknown index.
var ErrIndexOutOfRange = errors.New("fileset: index out of range")

// Loader loads one archive from disk.
type Loader interface {
	Load(path string) (*bcf.Archive, error)
}

// Set is an ordered list of archives. An archive's Index always equals its
// position in the list.
type Set struct {
	loader Loader
	files  []*bcf.Archive
}

// New returns an empty Set that loads archives with l.
func New(l Loader) *Set {
	return &Set{loader: l}
}

// Clear empties the set.
func (s *Set) Clear() {
	s.files = nil
}

// Add loads path and appends it. A failed load leaves the set unchanged.
func (s *Set) Add(path string) (*bcf.Archive, error) {
	a, err := s.loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	a.Index = len(s.files)
	s.files = append(s.files, a)
	return a, nil
}

// Replace clears the set and adds path.
func (s *Set) Replace(path string) (*bcf.Archive, error) {
	s.Clear()
	return s.Add(path)
}

// Files returns the archives in load order. The slice is a copy.
func (s *Set) Files() []*bcf.Archive {
	out := make([]*bcf.Archive, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of archives.
func (s *Set) Len() int {
	return len(s.files)
}

// Remove drops the archive at index and renumbers the ones after it.
func (s *Set) Remove(index int) error {
	if index < 0 || index >= len(s.files) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	s.files = append(s.files[:index:index], s.files[index+1:]...)
	for i := index; i < len(s.files); i++ {
		s.files[i].Index = i
	}
	return nil
}

// Find returns the first archive whose Name or Path equals name.
func (s *Set) Find(name string) (*bcf.Archive, bool) {
	for _, a := range s.files {
		if a.Name == name || a.Path == name {
			return a, true
		}
	}
	return nil, false
}

// TopicRef pairs a markup with the archive it was loaded from.
type TopicRef struct {
	Archive *bcf.Archive
	Markup  *bcf.Markup
}

// Topics returns every markup of the set in display order: archives by
// Index, then markups by topic index.
func (s *Set) Topics() []TopicRef {
	archives := s.Files()
	sort.SliceStable(archives, func(i, j int) bool {
		return archives[i].Index < archives[j].Index
	})

	var refs []TopicRef
	for _, a := range archives {
		for _, m := range a.SortedMarkups() {
			refs = append(refs, TopicRef{Archive: a, Markup: m})
		}
	}
	return refs
}

// FindTopic returns the markup whose topic GUID equals guid.
func (s *Set) FindTopic(guid string) (TopicRef, bool) {
	for _, a := range s.files {
		if m := a.FindMarkup(guid); m != nil {
			return TopicRef{Archive: a, Markup: m}, true
		}
	}
	return TopicRef{}, false
}
