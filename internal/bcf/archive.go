// Package bcf defines the in-memory object graph of a BIM Collaboration
// Format archive: archives, markups, topics, comments, viewpoints and
// visualization information.
//
// Values are built once by the loader and are not mutated afterwards, so the
// graph may be traversed freely by presentation code.
package bcf

import (
	"sort"
)

// Default version reported for archives without a bcf.version entry.
const (
	DefaultVersionID       = "1.0"
	DefaultDetailedVersion = "Undefined Version"
)

// VersionInfo is the content of the bcf.version entry.
type VersionInfo struct {
	VersionID       string
	DetailedVersion string
}

// DefaultVersion returns the version synthesized when bcf.version is absent.
func DefaultVersion() VersionInfo {
	return VersionInfo{
		VersionID:       DefaultVersionID,
		DetailedVersion: DefaultDetailedVersion,
	}
}

// SkippedEntry records an archive entry dropped during a load.
type SkippedEntry struct {
	Path   string
	Reason string
}

// Archive is one loaded BCF file.
type Archive struct {
	// Name is the file name without directory and extension.
	Name string
	// Path is the path the archive was loaded from.
	Path string
	// Version is the reported version. It is downgraded to 1.0 when a markup
	// uses the legacy viewpoint.bcfv layout.
	Version VersionInfo
	// DeclaredVersion is the version read from bcf.version, or the default.
	DeclaredVersion VersionInfo
	Markups         []*Markup
	// Index is the load order within a file set.
	Index   int
	Skipped []SkippedEntry
}

// SortedMarkups returns the markups ordered by topic index. Markups sharing
// an index keep their archive order.
func (a *Archive) SortedMarkups() []*Markup {
	sorted := make([]*Markup, len(a.Markups))
	copy(sorted, a.Markups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Topic.Index < sorted[j].Topic.Index
	})
	return sorted
}

// FindMarkup returns the markup whose topic has the given GUID.
func (a *Archive) FindMarkup(topicGUID string) *Markup {
	for _, m := range a.Markups {
		if m.Topic.GUID == topicGUID {
			return m
		}
	}
	return nil
}

// ViewpointCount returns the number of viewpoints across all markups.
func (a *Archive) ViewpointCount() int {
	n := 0
	for _, m := range a.Markups {
		n += len(m.Viewpoints)
	}
	return n
}
