package bcf

import (
	"sort"
	"time"
)

// LegacyViewpointGUID is the pseudo GUID given to the viewpoint synthesized
// for BCF 1.0 topics that only carry a viewpoint.bcfv file.
const LegacyViewpointGUID = "viewpointbcfv"

// Conventional file names of the BCF 1.0 layout.
const (
	LegacyViewpointFile = "viewpoint.bcfv"
	LegacySnapshotFile  = "snapshot.png"
)

// NoSnapshot is the snapshot file name meaning "no snapshot".
const NoSnapshot = "-"

// Markup is the content of one markup.bcf entry.
type Markup struct {
	// Folder is the archive folder the markup was read from, with a trailing
	// slash, or empty at the archive root.
	Folder     string
	Header     []HeaderFile
	Topic      Topic
	Comments   []Comment
	Viewpoints []*Viewpoint
	// Legacy is set when the viewpoint was synthesized from the 1.0 layout.
	Legacy bool
}

// HeaderFile references a model file the topic relates to.
type HeaderFile struct {
	IfcProject                 string
	IfcSpatialStructureElement string
	IsExternal                 bool
	Filename                   string
	Date                       time.Time
	Reference                  string
}

// Topic is the issue described by a markup.
type Topic struct {
	GUID           string
	TopicType      string
	TopicStatus    string
	Title          string
	Priority       string
	Index          int
	Labels         []string
	CreationDate   time.Time
	CreationAuthor string
	ModifiedDate   time.Time
	ModifiedAuthor string
	DueDate        time.Time
	AssignedTo     string
	Stage          string
	Description    string

	ReferenceLinks     []string
	RelatedTopics      []string
	DocumentReferences []DocumentReference
	BimSnippet         *BimSnippet
}

// WasModified reports whether the topic carries a modification distinct from
// its creation.
func (t Topic) WasModified() bool {
	return t.ModifiedAuthor != t.CreationAuthor || !t.ModifiedDate.Equal(t.CreationDate)
}

// HasDueDate reports whether a due date is set.
func (t Topic) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

// DocumentReference is an opaque link from a topic to a document.
type DocumentReference struct {
	GUID               string
	IsExternal         bool
	ReferencedDocument string
	Description        string
}

// BimSnippet is an opaque reference to an additional model payload.
type BimSnippet struct {
	SnippetType     string
	IsExternal      bool
	Reference       string
	ReferenceSchema string
}

// Comment is one entry of the discussion on a topic.
type Comment struct {
	GUID           string
	Date           time.Time
	Author         string
	Text           string
	ModifiedDate   time.Time
	ModifiedAuthor string
	// ViewpointGUID is the GUID of the viewpoint the comment cites, if any.
	ViewpointGUID string

	viewpoint *Viewpoint
}

// Viewpoint returns the viewpoint the comment cites, or nil when the comment
// cites none or the cited GUID does not match a viewpoint of its markup.
func (c Comment) Viewpoint() *Viewpoint {
	return c.viewpoint
}

// WasModified reports whether the comment carries a modification distinct
// from its creation.
func (c Comment) WasModified() bool {
	return c.ModifiedAuthor != c.Author || !c.ModifiedDate.Equal(c.Date)
}

// LinkComments resolves each comment's viewpoint GUID against the markup's
// viewpoints. Unresolved GUIDs leave the reference empty.
func (m *Markup) LinkComments() {
	byGUID := make(map[string]*Viewpoint, len(m.Viewpoints))
	for _, vp := range m.Viewpoints {
		byGUID[vp.guid] = vp
	}
	for i := range m.Comments {
		c := &m.Comments[i]
		c.viewpoint = nil
		if c.ViewpointGUID == "" {
			continue
		}
		c.viewpoint = byGUID[c.ViewpointGUID]
	}
}

// SortedComments returns the comments ordered by modification date.
func (m *Markup) SortedComments() []Comment {
	sorted := make([]Comment, len(m.Comments))
	copy(sorted, m.Comments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ModifiedDate.Before(sorted[j].ModifiedDate)
	})
	return sorted
}

// PrimaryViewpoint returns the first viewpoint of the markup, or nil.
func (m *Markup) PrimaryViewpoint() *Viewpoint {
	if len(m.Viewpoints) == 0 {
		return nil
	}
	return m.Viewpoints[0]
}

// ViewpointForComment returns the viewpoint to display for a comment: the
// one it cites, or the markup's primary viewpoint when it cites none.
func (m *Markup) ViewpointForComment(c Comment) *Viewpoint {
	if c.ViewpointGUID != "" {
		return c.viewpoint
	}
	return m.PrimaryViewpoint()
}

// FindViewpoint returns the viewpoint with the given GUID, or nil.
func (m *Markup) FindViewpoint(guid string) *Viewpoint {
	for _, vp := range m.Viewpoints {
		if vp.guid == guid {
			return vp
		}
	}
	return nil
}

// Viewpoint is a saved camera with its optional snapshot. Viewpoints are
// immutable once built.
type Viewpoint struct {
	guid          string
	file          string
	snapshot      string
	index         int
	visualization *VisualizationInfo
	image         *Image
}

// NewViewpoint builds a viewpoint. vi and img may be nil.
func NewViewpoint(guid, file, snapshot string, index int, vi *VisualizationInfo, img *Image) *Viewpoint {
	return &Viewpoint{
		guid:          guid,
		file:          file,
		snapshot:      snapshot,
		index:         index,
		visualization: vi,
		image:         img,
	}
}

func (v *Viewpoint) GUID() string     { return v.guid }
func (v *Viewpoint) File() string     { return v.file }
func (v *Viewpoint) Snapshot() string { return v.snapshot }
func (v *Viewpoint) Index() int       { return v.index }

// Visualization returns the decoded .bcfv content, or nil when the file was
// missing.
func (v *Viewpoint) Visualization() *VisualizationInfo {
	return v.visualization
}

// Image returns the snapshot, or nil when there is none.
func (v *Viewpoint) Image() *Image {
	return v.image
}

// HasSnapshot reports whether a snapshot file name is set.
func (v *Viewpoint) HasSnapshot() bool {
	return v.snapshot != "" && v.snapshot != NoSnapshot
}

// CameraDefined reports whether the viewpoint carries a camera.
func (v *Viewpoint) CameraDefined() bool {
	return v.visualization != nil && v.visualization.CameraDefined()
}

// Image is a decoded snapshot.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Ratio returns height over width, or 0 for an empty image.
func (i *Image) Ratio() float64 {
	if i == nil || i.Width == 0 {
		return 0
	}
	return float64(i.Height) / float64(i.Width)
}
