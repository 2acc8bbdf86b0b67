package usecase

import (
	"time"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/fileset"
	"github.com/bcfview/bcfview/internal/host"
)

// FileView summarizes one loaded archive.
type FileView struct {
	Index           int      `json:"index"`
	Name            string   `json:"name"`
	Path            string   `json:"path"`
	Version         string   `json:"version"`
	DetailedVersion string   `json:"detailedVersion,omitempty"`
	DeclaredVersion string   `json:"declaredVersion"`
	Topics          int      `json:"topics"`
	Viewpoints      int      `json:"viewpoints"`
	Skipped         []string `json:"skipped,omitempty"`
}

func NewFileView(a *bcf.Archive) FileView {
	v := FileView{
		Index:           a.Index,
		Name:            a.Name,
		Path:            a.Path,
		Version:         a.Version.VersionID,
		DetailedVersion: a.Version.DetailedVersion,
		DeclaredVersion: a.DeclaredVersion.VersionID,
		Topics:          len(a.Markups),
		Viewpoints:      a.ViewpointCount(),
	}
	for _, s := range a.Skipped {
		v.Skipped = append(v.Skipped, s.Path+": "+s.Reason)
	}
	return v
}

// TopicView summarizes a topic. Number is the 1-based position in the
// session's display order.
type TopicView struct {
	Number       int      `json:"number"`
	Archive      string   `json:"archive"`
	GUID         string   `json:"guid"`
	Index        int      `json:"index"`
	Title        string   `json:"title"`
	Type         string   `json:"type,omitempty"`
	Status       string   `json:"status,omitempty"`
	Priority     string   `json:"priority,omitempty"`
	AssignedTo   string   `json:"assignedTo,omitempty"`
	Labels       []string `json:"labels,omitempty"`
	Author       string   `json:"author,omitempty"`
	CreationDate string   `json:"creationDate,omitempty"`
	Modified     string   `json:"modified,omitempty"`
	DueDate      string   `json:"dueDate,omitempty"`
	Comments     int      `json:"comments"`
	Viewpoints   string   `json:"viewpoints"`
}

func NewTopicView(number int, ref fileset.TopicRef) TopicView {
	t := ref.Markup.Topic
	v := TopicView{
		Number:       number,
		Archive:      ref.Archive.Name,
		GUID:         t.GUID,
		Index:        t.Index,
		Title:        t.Title,
		Type:         t.TopicType,
		Status:       t.TopicStatus,
		Priority:     t.Priority,
		AssignedTo:   t.AssignedTo,
		Labels:       t.Labels,
		Author:       t.CreationAuthor,
		CreationDate: formatTime(t.CreationDate),
		Comments:     len(ref.Markup.Comments),
		Viewpoints:   bcf.ViewpointSummary(len(ref.Markup.Viewpoints)),
	}
	if t.WasModified() {
		v.Modified = t.ModifiedAuthor + " " + formatTime(t.ModifiedDate)
	}
	if t.HasDueDate() {
		v.DueDate = formatTime(t.DueDate)
	}
	return v
}

// TopicViews lists every topic of set in display order.
func TopicViews(set *fileset.Set) []TopicView {
	refs := set.Topics()
	out := make([]TopicView, 0, len(refs))
	for i, ref := range refs {
		out = append(out, NewTopicView(i+1, ref))
	}
	return out
}

// CommentView is a comment with its resolved viewpoint.
type CommentView struct {
	GUID      string `json:"guid"`
	Date      string `json:"date"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Modified  string `json:"modified,omitempty"`
	Viewpoint string `json:"viewpoint,omitempty"`
}

// ViewpointView describes a viewpoint without its image bytes.
type ViewpointView struct {
	GUID      string           `json:"guid"`
	File      string           `json:"file"`
	Snapshot  string           `json:"snapshot,omitempty"`
	Image     string           `json:"image,omitempty"`
	Width     int              `json:"width,omitempty"`
	Height    int              `json:"height,omitempty"`
	Ratio     float64          `json:"ratio,omitempty"`
	Camera    string           `json:"camera"`
	Summary   string           `json:"summary"`
	Move      *host.CameraMove `json:"move,omitempty"`
	Selection []string         `json:"selection,omitempty"`
}

func NewViewpointView(vp *bcf.Viewpoint) ViewpointView {
	vi := vp.Visualization()
	v := ViewpointView{
		GUID:    vp.GUID(),
		File:    vp.File(),
		Camera:  bcf.CameraNone.String(),
		Summary: vi.CameraText(),
	}
	if vi != nil {
		v.Camera = vi.Camera.Kind.String()
		v.Selection = vi.Selection
	}
	if vp.HasSnapshot() {
		v.Snapshot = vp.Snapshot()
	}
	if img := vp.Image(); img != nil {
		v.Image = img.Format
		v.Width = img.Width
		v.Height = img.Height
		v.Ratio = img.Ratio()
	}
	if move, ok := host.FromVisualization(vi); ok {
		v.Move = &move
	}
	return v
}

// TopicDetail is a topic with its description, comments and viewpoints.
type TopicDetail struct {
	Topic       TopicView       `json:"topic"`
	Description string          `json:"description,omitempty"`
	Stage       string          `json:"stage,omitempty"`
	References  []string        `json:"references,omitempty"`
	Comments    []CommentView   `json:"comments"`
	Viewpoints  []ViewpointView `json:"viewpoints"`
}

// NewTopicDetail builds the detail of ref. Comments are ordered by
// modification date.
func NewTopicDetail(number int, ref fileset.TopicRef) TopicDetail {
	m := ref.Markup
	d := TopicDetail{
		Topic:       NewTopicView(number, ref),
		Description: m.Topic.Description,
		Stage:       m.Topic.Stage,
		References:  m.Topic.ReferenceLinks,
		Comments:    []CommentView{},
		Viewpoints:  []ViewpointView{},
	}
	for _, c := range m.SortedComments() {
		cv := CommentView{
			GUID:   c.GUID,
			Date:   formatTime(c.Date),
			Author: c.Author,
			Text:   c.Text,
		}
		if c.WasModified() {
			cv.Modified = c.ModifiedAuthor + " " + formatTime(c.ModifiedDate)
		}
		if vp := m.ViewpointForComment(c); vp != nil {
			cv.Viewpoint = vp.GUID()
		}
		d.Comments = append(d.Comments, cv)
	}
	for _, vp := range m.Viewpoints {
		d.Viewpoints = append(d.Viewpoints, NewViewpointView(vp))
	}
	return d
}

// TopicNumber returns the 1-based display position of ref in set, or 0.
func TopicNumber(set *fileset.Set, ref fileset.TopicRef) int {
	for i, r := range set.Topics() {
		if r.Markup == ref.Markup {
			return i + 1
		}
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return bcf.FormatDate(t)
}
