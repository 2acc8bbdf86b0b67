package bcfxml

import (
	"strings"

	"github.com/bcfview/bcfview/internal/bcf"
)

// Element names follow the BCF 2.1 schemas. BCF 1.0 and 2.0 documents share
// the same names for everything read here.

type versionDoc struct {
	VersionID       string `xml:"VersionId,attr"`
	DetailedVersion string `xml:"DetailedVersion"`
}

type markupDoc struct {
	Header     *headerDoc     `xml:"Header"`
	Topic      *topicDoc      `xml:"Topic"`
	Comments   []commentDoc   `xml:"Comment"`
	Viewpoints []viewpointDoc `xml:"Viewpoints"`
}

type headerDoc struct {
	Files []headerFileDoc `xml:"File"`
}

type headerFileDoc struct {
	IfcProject                 string `xml:"IfcProject,attr"`
	IfcSpatialStructureElement string `xml:"IfcSpatialStructureElement,attr"`
	IsExternal                 string `xml:"isExternal,attr"`
	Filename                   string `xml:"Filename"`
	Date                       string `xml:"Date"`
	Reference                  string `xml:"Reference"`
}

func (f headerFileDoc) toModel() bcf.HeaderFile {
	return bcf.HeaderFile{
		IfcProject:                 f.IfcProject,
		IfcSpatialStructureElement: f.IfcSpatialStructureElement,
		IsExternal:                 parseBool(f.IsExternal, true),
		Filename:                   strings.TrimSpace(f.Filename),
		Date:                       ParseDate(f.Date),
		Reference:                  strings.TrimSpace(f.Reference),
	}
}

type guidRef struct {
	GUID string `xml:"Guid,attr"`
}

type topicDoc struct {
	GUID               string           `xml:"Guid,attr"`
	TopicType          string           `xml:"TopicType,attr"`
	TopicStatus        string           `xml:"TopicStatus,attr"`
	ReferenceLinks     []string         `xml:"ReferenceLink"`
	Title              string           `xml:"Title"`
	Priority           string           `xml:"Priority"`
	Index              string           `xml:"Index"`
	Labels             []string         `xml:"Labels"`
	CreationDate       string           `xml:"CreationDate"`
	CreationAuthor     string           `xml:"CreationAuthor"`
	ModifiedDate       string           `xml:"ModifiedDate"`
	ModifiedAuthor     string           `xml:"ModifiedAuthor"`
	DueDate            string           `xml:"DueDate"`
	AssignedTo         string           `xml:"AssignedTo"`
	Stage              string           `xml:"Stage"`
	Description        string           `xml:"Description"`
	BimSnippet         *bimSnippetDoc   `xml:"BimSnippet"`
	DocumentReferences []documentRefDoc `xml:"DocumentReference"`
	RelatedTopics      []guidRef        `xml:"RelatedTopic"`
}

type bimSnippetDoc struct {
	SnippetType     string `xml:"SnippetType,attr"`
	IsExternal      string `xml:"isExternal,attr"`
	Reference       string `xml:"Reference"`
	ReferenceSchema string `xml:"ReferenceSchema"`
}

type documentRefDoc struct {
	GUID               string `xml:"Guid,attr"`
	IsExternal         string `xml:"isExternal,attr"`
	ReferencedDocument string `xml:"ReferencedDocument"`
	Description        string `xml:"Description"`
}

func (t topicDoc) toModel() bcf.Topic {
	topic := bcf.Topic{
		GUID:           strings.TrimSpace(t.GUID),
		TopicType:      t.TopicType,
		TopicStatus:    t.TopicStatus,
		Title:          t.Title,
		Priority:       t.Priority,
		Index:          parseInt(t.Index),
		CreationDate:   ParseDate(t.CreationDate),
		CreationAuthor: t.CreationAuthor,
		ModifiedDate:   ParseDate(t.ModifiedDate),
		ModifiedAuthor: t.ModifiedAuthor,
		DueDate:        ParseDate(t.DueDate),
		AssignedTo:     t.AssignedTo,
		Stage:          t.Stage,
		Description:    t.Description,
	}
	if topic.ModifiedDate.IsZero() {
		topic.ModifiedDate = topic.CreationDate
	}
	if topic.ModifiedAuthor == "" {
		topic.ModifiedAuthor = topic.CreationAuthor
	}

	for _, l := range t.Labels {
		if l = strings.TrimSpace(l); l != "" {
			topic.Labels = append(topic.Labels, l)
		}
	}
	for _, link := range t.ReferenceLinks {
		if link = strings.TrimSpace(link); link != "" {
			topic.ReferenceLinks = append(topic.ReferenceLinks, link)
		}
	}
	for _, rel := range t.RelatedTopics {
		if rel.GUID != "" {
			topic.RelatedTopics = append(topic.RelatedTopics, rel.GUID)
		}
	}
	for _, ref := range t.DocumentReferences {
		topic.DocumentReferences = append(topic.DocumentReferences, bcf.DocumentReference{
			GUID:               ref.GUID,
			IsExternal:         parseBool(ref.IsExternal, false),
			ReferencedDocument: strings.TrimSpace(ref.ReferencedDocument),
			Description:        ref.Description,
		})
	}
	if t.BimSnippet != nil {
		topic.BimSnippet = &bcf.BimSnippet{
			SnippetType:     t.BimSnippet.SnippetType,
			IsExternal:      parseBool(t.BimSnippet.IsExternal, false),
			Reference:       strings.TrimSpace(t.BimSnippet.Reference),
			ReferenceSchema: strings.TrimSpace(t.BimSnippet.ReferenceSchema),
		}
	}
	return topic
}

type commentDoc struct {
	GUID           string   `xml:"Guid,attr"`
	Date           string   `xml:"Date"`
	Author         string   `xml:"Author"`
	Text           string   `xml:"Comment"`
	Viewpoint      *guidRef `xml:"Viewpoint"`
	ModifiedDate   string   `xml:"ModifiedDate"`
	ModifiedAuthor string   `xml:"ModifiedAuthor"`
}

func (c commentDoc) toModel() bcf.Comment {
	comment := bcf.Comment{
		GUID:           strings.TrimSpace(c.GUID),
		Date:           ParseDate(c.Date),
		Author:         c.Author,
		Text:           c.Text,
		ModifiedDate:   ParseDate(c.ModifiedDate),
		ModifiedAuthor: c.ModifiedAuthor,
	}
	if comment.ModifiedDate.IsZero() {
		comment.ModifiedDate = comment.Date
	}
	if comment.ModifiedAuthor == "" {
		comment.ModifiedAuthor = comment.Author
	}
	if c.Viewpoint != nil {
		comment.ViewpointGUID = strings.TrimSpace(c.Viewpoint.GUID)
	}
	return comment
}

type viewpointDoc struct {
	GUID      string  `xml:"Guid,attr"`
	Viewpoint string  `xml:"Viewpoint"`
	Snapshot  *string `xml:"Snapshot"`
	Index     string  `xml:"Index"`
}

func (v viewpointDoc) toRef() ViewpointRef {
	snapshot := bcf.NoSnapshot
	if v.Snapshot != nil {
		snapshot = strings.TrimSpace(*v.Snapshot)
	}
	return ViewpointRef{
		GUID:     strings.TrimSpace(v.GUID),
		File:     strings.TrimSpace(v.Viewpoint),
		Snapshot: snapshot,
		Index:    parseInt(v.Index),
	}
}

type visInfoDoc struct {
	GUID           string         `xml:"Guid,attr"`
	Components     *componentsDoc `xml:"Components"`
	Orthogonal     *cameraDoc     `xml:"OrthogonalCamera"`
	Perspective    *cameraDoc     `xml:"PerspectiveCamera"`
	Lines          []lineDoc      `xml:"Lines>Line"`
	ClippingPlanes []clippingDoc  `xml:"ClippingPlanes>ClippingPlane"`
	Bitmaps        []bitmapDoc    `xml:"Bitmap"`
}

type componentsDoc struct {
	Selection  []componentDoc `xml:"Selection>Component"`
	Visibility *visibilityDoc `xml:"Visibility"`
	Coloring   []colorDoc     `xml:"Coloring>Color"`
	// Components listed directly under Components, as in BCF 1.0 and 2.0.
	Legacy []componentDoc `xml:"Component"`
}

type componentDoc struct {
	IfcGUID  string `xml:"IfcGuid,attr"`
	Selected string `xml:"Selected,attr"`
}

type visibilityDoc struct {
	DefaultVisibility string         `xml:"DefaultVisibility,attr"`
	Exceptions        []componentDoc `xml:"Exceptions>Component"`
}

type colorDoc struct {
	Color      string         `xml:"Color,attr"`
	Components []componentDoc `xml:"Component"`
}

type vectorDoc struct {
	X string `xml:"X"`
	Y string `xml:"Y"`
	Z string `xml:"Z"`
}

func (v vectorDoc) point() bcf.Point {
	return bcf.Point{X: parseFloat(v.X), Y: parseFloat(v.Y), Z: parseFloat(v.Z)}
}

func (v vectorDoc) direction() bcf.Direction {
	return bcf.Direction{X: parseFloat(v.X), Y: parseFloat(v.Y), Z: parseFloat(v.Z)}
}

type cameraDoc struct {
	ViewPoint        vectorDoc `xml:"CameraViewPoint"`
	Direction        vectorDoc `xml:"CameraDirection"`
	UpVector         vectorDoc `xml:"CameraUpVector"`
	FieldOfView      string    `xml:"FieldOfView"`
	ViewToWorldScale string    `xml:"ViewToWorldScale"`
}

type lineDoc struct {
	Start vectorDoc `xml:"StartPoint"`
	End   vectorDoc `xml:"EndPoint"`
}

type clippingDoc struct {
	Location  vectorDoc `xml:"Location"`
	Direction vectorDoc `xml:"Direction"`
}

type bitmapDoc struct {
	Format    string    `xml:"Bitmap"`
	Reference string    `xml:"Reference"`
	Location  vectorDoc `xml:"Location"`
	Normal    vectorDoc `xml:"Normal"`
	Up        vectorDoc `xml:"Up"`
	Height    string    `xml:"Height"`
}

func (v visInfoDoc) toModel() *bcf.VisualizationInfo {
	vi := &bcf.VisualizationInfo{GUID: strings.TrimSpace(v.GUID)}

	switch {
	case v.Perspective != nil:
		c := v.Perspective
		vi.Camera = bcf.NewPerspectiveCamera(c.ViewPoint.point(), c.Direction.direction(), c.UpVector.direction(), parseFloat(c.FieldOfView))
	case v.Orthogonal != nil:
		c := v.Orthogonal
		vi.Camera = bcf.NewOrthogonalCamera(c.ViewPoint.point(), c.Direction.direction(), c.UpVector.direction(), parseFloat(c.ViewToWorldScale))
	}

	if comps := v.Components; comps != nil {
		for _, c := range comps.Selection {
			vi.Selection = appendGUID(vi.Selection, c.IfcGUID)
		}
		for _, c := range comps.Legacy {
			if parseBool(c.Selected, false) {
				vi.Selection = appendGUID(vi.Selection, c.IfcGUID)
			}
		}
		if comps.Visibility != nil {
			vis := &bcf.Visibility{DefaultVisibility: parseBool(comps.Visibility.DefaultVisibility, false)}
			for _, c := range comps.Visibility.Exceptions {
				vis.Exceptions = appendGUID(vis.Exceptions, c.IfcGUID)
			}
			vi.Visibility = vis
		}
		for _, col := range comps.Coloring {
			group := bcf.ColorGroup{Color: col.Color}
			for _, c := range col.Components {
				group.Components = appendGUID(group.Components, c.IfcGUID)
			}
			vi.Coloring = append(vi.Coloring, group)
		}
	}

	for _, l := range v.Lines {
		vi.Lines = append(vi.Lines, bcf.Line{Start: l.Start.point(), End: l.End.point()})
	}
	for _, p := range v.ClippingPlanes {
		vi.ClippingPlanes = append(vi.ClippingPlanes, bcf.ClippingPlane{Location: p.Location.point(), Direction: p.Direction.direction()})
	}
	for _, b := range v.Bitmaps {
		vi.Bitmaps = append(vi.Bitmaps, bcf.Bitmap{
			Format:    strings.TrimSpace(b.Format),
			Reference: strings.TrimSpace(b.Reference),
			Location:  b.Location.point(),
			Normal:    b.Normal.direction(),
			Up:        b.Up.direction(),
			Height:    parseFloat(b.Height),
		})
	}
	return vi
}

func appendGUID(list []string, guid string) []string {
	guid = strings.TrimSpace(guid)
	if guid == "" {
		return list
	}
	return append(list, guid)
}
