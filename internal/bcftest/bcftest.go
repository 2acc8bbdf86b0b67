// Package bcftest builds BCF archives on disk for tests.
package bcftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// File is one entry of a test archive.
type File struct {
	Name string
	Data []byte
}

// Text builds an entry from a string.
func Text(name, content string) File {
	return File{Name: name, Data: []byte(content)}
}

// WriteZip writes the files, in order, to dir/name and returns the path.
func WriteZip(t *testing.T, dir, name string, files ...File) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			t.Fatalf("write zip entry %s: %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write archive %s: %v", path, err)
	}
	return path
}

// PNG returns an encoded w×h image.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// Version returns a bcf.version document.
func Version(id, detailed string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Version VersionId=%q>
  <DetailedVersion>%s</DetailedVersion>
</Version>`, id, detailed)
}

// Topic describes the topic element of a markup document.
type Topic struct {
	GUID   string
	Title  string
	Index  string
	Status string
	Labels []string
}

// Comment describes a comment element of a markup document.
type Comment struct {
	GUID          string
	Date          string
	Author        string
	Text          string
	ViewpointGUID string
}

// Viewpoint describes a Viewpoints element of a markup document.
type Viewpoint struct {
	GUID     string
	File     string
	Snapshot string
}

// Markup renders a 2.x markup.bcf document. A nil topic omits the Topic
// element.
func Markup(topic *Topic, comments []Comment, viewpoints []Viewpoint) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n<Markup>\n")
	if topic != nil {
		fmt.Fprintf(&b, "  <Topic Guid=%q TopicType=\"Issue\" TopicStatus=%q>\n", topic.GUID, topic.Status)
		fmt.Fprintf(&b, "    <Title>%s</Title>\n", topic.Title)
		if topic.Index != "" {
			fmt.Fprintf(&b, "    <Index>%s</Index>\n", topic.Index)
		}
		for _, l := range topic.Labels {
			fmt.Fprintf(&b, "    <Labels>%s</Labels>\n", l)
		}
		b.WriteString("    <CreationDate>2024-03-01T10:00:00+00:00</CreationDate>\n")
		b.WriteString("    <CreationAuthor>author@example.com</CreationAuthor>\n")
		b.WriteString("  </Topic>\n")
	}
	for _, c := range comments {
		fmt.Fprintf(&b, "  <Comment Guid=%q>\n", c.GUID)
		if c.Date != "" {
			fmt.Fprintf(&b, "    <Date>%s</Date>\n", c.Date)
		}
		fmt.Fprintf(&b, "    <Author>%s</Author>\n", c.Author)
		fmt.Fprintf(&b, "    <Comment>%s</Comment>\n", c.Text)
		if c.ViewpointGUID != "" {
			fmt.Fprintf(&b, "    <Viewpoint Guid=%q/>\n", c.ViewpointGUID)
		}
		b.WriteString("  </Comment>\n")
	}
	for _, v := range viewpoints {
		fmt.Fprintf(&b, "  <Viewpoints Guid=%q>\n", v.GUID)
		fmt.Fprintf(&b, "    <Viewpoint>%s</Viewpoint>\n", v.File)
		if v.Snapshot != "" {
			fmt.Fprintf(&b, "    <Snapshot>%s</Snapshot>\n", v.Snapshot)
		}
		b.WriteString("  </Viewpoints>\n")
	}
	b.WriteString("</Markup>\n")
	return b.String()
}

// PerspectiveVisInfo renders a .bcfv document with a perspective camera.
func PerspectiveVisInfo(guid string, pos, dir, up [3]float64, fov float64, selected ...string) string {
	return visInfo(guid, fmt.Sprintf(`  <PerspectiveCamera>
%s    <FieldOfView>%g</FieldOfView>
  </PerspectiveCamera>
`, cameraBody(pos, dir, up), fov), selected)
}

// OrthogonalVisInfo renders a .bcfv document with an orthogonal camera.
func OrthogonalVisInfo(guid string, pos, dir, up [3]float64, scale float64, selected ...string) string {
	return visInfo(guid, fmt.Sprintf(`  <OrthogonalCamera>
%s    <ViewToWorldScale>%g</ViewToWorldScale>
  </OrthogonalCamera>
`, cameraBody(pos, dir, up), scale), selected)
}

// EmptyVisInfo renders a .bcfv document without a camera.
func EmptyVisInfo(guid string, selected ...string) string {
	return visInfo(guid, "", selected)
}

func visInfo(guid, camera string, selected []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, "<VisualizationInfo Guid=%q>\n", guid)
	if len(selected) > 0 {
		b.WriteString("  <Components>\n    <Selection>\n")
		for _, s := range selected {
			fmt.Fprintf(&b, "      <Component IfcGuid=%q/>\n", s)
		}
		b.WriteString("    </Selection>\n  </Components>\n")
	}
	b.WriteString(camera)
	b.WriteString("</VisualizationInfo>\n")
	return b.String()
}

func cameraBody(pos, dir, up [3]float64) string {
	return fmt.Sprintf(`    <CameraViewPoint><X>%g</X><Y>%g</Y><Z>%g</Z></CameraViewPoint>
    <CameraDirection><X>%g</X><Y>%g</Y><Z>%g</Z></CameraDirection>
    <CameraUpVector><X>%g</X><Y>%g</Y><Z>%g</Z></CameraUpVector>
`, pos[0], pos[1], pos[2], dir[0], dir[1], dir[2], up[0], up[1], up[2])
}

// Scenario writes the reference archive: version 2.1, one topic "Leak" in
// topic1/ labelled "MEP" and "Plumbing" with one comment and one
// perspective viewpoint with a snapshot.
// withSnapshot=false omits the snapshot entry.
func Scenario(t *testing.T, dir, name string, withSnapshot bool) string {
	t.Helper()

	files := []File{
		Text("bcf.version", Version("2.1", "2.1 KUBUS")),
		Text("topic1/markup.bcf", Markup(
			&Topic{GUID: "t1", Title: "Leak", Index: "1", Status: "Open", Labels: []string{"MEP", "Plumbing"}},
			[]Comment{{GUID: "c1", Date: "2024-03-02T09:30:00Z", Author: "alice", Text: "check this", ViewpointGUID: "v1"}},
			[]Viewpoint{{GUID: "v1", File: "v1.bcfv", Snapshot: "snapshot.png"}},
		)),
		Text("topic1/v1.bcfv", PerspectiveVisInfo("v1", [3]float64{1, 2, 3}, [3]float64{0, 0, -1}, [3]float64{0, 1, 0}, 55, "2O2Fr$t4X7Zf8NOew3FLOH")),
	}
	if withSnapshot {
		files = append(files, File{Name: "topic1/snapshot.png", Data: PNG(t, 4, 3)})
	}
	return WriteZip(t, dir, name, files...)
}
