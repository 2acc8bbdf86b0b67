package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/bcftest"
	"github.com/bcfview/bcfview/internal/loader"
)

func loadScenario(t *testing.T, withSnapshot bool) *bcf.Archive {
	t.Helper()
	a, err := loader.New().Load(bcftest.Scenario(t, t.TempDir(), "A.bcfzip", withSnapshot))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return a
}

func TestWriteSnapshotAndCamera(t *testing.T) {
	a := loadScenario(t, true)
	out := t.TempDir()

	m, err := Write(out, []*bcf.Archive{a})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(m.Files) != 2 {
		t.Fatalf("expected 2 files, got %#v", m.Files)
	}

	if m.Files[0].Path != "A/1_t1/v1.png" || m.Files[0].Kind != "snapshot" {
		t.Fatalf("unexpected snapshot entry: %#v", m.Files[0])
	}
	if m.Files[1].Path != "A/1_t1/v1.camera.json" || m.Files[1].Kind != "camera" {
		t.Fatalf("unexpected camera entry: %#v", m.Files[1])
	}

	png, err := os.ReadFile(filepath.Join(out, "A", "1_t1", "v1.png"))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if string(png) != string(a.Markups[0].Viewpoints[0].Image().Data) {
		t.Fatalf("snapshot bytes differ from the archive")
	}

	data, err := os.ReadFile(filepath.Join(out, "A", "1_t1", "v1.camera.json"))
	if err != nil {
		t.Fatalf("read camera: %v", err)
	}
	var cam Camera
	if err := json.Unmarshal(data, &cam); err != nil {
		t.Fatalf("parse camera: %v", err)
	}
	if cam.Title != "Leak" || cam.Move == nil || cam.Move.FieldOfView != 55 {
		t.Fatalf("unexpected camera file: %+v", cam)
	}
	if len(cam.Selection) != 1 || cam.Selection[0] != "2O2Fr$t4X7Zf8NOew3FLOH" {
		t.Fatalf("unexpected selection: %v", cam.Selection)
	}
}

func TestWriteWithoutSnapshot(t *testing.T) {
	a := loadScenario(t, false)

	m, err := Write(t.TempDir(), []*bcf.Archive{a})
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(m.Files) != 1 || m.Files[0].Kind != "camera" {
		t.Fatalf("expected only the camera file, got %#v", m.Files)
	}
}

func TestManifestVerify(t *testing.T) {
	a := loadScenario(t, true)
	out := t.TempDir()

	if _, err := Write(out, []*bcf.Archive{a}); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	m, err := ReadManifest(out)
	if err != nil {
		t.Fatalf("ReadManifest returned error: %v", err)
	}
	bad, err := m.Verify()
	if err != nil || len(bad) != 0 {
		t.Fatalf("fresh export should verify, got %v, %v", bad, err)
	}

	if err := os.WriteFile(filepath.Join(out, "A", "1_t1", "v1.png"), []byte("tampered"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Remove(filepath.Join(out, "A", "1_t1", "v1.camera.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	bad, err = m.Verify()
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if len(bad) != 2 {
		t.Fatalf("expected 2 bad files, got %v", bad)
	}
}

func TestTopicDirEscapesNames(t *testing.T) {
	a := &bcf.Archive{Name: "my file"}
	mk := &bcf.Markup{Topic: bcf.Topic{GUID: "a/b", Index: 3}}

	if got, want := TopicDir(a, mk), filepath.Join("my%20file", "3_a%2Fb"); got != want {
		t.Fatalf("TopicDir = %q, want %q", got, want)
	}

	dots := &bcf.Archive{Name: ".."}
	if got, want := TopicDir(dots, mk), filepath.Join("%2E%2E", "3_a%2Fb"); got != want {
		t.Fatalf("TopicDir = %q, want %q", got, want)
	}
	if got := encodeName("."); got != "%2E" {
		t.Fatalf("encodeName(.) = %q", got)
	}
}

func TestWriteStaysInsideRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	path := bcftest.Scenario(t, t.TempDir(), "A.bcfzip", true)
	a, err := loader.New().Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	a.Name = ".."

	m, err := Write(root, []*bcf.Archive{a})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, f := range m.Files {
		rel, err := filepath.Rel(root, filepath.Join(root, f.Path))
		if err != nil || strings.HasPrefix(rel, "..") {
			t.Fatalf("file %q written outside the export root", f.Path)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "%2E%2E", "1_t1", "v1.png")); err != nil {
		t.Fatalf("snapshot not under the escaped archive dir: %v", err)
	}
}
