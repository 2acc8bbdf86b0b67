// Package export writes the snapshots and cameras of loaded archives to disk.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bcfview/bcfview/internal/bcf"
	"github.com/bcfview/bcfview/internal/host"
)

// ManifestName is the file listing everything an export wrote.
const ManifestName = "manifest.json"

// File is one written file.
type File struct {
	Path      string `json:"path"`
	Hash      string `json:"sha256"`
	Archive   string `json:"archive"`
	Topic     string `json:"topic"`
	Viewpoint string `json:"viewpoint"`
	Kind      string `json:"kind"`
}

// Manifest lists the files of one export. Paths are relative to Dir.
type Manifest struct {
	Dir   string `json:"-"`
	Files []File `json:"files"`
}

// Camera is the content of a *.camera.json file.
type Camera struct {
	Archive   string           `json:"archive"`
	Topic     string           `json:"topic"`
	Title     string           `json:"title"`
	Viewpoint string           `json:"viewpoint"`
	Summary   string           `json:"summary"`
	Move      *host.CameraMove `json:"camera,omitempty"`
	Selection []string         `json:"selection,omitempty"`
}

// Write exports every viewpoint of archives under dir and writes the
// manifest. Existing files with the same names are overwritten.
func Write(dir string, archives []*bcf.Archive) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	m := &Manifest{Dir: dir}
	for _, a := range archives {
		for _, mk := range a.SortedMarkups() {
			topicDir := TopicDir(a, mk)
			for _, vp := range mk.Viewpoints {
				if err := m.writeViewpoint(a, mk, vp, topicDir); err != nil {
					return nil, err
				}
			}
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0o600); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) writeViewpoint(a *bcf.Archive, mk *bcf.Markup, vp *bcf.Viewpoint, topicDir string) error {
	base := filepath.Join(topicDir, encodeName(vp.GUID()))

	if img := vp.Image(); img != nil {
		rel := base + "." + img.Format
		if err := m.save(rel, img.Data, File{Archive: a.Name, Topic: mk.Topic.GUID, Viewpoint: vp.GUID(), Kind: "snapshot"}); err != nil {
			return err
		}
	}

	cam := Camera{
		Archive:   a.Name,
		Topic:     mk.Topic.GUID,
		Title:     mk.Topic.Title,
		Viewpoint: vp.GUID(),
		Summary:   vp.Visualization().CameraText(),
	}
	if vi := vp.Visualization(); vi != nil {
		cam.Selection = vi.Selection
		if move, ok := host.FromVisualization(vi); ok {
			cam.Move = &move
		}
	}
	data, err := json.MarshalIndent(cam, "", "  ")
	if err != nil {
		return err
	}
	return m.save(base+".camera.json", data, File{Archive: a.Name, Topic: mk.Topic.GUID, Viewpoint: vp.GUID(), Kind: "camera"})
}

func (m *Manifest) save(rel string, data []byte, f File) error {
	path := filepath.Join(m.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	f.Path = filepath.ToSlash(rel)
	f.Hash = calculateHash(data)
	m.Files = append(m.Files, f)
	return nil
}

// TopicDir returns the directory of a topic relative to the export root:
// <archive>/<index>_<topic guid>.
func TopicDir(a *bcf.Archive, mk *bcf.Markup) string {
	return filepath.Join(
		encodeName(a.Name),
		strconv.Itoa(mk.Topic.Index)+"_"+encodeName(mk.Topic.GUID),
	)
}

// ReadManifest loads the manifest written to dir.
func ReadManifest(dir string) (*Manifest, error) {
	//nolint:gosec // G304: dir is chosen by the caller
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	m := &Manifest{Dir: dir}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	return m, nil
}

// Verify reports the manifest files that are missing or whose content no
// longer matches the recorded hash.
func (m *Manifest) Verify() ([]string, error) {
	var bad []string
	for _, f := range m.Files {
		ok, err := VerifyFile(filepath.Join(m.Dir, filepath.FromSlash(f.Path)), f.Hash)
		if err != nil {
			return nil, err
		}
		if !ok {
			bad = append(bad, f.Path)
		}
	}
	return bad, nil
}

// VerifyFile ensures the file exists and its SHA-256 hash matches the expected hash.
func VerifyFile(path, expectedHash string) (bool, error) {
	//nolint:gosec // G304: path comes from the manifest
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return calculateHash(content) == expectedHash, nil
}

func calculateHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// encodeName turns value into a single path element. PathEscape keeps dots,
// so the relative names "." and ".." are escaped by hand.
func encodeName(value string) string {
	switch value {
	case "":
		return "_"
	case ".", "..":
		return strings.Repeat("%2E", len(value))
	}
	return url.PathEscape(value)
}
