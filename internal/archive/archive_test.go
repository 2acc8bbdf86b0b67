package archive_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcfview/bcfview/internal/archive"
	"github.com/bcfview/bcfview/internal/bcftest"
)

func TestOpenMissingFile(t *testing.T) {
	_, err := archive.Open(filepath.Join(t.TempDir(), "missing.bcfzip"))
	if !errors.Is(err, archive.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.bcf")
	if err := os.WriteFile(path, []byte("this is not a zip archive at all"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	_, err := archive.Open(path)
	if !errors.Is(err, archive.ErrNotAZip) {
		t.Fatalf("expected ErrNotAZip, got %v", err)
	}
}

func TestEntriesAndLookup(t *testing.T) {
	path := bcftest.WriteZip(t, t.TempDir(), "a.bcfzip",
		bcftest.Text("bcf.version", "v"),
		bcftest.Text("Topic/MARKUP.BCF", "m1"),
		bcftest.Text("other/markup.bcf", "m2"),
		bcftest.Text("other/viewpoint.bcfv", "vp"),
	)

	r, err := archive.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Fatalf("Close error: %v", err)
		}
	})

	entries := r.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[1].Name() != "Topic/MARKUP.BCF" {
		t.Fatalf("entries not in archive order: %s", entries[1].Name())
	}

	var markups []string
	for _, e := range entries {
		if e.HasSuffixFold("markup.bcf") {
			markups = append(markups, e.Folder())
		}
	}
	if len(markups) != 2 || markups[0] != "Topic/" || markups[1] != "other/" {
		t.Fatalf("unexpected markup folders: %v", markups)
	}

	if r.Has("topic/markup.bcf") {
		t.Fatalf("exact lookup must be case-sensitive")
	}
	if !r.Has("other/viewpoint.bcfv") {
		t.Fatalf("expected viewpoint.bcfv entry")
	}

	data, ok, err := r.Read("other/viewpoint.bcfv")
	if err != nil || !ok || string(data) != "vp" {
		t.Fatalf("Read = %q, %v, %v", data, ok, err)
	}

	_, ok, err = r.Read("other/snapshot.png")
	if ok || err != nil {
		t.Fatalf("expected missing entry without error, got ok=%v err=%v", ok, err)
	}

	e, ok := r.Entry("bcf.version")
	if !ok {
		t.Fatalf("expected bcf.version entry")
	}
	rc, err := e.Open()
	if err != nil {
		t.Fatalf("Open entry: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil || string(content) != "v" {
		t.Fatalf("unexpected stream content %q, err %v", content, err)
	}
	if e.Folder() != "" {
		t.Fatalf("root entry folder should be empty, got %q", e.Folder())
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	path := bcftest.WriteZip(t, t.TempDir(), "a.bcf", bcftest.Text("bcf.version", "v"))
	r, err := archive.Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestFolder(t *testing.T) {
	cases := map[string]string{
		"markup.bcf":            "",
		"a/markup.bcf":          "a/",
		"a/b/c/markup.bcf":      "a/b/c/",
		"weird/name/":           "weird/name/",
		"no-slash-snapshot.png": "",
	}
	for in, want := range cases {
		if got := archive.Folder(in); got != want {
			t.Fatalf("Folder(%q) = %q, want %q", in, got, want)
		}
	}
}
