package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bcfview/bcfview/internal/bcftest"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("bcfview %s: %v\n%s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func TestCLISessionFlow(t *testing.T) {
	t.Setenv("BCFVIEW_DIR", t.TempDir())
	t.Setenv("BCFVIEW_LOG_LEVEL", "")
	dir := t.TempDir()
	a := bcftest.Scenario(t, dir, "A.bcfzip", true)
	b := bcftest.Scenario(t, dir, "B.bcfzip", false)

	if out := run(t, "load", a); !strings.Contains(out, "Loaded A (BCF 2.1, 1 topics, 1 viewpoint)") {
		t.Fatalf("unexpected load output: %q", out)
	}
	run(t, "append", b)

	var shown showOutput
	if err := json.Unmarshal([]byte(run(t, "show", "--format", "json")), &shown); err != nil {
		t.Fatalf("parse show output: %v", err)
	}
	if len(shown.Files) != 2 || shown.Files[1].Name != "B" || len(shown.Topics) != 2 {
		t.Fatalf("unexpected show output: %+v", shown)
	}

	if out := run(t, "show"); !strings.Contains(out, "Leak") {
		t.Fatalf("table output is missing the topic title: %q", out)
	}

	out := run(t, "topic", "1")
	if !strings.Contains(out, "check this") || !strings.Contains(out, "Status:      Open") ||
		!strings.Contains(out, "Labels:      MEP Plumbing") {
		t.Fatalf("unexpected topic output: %q", out)
	}

	out = run(t, "camera", "1", "--unit", "mm")
	if !strings.Contains(out, "Field :\t55.0°") || !strings.Contains(out, "1000.000,\t2000.000,\t3000.000 (mm)") ||
		!strings.Contains(out, "Image:     png 4x3 (ratio 0.75)") {
		t.Fatalf("unexpected camera output: %q", out)
	}

	exportDir := filepath.Join(t.TempDir(), "out")
	if out := run(t, "export", exportDir); !strings.Contains(out, "Exported 3 files") {
		t.Fatalf("unexpected export output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(exportDir, "A", "1_t1", "v1.png")); err != nil {
		t.Fatalf("snapshot not exported: %v", err)
	}
	if out := run(t, "export", exportDir, "--verify"); !strings.Contains(out, "3 files verified") {
		t.Fatalf("unexpected verify output: %q", out)
	}

	run(t, "remove", "0")
	if err := json.Unmarshal([]byte(run(t, "show", "--format", "json")), &shown); err != nil {
		t.Fatalf("parse show output: %v", err)
	}
	if len(shown.Files) != 1 || shown.Files[0].Name != "B" || shown.Files[0].Index != 0 {
		t.Fatalf("unexpected files after remove: %+v", shown.Files)
	}

	run(t, "clear")
	if err := json.Unmarshal([]byte(run(t, "show", "--format", "json")), &shown); err != nil {
		t.Fatalf("parse show output: %v", err)
	}
	if len(shown.Files) != 0 {
		t.Fatalf("expected an empty session, got %+v", shown.Files)
	}
}

func TestCLISessionSurvivesDirectoryChange(t *testing.T) {
	t.Setenv("BCFVIEW_DIR", t.TempDir())
	t.Setenv("BCFVIEW_LOG_LEVEL", "")
	dir := t.TempDir()
	bcftest.Scenario(t, dir, "A.bcfzip", true)

	countFiles := func() int {
		var shown showOutput
		if err := json.Unmarshal([]byte(run(t, "show", "--format", "json")), &shown); err != nil {
			t.Fatalf("parse show output: %v", err)
		}
		return len(shown.Files)
	}

	t.Chdir(dir)
	run(t, "load", "A.bcfzip")
	if n := countFiles(); n != 1 {
		t.Fatalf("expected 1 file after load, got %d", n)
	}

	t.Chdir(t.TempDir())
	if n := countFiles(); n != 1 {
		t.Fatalf("expected 1 file from another directory, got %d", n)
	}

	t.Chdir(dir)
	if n := countFiles(); n != 1 {
		t.Fatalf("expected 1 file back in the load directory, got %d", n)
	}
}

func TestCLIRejectsUnknownFormat(t *testing.T) {
	t.Setenv("BCFVIEW_DIR", t.TempDir())

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"show", "--format", "xml"})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestWrapString(t *testing.T) {
	if got := wrapString("abcdef", 4); got != "abcd\nef" {
		t.Fatalf("wrapString = %q", got)
	}
	if got := wrapString("日本語", 4); got != "日本\n語" {
		t.Fatalf("wrapString = %q", got)
	}
	if got := wrapString("short", 10); got != "short" {
		t.Fatalf("wrapString = %q", got)
	}
}
