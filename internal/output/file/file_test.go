package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hejijunhao/logsentry/internal/output"
)

func testReport(content string) output.Report {
	return output.Report{
		ID:          "id-1",
		GeneratedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Content:     content,
	}
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	out, err := New(path, output.Text)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := out.Write(context.Background(), testReport("hello")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "SECURITY LOG SUMMARY REPORT") || !strings.Contains(string(data), "hello") {
		t.Fatalf("unexpected file content:\n%s", data)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out, err := New(path, output.JSON)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	out.Write(context.Background(), testReport("hello"))
	out.Close()

	data, _ := os.ReadFile(path)
	var env output.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if env.ReportType != output.ReportType || env.Content != "hello" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestTruncatesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte(strings.Repeat("old report\n", 100)), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path, output.Text)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	out.Write(context.Background(), testReport("new"))
	out.Close()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "old report") {
		t.Fatal("previous content should be truncated")
	}
}

func TestCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "report.txt")
	out, err := New(path, output.Text)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	out.Write(context.Background(), testReport("x"))
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if out.Path() != path {
		t.Errorf("Path() = %q", out.Path())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
}

func TestOpenError(t *testing.T) {
	dir := t.TempDir()
	// A directory cannot be opened for writing.
	if _, err := New(dir, output.Text); err == nil {
		t.Fatal("expected error opening a directory")
	}
}

func TestUnwrittenOutputLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("previous report"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := New(path, output.Text)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "previous report" {
		t.Fatalf("file changed: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the report in %s, found %d entries", dir, len(entries))
	}
}

func TestReplacesOnlyOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("previous report"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _ := New(path, output.Text)
	out.Write(context.Background(), testReport("new"))

	data, _ := os.ReadFile(path)
	if string(data) != "previous report" {
		t.Fatalf("file replaced before Close: %q", data)
	}

	out.Close()
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o644 {
		t.Errorf("mode = %v, want 0644", fi.Mode().Perm())
	}
}
