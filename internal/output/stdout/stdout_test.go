package stdout

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/hejijunhao/logsentry/internal/output"
)

func testReport() output.Report {
	return output.Report{
		ID:          "id-1",
		GeneratedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Content:     "summary text",
	}
}

// captureStdout redirects os.Stdout to capture output.
func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestOutputText(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.Text)
		out.Write(context.Background(), testReport())
	})

	if !strings.Contains(result, "SECURITY LOG SUMMARY REPORT") {
		t.Fatalf("missing banner: %q", result)
	}
	if !strings.Contains(result, "summary text") {
		t.Fatalf("missing content: %q", result)
	}
}

func TestOutputJSON(t *testing.T) {
	result := captureStdout(func() {
		out := New(output.JSON)
		out.Write(context.Background(), testReport())
	})

	var env output.Envelope
	if err := json.Unmarshal([]byte(result), &env); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if env.Content != "summary text" || env.ReportID != "id-1" {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestCloseIsNoop(t *testing.T) {
	if err := New(output.Text).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
