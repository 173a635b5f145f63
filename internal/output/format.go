package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Format selects how a Report is serialized.
type Format int

const (
	Text Format = iota
	JSON
)

var formatNames = map[Format]string{
	Text: "text",
	JSON: "json",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return "unknown"
}

// ParseFormat maps "text" or "json" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return Text, fmt.Errorf("output: unknown report format %q (want text or json)", s)
}

const (
	ReportType = "security_log_summary"

	banner     = "=================================================="
	timeLayout = "2006-01-02 15:04:05"
)

// Envelope is the JSON form of a Report.
type Envelope struct {
	ReportType     string                `json:"report_type"`
	GenerationDate int64                 `json:"generation_date"`
	Content        string                `json:"content"`
	ReportID       string                `json:"report_id"`
	Source         string                `json:"source,omitempty"`
	LogFormat      string                `json:"log_format,omitempty"`
	Degraded       bool                  `json:"degraded,omitempty"`
	Findings       []model.SecurityEvent `json:"findings"`
	Stats          EnvelopeStats         `json:"stats"`
}

// EnvelopeStats carries the parse counters and the event tally.
type EnvelopeStats struct {
	model.ParseStats
	Tally model.EventTally `json:"tally"`
}

// NewEnvelope converts r to its JSON form. Findings is never null.
func NewEnvelope(r Report) Envelope {
	findings := r.Findings
	if findings == nil {
		findings = []model.SecurityEvent{}
	}
	return Envelope{
		ReportType:     ReportType,
		GenerationDate: r.GeneratedAt.Unix(),
		Content:        r.Content,
		ReportID:       r.ID,
		Source:         r.Source,
		LogFormat:      r.LogFormat,
		Degraded:       r.Degraded,
		Findings:       findings,
		Stats:          EnvelopeStats{ParseStats: r.Stats, Tally: r.Tally},
	}
}

// Render writes r to w in the given format.
func Render(w io.Writer, r Report, f Format) error {
	switch f {
	case JSON:
		return RenderJSON(w, r)
	default:
		return RenderText(w, r)
	}
}

// RenderText writes the console report: banner, generation time in local
// time, content, and a closing banner.
func RenderText(w io.Writer, r Report) error {
	var b strings.Builder
	b.WriteString(banner + "\n")
	b.WriteString("SECURITY LOG SUMMARY REPORT\n")
	fmt.Fprintf(&b, "Generated on: %s\n", r.GeneratedAt.Format(timeLayout))
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: %s (%s)\n", r.Source, r.LogFormat)
	}
	b.WriteString(banner + "\n\n")
	b.WriteString(r.Content)
	if !strings.HasSuffix(r.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("\n" + banner + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(banner + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderJSON writes the indented envelope followed by a newline.
func RenderJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewEnvelope(r))
}
