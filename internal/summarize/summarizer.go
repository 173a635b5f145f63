package summarize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// NoEventsReport is the report text when there is nothing to summarize.
const NoEventsReport = "No security events found in the logs.\n"

// Summary is the outcome of a Report call.
type Summary struct {
	Content string
	// Degraded is set when the client failed and Content is the fallback listing.
	Degraded bool
	// Err is the client failure behind a degraded summary.
	Err error
}

// Summarizer builds prompts, calls a Client and falls back to a plain
// listing when the client is unavailable.
type Summarizer struct {
	client    Client
	maxTokens int
}

// New creates a Summarizer. A nil client always produces the fallback.
// maxTokens bounds the findings section of the prompt; zero means unbounded.
func New(client Client, maxTokens int) *Summarizer {
	return &Summarizer{client: client, maxTokens: maxTokens}
}

// Report summarizes ranked findings. relevant is the security-relevant
// entry subset; when there are no findings but relevant entries exist, the
// raw entries are sent instead.
// Client failures, including deadline expiry, produce a degraded Summary;
// Report never fails.
func (s *Summarizer) Report(ctx context.Context, events []model.SecurityEvent, relevant []model.LogEntry, tally model.EventTally) Summary {
	var prompt string
	switch {
	case len(events) > 0:
		prompt = EventsPrompt(events, tally, s.maxTokens)
	case len(relevant) > 0:
		prompt = ThreatPrompt(relevant)
	default:
		return Summary{Content: NoEventsReport}
	}

	if s.client == nil {
		return Summary{Content: Fallback(events, relevant, tally, nil), Degraded: true}
	}

	text, err := s.client.Generate(ctx, prompt)
	if err == nil {
		return Summary{Content: text}
	}

	slog.Warn("summarization unavailable, using fallback report", "error", err)
	return Summary{Content: Fallback(events, relevant, tally, err), Degraded: true, Err: err}
}

// Fallback renders findings without a model: a notice, the tally, and one
// block per collapsed finding in rank order.
func Fallback(events []model.SecurityEvent, relevant []model.LogEntry, tally model.EventTally, cause error) string {
	var b strings.Builder
	b.WriteString("NOTE: AI summary unavailable")
	if cause != nil {
		fmt.Fprintf(&b, " (%v)", cause)
	}
	b.WriteString("; showing detected findings.\n\n")
	if tally.Total() > 0 {
		b.WriteString(formatTally(tally))
		b.WriteString("\n")
	}

	if len(events) == 0 {
		fmt.Fprintf(&b, "No findings. %d security-relevant entries:\n", len(relevant))
		for i, e := range relevant {
			fmt.Fprintf(&b, "%d. %s\n", i+1, entryLine(e))
		}
		return b.String()
	}

	for i, g := range Collapse(events) {
		fmt.Fprintf(&b, "%d. [severity %d] %s: %s", i+1, g.Event.Severity, g.Event.Type, g.Event.Description)
		if g.Count > 1 {
			fmt.Fprintf(&b, " (x%d)", g.Count)
		}
		b.WriteString("\n")
		if g.Event.Recommendation != "" {
			fmt.Fprintf(&b, "   Recommendation: %s\n", g.Event.Recommendation)
		}
	}
	return b.String()
}
