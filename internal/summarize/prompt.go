package summarize

import (
	"fmt"
	"math"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

const eventsPreamble = `You are a cybersecurity analyst assistant. Below are security events detected in system logs.
Generate a concise security report with the following sections:
1. Critical security events (severity 4-5)
2. Warning events (severity 2-3)
3. Recommendations for each finding

Format the output with clear headings and bullet points.
Focus on actionable insights for a SOC team.
`

const threatPreamble = `You are a cybersecurity analyst. Analyze the following log entries and provide:
1. A summary of potential security issues
2. Severity assessment (Low, Medium, High, Critical)
3. Recommended actions

Log entries:
`

// EstimateTokens returns an approximate token count: whitespace-separated
// words times 1.3, rounded up.
func EstimateTokens(s string) int {
	if s == "" {
		return 0
	}
	words := len(strings.Fields(s))
	return int(math.Ceil(float64(words) * 1.3))
}

// Group is a finding together with the number of identical findings it stands for.
type Group struct {
	Event model.SecurityEvent
	Count int
}

// Collapse merges findings with identical type, severity and description.
// Groups are returned in first-occurrence order.
func Collapse(events []model.SecurityEvent) []Group {
	if len(events) == 0 {
		return nil
	}
	index := make(map[model.SecurityEvent]int)
	var groups []Group
	for _, e := range events {
		key := model.SecurityEvent{Type: e.Type, Severity: e.Severity, Description: e.Description}
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, Group{Event: e, Count: 1})
	}
	return groups
}

func formatGroup(g Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Type: %s\n", g.Event.Type)
	fmt.Fprintf(&b, "Severity: %d/5\n", g.Event.Severity)
	fmt.Fprintf(&b, "Description: %s\n", g.Event.Description)
	if g.Count > 1 {
		fmt.Fprintf(&b, "Occurrences: %d\n", g.Count)
	}
	if g.Event.Recommendation != "" {
		fmt.Fprintf(&b, "Initial Recommendation: %s\n", g.Event.Recommendation)
	}
	b.WriteString("-----\n")
	return b.String()
}

func formatTally(t model.EventTally) string {
	return fmt.Sprintf("Event counts: login=%d failed_attempt=%d error=%d warning=%d other=%d\n",
		t.Login, t.FailedAttempt, t.Error, t.Warning, t.Other)
}

// EventsPrompt builds the analyst prompt for ranked findings. Identical
// findings are collapsed; when maxTokens is positive, findings past the
// budget are dropped and the number omitted is noted.
func EventsPrompt(events []model.SecurityEvent, tally model.EventTally, maxTokens int) string {
	var b strings.Builder
	b.WriteString(eventsPreamble)
	if tally.Total() > 0 {
		b.WriteString("\n")
		b.WriteString(formatTally(tally))
	}
	b.WriteString("\nSecurity Events:\n")

	used := EstimateTokens(b.String())
	groups := Collapse(events)
	for i, g := range groups {
		block := formatGroup(g)
		cost := EstimateTokens(block)
		if maxTokens > 0 && i > 0 && used+cost > maxTokens {
			fmt.Fprintf(&b, "(%d more findings omitted)\n", len(groups)-i)
			break
		}
		b.WriteString(block)
		used += cost
	}
	return b.String()
}

// ThreatPrompt builds a prompt from raw entries, numbered from 1.
func ThreatPrompt(entries []model.LogEntry) string {
	var b strings.Builder
	b.WriteString(threatPreamble)
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, entryLine(e))
	}
	return b.String()
}

func entryLine(e model.LogEntry) string {
	parts := make([]string, 0, 4)
	for _, s := range []string{e.Timestamp, e.Host, e.Service} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return e.Message
	}
	return strings.Join(parts, " ") + ": " + e.Message
}
