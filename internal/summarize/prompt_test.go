package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hejijunhao/logsentry/internal/model"
)

func finding(typ string, sev int, desc string) model.SecurityEvent {
	return model.SecurityEvent{Type: typ, Severity: sev, Description: desc, Recommendation: "act"}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("one"))
	assert.Equal(t, 13, EstimateTokens("a b c d e f g h i j"))
}

func TestCollapse(t *testing.T) {
	events := []model.SecurityEvent{
		finding("A", 3, "x"),
		finding("B", 3, "y"),
		finding("A", 3, "x"),
		finding("A", 3, "z"),
		finding("A", 3, "x"),
	}
	groups := Collapse(events)
	require.Len(t, groups, 3)
	assert.Equal(t, "x", groups[0].Event.Description)
	assert.Equal(t, 3, groups[0].Count)
	assert.Equal(t, "y", groups[1].Event.Description)
	assert.Equal(t, 1, groups[1].Count)
	assert.Equal(t, "z", groups[2].Event.Description)

	assert.Nil(t, Collapse(nil))
}

func TestEventsPrompt(t *testing.T) {
	events := []model.SecurityEvent{
		finding("Brute Force Attempt", 5, "burst from 10.0.0.5"),
		finding("Failed Login Attempt", 3, "Failed login attempt"),
		finding("Failed Login Attempt", 3, "Failed login attempt"),
	}
	p := EventsPrompt(events, model.EventTally{Login: 1, Other: 2}, 0)

	assert.True(t, strings.HasPrefix(p, "You are a cybersecurity analyst assistant."))
	assert.Contains(t, p, "1. Critical security events (severity 4-5)")
	assert.Contains(t, p, "Event counts: login=1 failed_attempt=0 error=0 warning=0 other=2")
	assert.Contains(t, p, "Type: Brute Force Attempt\nSeverity: 5/5\nDescription: burst from 10.0.0.5\nInitial Recommendation: act\n-----\n")
	assert.Contains(t, p, "Occurrences: 2")
	assert.Equal(t, 1, strings.Count(p, "Type: Failed Login Attempt"))
	assert.Less(t, strings.Index(p, "Brute Force"), strings.Index(p, "Failed Login"))
}

func TestEventsPromptBudget(t *testing.T) {
	var events []model.SecurityEvent
	for i := 0; i < 50; i++ {
		events = append(events, finding("T", 3, strings.Repeat("w", i+1)))
	}

	full := EventsPrompt(events, model.EventTally{}, 0)
	capped := EventsPrompt(events, model.EventTally{}, 200)
	assert.Less(t, len(capped), len(full))
	assert.Contains(t, capped, "more findings omitted")
	assert.Contains(t, capped, "Description: w\n", "first finding always kept")
	assert.NotContains(t, full, "omitted")
}

func TestThreatPrompt(t *testing.T) {
	p := ThreatPrompt([]model.LogEntry{
		{Timestamp: "Mar 10 10:00:00", Host: "h", Service: "sshd", Message: "Failed password"},
		{Message: "raw line"},
	})
	assert.True(t, strings.HasPrefix(p, "You are a cybersecurity analyst. Analyze the following log entries"))
	assert.Contains(t, p, "Log entries:\n1. Mar 10 10:00:00 h sshd: Failed password\n2. raw line\n")
}
