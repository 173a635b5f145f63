package detector

import (
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Tally buckets entries by the first of "login", "failed", "error" and
// "warning" found in the message. Matching is case-sensitive.
func Tally(entries []model.LogEntry) model.EventTally {
	var t model.EventTally
	for _, e := range entries {
		switch {
		case strings.Contains(e.Message, "login"):
			t.Login++
		case strings.Contains(e.Message, "failed"):
			t.FailedAttempt++
		case strings.Contains(e.Message, "error"):
			t.Error++
		case strings.Contains(e.Message, "warning"):
			t.Warning++
		default:
			t.Other++
		}
	}
	return t
}

// Relevant returns the security-relevant entries in order.
func Relevant(entries []model.LogEntry) []model.LogEntry {
	var out []model.LogEntry
	for _, e := range entries {
		if e.IsSecurityRelevant {
			out = append(out, e)
		}
	}
	return out
}
