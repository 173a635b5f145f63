package model

// Severity bounds for SecurityEvent.Severity. Higher is more urgent.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// SecurityEvent is a ranked finding derived from one or more log entries.
// It does not reference the entries it came from.
type SecurityEvent struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	Severity       int    `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// IsZero reports whether e is the "no finding" sentinel.
func (e SecurityEvent) IsZero() bool {
	return e.Type == ""
}
