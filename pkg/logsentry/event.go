package logsentry

// Entry is one normalized log record.
type Entry struct {
	Timestamp          string            `json:"timestamp"` // source text, not converted
	Host               string            `json:"host"`
	Service            string            `json:"service"`
	Message            string            `json:"message"`
	EventID            int               `json:"event_id"` // -1 when absent
	IsSecurityRelevant bool              `json:"is_security_relevant"`
	Details            map[string]string `json:"details,omitempty"`
}

// Finding is a detected security event.
type Finding struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	Severity       int    `json:"severity"` // 1 (low) to 5 (critical)
	Recommendation string `json:"recommendation"`
}

// Stats counts records seen, parsed and skipped in one source.
type Stats struct {
	Records int `json:"records"`
	Parsed  int `json:"parsed"`
	Skipped int `json:"skipped"`
}
