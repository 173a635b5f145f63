package model

// NoEventID marks a LogEntry whose record carried no numeric identifier.
const NoEventID = -1

// LogEntry is the normalized form of one source record, produced by a format
// extractor. Fields hold source text verbatim; Timestamp is not converted to a
// clock type because syslog and CSV exports rarely carry enough context (year,
// zone) to do so reliably.
type LogEntry struct {
	Timestamp          string            `json:"timestamp"`
	Host               string            `json:"host"`
	Service            string            `json:"service"`
	Message            string            `json:"message"`
	EventID            int               `json:"event_id"`
	IsSecurityRelevant bool              `json:"is_security_relevant"`
	Details            map[string]string `json:"details,omitempty"`
}

// Detail returns the named sub-field, or "" when absent.
func (e LogEntry) Detail(key string) string {
	return e.Details[key]
}

// Well-known Details keys.
const (
	DetailSourceIP  = "source_ip"
	DetailUser      = "user"
	DetailPID       = "pid"
	DetailLogFormat = "log_format"
	DetailSeverity  = "severity"

	// DetailEventIDColumn names the CSV column an event id was read from.
	// It is absent when the id came from the message text.
	DetailEventIDColumn = "event_id_column"
)
