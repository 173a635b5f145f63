package model

import "strings"

// Format identifies the layout of a log source.
type Format int

const (
	FormatUnknown Format = iota
	FormatSyslog
	FormatWindowsEvent
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatSyslog:
		return "syslog"
	case FormatWindowsEvent:
		return "windows"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// ParseFormat maps a user-supplied name to a Format. "auto" and "" map to
// FormatUnknown, meaning the caller should detect the format from content.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatUnknown, true
	case "syslog", "log":
		return FormatSyslog, true
	case "windows", "windows-event", "evtx", "xml":
		return FormatWindowsEvent, true
	case "csv":
		return FormatCSV, true
	default:
		return FormatUnknown, false
	}
}
