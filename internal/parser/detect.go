package parser

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

var syslogLineRe = regexp.MustCompile(`(?m)^[A-Za-z]{3}\s+\d{1,2}\s\d{2}:\d{2}:\d{2}\s\S+`)

// Detect classifies content as Windows-Event XML, syslog, or unknown.
// XML markers are checked first: an XML export can contain syslog-looking
// text inside its payloads. CSV is never detected from content.
func Detect(content string) model.Format {
	if strings.Contains(content, "<Event xmlns=") ||
		strings.Contains(content, "<Events>") ||
		strings.Contains(content, "<Event") {
		return model.FormatWindowsEvent
	}
	if syslogLineRe.MatchString(content) {
		return model.FormatSyslog
	}
	return model.FormatUnknown
}

// FormatForPath maps a file extension to a format. Extensions that do not
// pin the layout (".log", ".txt", none) return FormatUnknown so that the
// caller falls back to Detect.
func FormatForPath(path string) model.Format {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".gz")))
	switch ext {
	case ".csv":
		return model.FormatCSV
	case ".evtx", ".xml":
		return model.FormatWindowsEvent
	default:
		return model.FormatUnknown
	}
}

// Resolve picks the format to parse with: an explicit choice wins, then the
// file extension, then content detection.
func Resolve(explicit model.Format, path, content string) model.Format {
	if explicit != model.FormatUnknown {
		return explicit
	}
	if f := FormatForPath(path); f != model.FormatUnknown {
		return f
	}
	return Detect(content)
}
