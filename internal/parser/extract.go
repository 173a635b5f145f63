package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

var (
	eventIDRe     = regexp.MustCompile(`(?i)event[_-]?id[_\-=:]?\s*(\d+)`)
	bracketedIDRe = regexp.MustCompile(`\[(\d+)\]`)
	ipv4Re        = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
	userRe        = regexp.MustCompile(`(?:user|username)=(\S+)`)
	xmlTagRe      = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// ExtractEventID returns the first "event id" number in message, falling back
// to a bracketed number such as a pid. It returns model.NoEventID when neither
// is present.
func ExtractEventID(message string) int {
	if m := eventIDRe.FindStringSubmatch(message); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			return id
		}
	}
	if m := bracketedIDRe.FindStringSubmatch(message); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			return id
		}
	}
	return model.NoEventID
}

// ExtractSourceIP returns the first IPv4 literal in s, or "".
func ExtractSourceIP(s string) string {
	return ipv4Re.FindString(s)
}

// ExtractUser returns the value of the first user= or username= pair in s, or "".
func ExtractUser(s string) string {
	if m := userRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// stripTags removes XML tags and collapses whitespace.
func stripTags(s string) string {
	s = xmlTagRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

// messageDetails collects the sub-fields shared by every format.
func messageDetails(message string, format model.Format) map[string]string {
	d := map[string]string{model.DetailLogFormat: format.String()}
	if ip := ExtractSourceIP(message); ip != "" {
		d[model.DetailSourceIP] = ip
	}
	if u := ExtractUser(message); u != "" {
		d[model.DetailUser] = u
	}
	return d
}

// newEntry builds a LogEntry, computing the derived fields once. It returns
// false when message is empty, since such records never enter the result.
func newEntry(timestamp, host, service, message string, eventID int, details map[string]string) (model.LogEntry, bool) {
	if strings.TrimSpace(message) == "" {
		return model.LogEntry{}, false
	}
	return model.LogEntry{
		Timestamp:          timestamp,
		Host:               host,
		Service:            service,
		Message:            message,
		EventID:            eventID,
		IsSecurityRelevant: IsSecurityRelevant(message),
		Details:            details,
	}, true
}
