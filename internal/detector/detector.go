package detector

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// burstSize is the number of consecutive "Failed password" entries that
// make a brute-force finding.
const burstSize = 3

var (
	userRe        = regexp.MustCompile(`(?:user|username)=(\S+)`)
	sshdUserRe    = regexp.MustCompile(`for (?:invalid user )?(\S+) from`)
	invalidUserRe = regexp.MustCompile(`Invalid user (\S+)`)
	ipv4Re        = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

// Detector turns an ordered entry sequence into severity-ranked findings.
// It performs no I/O and is safe for concurrent use.
type Detector struct {
	rules map[string]Rule
}

// New creates a Detector from a rule catalog. Types missing from rules fall
// back to the built-in catalog.
func New(rules []Rule) *Detector {
	d := &Detector{rules: make(map[string]Rule)}
	for _, r := range DefaultRules() {
		d.rules[r.Type] = r
	}
	for _, r := range rules {
		d.rules[r.Type] = r
	}
	return d
}

// Default creates a Detector with the built-in catalog.
func Default() *Detector {
	return New(nil)
}

// Analyze applies every rule to entries and returns the findings sorted by
// severity, highest first. Findings of equal severity keep detection order.
//
// The scan is an explicit index walk: when a brute-force burst is found at
// index i the cursor jumps to i+3, so the second and third entries of the
// burst do not produce their own failed-login findings.
func (d *Detector) Analyze(entries []model.LogEntry) []model.SecurityEvent {
	var events []model.SecurityEvent

	for i := 0; i < len(entries); {
		e := entries[i]
		advance := 1

		if ev, ok := d.failedLogin(e); ok {
			events = append(events, ev)
			if isBurst(entries, i) {
				events = append(events, d.bruteForce(e))
				advance = burstSize
			}
		}
		if ev, ok := d.privilegeEscalation(e); ok {
			events = append(events, ev)
		}
		if ev, ok := d.invalidUser(e); ok {
			events = append(events, ev)
		}
		if ev, ok := d.windowsSecurityEvent(e); ok {
			events = append(events, ev)
		}

		i += advance
	}

	slices.SortStableFunc(events, func(a, b model.SecurityEvent) int {
		return cmp.Compare(b.Severity, a.Severity)
	})
	return events
}

// isBurst reports whether entries[i:i+burstSize] all contain "Failed password".
func isBurst(entries []model.LogEntry, i int) bool {
	if i+burstSize > len(entries) {
		return false
	}
	for _, e := range entries[i : i+burstSize] {
		if !strings.Contains(e.Message, "Failed password") {
			return false
		}
	}
	return true
}

func (d *Detector) failedLogin(e model.LogEntry) (model.SecurityEvent, bool) {
	if !strings.Contains(e.Message, "authentication failure") && !strings.Contains(e.Message, "Failed password") {
		return model.SecurityEvent{}, false
	}
	desc := "Failed login attempt"
	if u := userOf(e); u != "" {
		desc += " for user=" + u
	}
	if ip := sourceIPOf(e); ip != "" {
		desc += " from " + ip
	}
	return d.event(TypeFailedLogin, desc, 0), true
}

func (d *Detector) bruteForce(first model.LogEntry) model.SecurityEvent {
	desc := fmt.Sprintf("Possible brute force attack: %d consecutive failed password attempts", burstSize)
	if ip := sourceIPOf(first); ip != "" {
		desc += " from " + ip
	}
	return d.event(TypeBruteForce, desc, 0)
}

func (d *Detector) privilegeEscalation(e model.LogEntry) (model.SecurityEvent, bool) {
	if !strings.Contains(e.Message, "sudo") || !strings.Contains(e.Message, "failed") {
		return model.SecurityEvent{}, false
	}
	desc := "Failed sudo attempt"
	if u := userOf(e); u != "" {
		desc += " by user=" + u
	}
	return d.event(TypePrivilegeEscalation, desc, 0), true
}

func (d *Detector) invalidUser(e model.LogEntry) (model.SecurityEvent, bool) {
	m := invalidUserRe.FindStringSubmatch(e.Message)
	if m == nil {
		return model.SecurityEvent{}, false
	}
	desc := "Login attempt for unknown account " + m[1]
	if ip := sourceIPOf(e); ip != "" {
		desc += " from " + ip
	}
	return d.event(TypeInvalidUser, desc, 0), true
}

// windowsSecurityEvent flags well-known Security-channel ids on Windows
// event entries and on CSV rows whose id came from an event-id column. Ids
// recovered from message text, such as "sshd[4625]", are process ids.
func (d *Detector) windowsSecurityEvent(e model.LogEntry) (model.SecurityEvent, bool) {
	switch e.Detail(model.DetailLogFormat) {
	case model.FormatWindowsEvent.String():
	case model.FormatCSV.String():
		if e.Detail(model.DetailEventIDColumn) == "" {
			return model.SecurityEvent{}, false
		}
	default:
		return model.SecurityEvent{}, false
	}
	typ, ok := windowsRuleTypes[e.EventID]
	if !ok {
		return model.SecurityEvent{}, false
	}

	desc := fmt.Sprintf("Windows event %d", e.EventID)
	if e.Host != "" {
		desc += " on " + e.Host
	}
	if u := userOf(e); u != "" {
		desc += " for user=" + u
	}
	if ip := sourceIPOf(e); ip != "" {
		desc += " from " + ip
	}

	severity := 0
	if s, err := strconv.Atoi(e.Detail(model.DetailSeverity)); err == nil {
		severity = s
	}
	return d.event(typ, desc, severity), true
}

// event builds a finding from the catalog. A non-zero severity overrides the
// catalog value; the result is clamped to the valid range.
func (d *Detector) event(typ, desc string, severity int) model.SecurityEvent {
	r := d.rules[typ]
	if severity == 0 {
		severity = r.Severity
	}
	return model.SecurityEvent{
		Type:           typ,
		Description:    desc,
		Severity:       min(max(severity, model.MinSeverity), model.MaxSeverity),
		Recommendation: r.Recommendation,
	}
}

func userOf(e model.LogEntry) string {
	if m := userRe.FindStringSubmatch(e.Message); m != nil {
		return m[1]
	}
	if m := sshdUserRe.FindStringSubmatch(e.Message); m != nil {
		return m[1]
	}
	return e.Detail(model.DetailUser)
}

func sourceIPOf(e model.LogEntry) string {
	if ip := ipv4Re.FindString(e.Message); ip != "" {
		return ip
	}
	return e.Detail(model.DetailSourceIP)
}
