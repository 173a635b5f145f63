package parser

import (
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Placeholders used when a record does not carry the field. Exports produced
// without the System block (or hand-trimmed ones) commonly omit all three.
const (
	windowsDefaultHost    = "localhost"
	windowsDefaultService = "Windows"
	windowsDefaultTime    = "N/A"
)

var (
	// recordStartRe matches "<Event>" and "<Event xmlns=...>" but not
	// <Events>, <EventData>, <EventID> or <EventRecordID>.
	recordStartRe = regexp.MustCompile(`<Event[\s>/]`)
	eventIDTagRe  = regexp.MustCompile(`<EventID[^>]*>\s*(\d+)\s*</EventID>`)
	computerRe    = regexp.MustCompile(`<Computer>\s*([^<]*?)\s*</Computer>`)
	providerRe    = regexp.MustCompile(`<Provider\s[^>]*Name=['"]([^'"]+)['"]`)
	timeCreatedRe = regexp.MustCompile(`<TimeCreated\s[^>]*SystemTime=['"]([^'"]+)['"]`)
	eventDataRe   = regexp.MustCompile(`(?s)<EventData>(.*?)</EventData>`)
	dataRe        = regexp.MustCompile(`(?s)<Data(\s[^>]*)?>(.*?)</Data>`)
	dataNameRe    = regexp.MustCompile(`Name=['"]([^'"]+)['"]`)
)

// windowsSeverity ranks well-known Security/System channel event ids.
var windowsSeverity = map[int]int{
	4625: 4, // failed logon
	4648: 5, // logon with explicit credentials
	4672: 4, // special privileges assigned
	6005: 2, // event log service started
	6006: 2, // event log service stopped
}

const defaultWindowsSeverity = 3

// WindowsSeverity returns the severity associated with a Windows event id.
func WindowsSeverity(eventID int) int {
	if s, ok := windowsSeverity[eventID]; ok {
		return s
	}
	return defaultWindowsSeverity
}

// namedDataDetails maps EventData field names onto entry detail keys.
var namedDataDetails = map[string]string{
	"TargetUserName":  model.DetailUser,
	"SubjectUserName": model.DetailUser,
	"IpAddress":       model.DetailSourceIP,
}

func init() {
	Register(model.FormatWindowsEvent, func(Options) Extractor {
		return &windowsExtractor{}
	})
}

type windowsExtractor struct{}

func (x *windowsExtractor) Extract(content string) (Result, error) {
	res := Result{Format: model.FormatWindowsEvent}
	records := splitRecords(content)
	if len(records) == 0 {
		return res, &FormatError{Format: model.FormatWindowsEvent, Reason: "no <Event> records found (binary EVTX is not supported)"}
	}

	for i, rec := range records {
		res.Stats.Records++
		entry, ok := parseWindowsRecord(rec)
		if !ok {
			slog.Debug("skipping record", "format", "windows", "record", i+1, "reason", "empty")
			res.skip(i+1, "record has no message text")
			continue
		}
		res.add(entry)
	}
	return res, nil
}

// splitRecords cuts content into one string per <Event> element. A record
// runs to its closing tag, or to the next record start when truncated.
func splitRecords(content string) []string {
	locs := recordStartRe.FindAllStringIndex(content, -1)
	records := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		rec := content[loc[0]:end]
		if j := strings.Index(rec, "</Event>"); j >= 0 {
			rec = rec[:j+len("</Event>")]
		}
		records = append(records, rec)
	}
	return records
}

func parseWindowsRecord(rec string) (model.LogEntry, bool) {
	details := map[string]string{}
	message := ""

	if m := eventDataRe.FindStringSubmatch(rec); m != nil {
		var parts []string
		for _, d := range dataRe.FindAllStringSubmatch(m[1], -1) {
			value := strings.TrimSpace(html.UnescapeString(d[2]))
			if value == "" || value == "-" {
				continue
			}
			parts = append(parts, value)
			if n := dataNameRe.FindStringSubmatch(d[1]); n != nil {
				if key, ok := namedDataDetails[n[1]]; ok && details[key] == "" {
					details[key] = value
				}
			}
		}
		message = strings.Join(parts, "; ")
	}
	if message == "" {
		message = html.UnescapeString(stripTags(rec))
	}

	eventID := model.NoEventID
	if m := eventIDTagRe.FindStringSubmatch(rec); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			eventID = id
		}
	}
	if eventID == model.NoEventID {
		eventID = ExtractEventID(message)
	}

	for k, v := range messageDetails(message, model.FormatWindowsEvent) {
		if details[k] == "" {
			details[k] = v
		}
	}
	details[model.DetailSeverity] = strconv.Itoa(WindowsSeverity(eventID))

	return newEntry(
		firstSubmatch(timeCreatedRe, rec, windowsDefaultTime),
		firstSubmatch(computerRe, rec, windowsDefaultHost),
		firstSubmatch(providerRe, rec, windowsDefaultService),
		message, eventID, details,
	)
}

func firstSubmatch(re *regexp.Regexp, s, fallback string) string {
	if m := re.FindStringSubmatch(s); m != nil && m[1] != "" {
		return m[1]
	}
	return fallback
}
