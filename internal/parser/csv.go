package parser

import (
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

type csvRole int

const (
	roleEventID csvRole = iota
	roleTimestamp
	roleHost
	roleService
)

// csvRoleKeywords is checked in order; a header takes the first role whose
// keyword it contains and which is still unassigned. Event-id headers are
// matched first so "EventID" is not read as a timestamp or message column.
var csvRoleKeywords = []struct {
	role     csvRole
	keywords []string
}{
	{roleEventID, []string{"eventid", "event_id", "event id"}},
	{roleTimestamp, []string{"timestamp", "date", "time"}},
	{roleHost, []string{"host", "source", "computer", "machine"}},
	{roleService, []string{"service", "application", "app", "facility", "program", "provider"}},
}

// csvMessageKeywords ranks message candidates, best first. Among headers
// left without another role, the one matching the earliest keyword wins;
// ties go to the leftmost column.
var csvMessageKeywords = []string{"message", "msg", "description", "log", "event", "details"}

// csvColumns holds the column index of each role, -1 when unmapped.
type csvColumns struct {
	eventID, timestamp, host, service, message int
	eventIDName                                string
	extra                                      map[int]string
}

func mapColumns(headers []string) csvColumns {
	cols := csvColumns{eventID: -1, timestamp: -1, host: -1, service: -1, message: -1, extra: map[int]string{}}
	slot := func(r csvRole) *int {
		switch r {
		case roleEventID:
			return &cols.eventID
		case roleTimestamp:
			return &cols.timestamp
		case roleHost:
			return &cols.host
		default:
			return &cols.service
		}
	}

	bestRank := len(csvMessageKeywords)
	for i, h := range headers {
		name := strings.ToLower(strings.TrimSpace(h))
		assigned := false
	roles:
		for _, rk := range csvRoleKeywords {
			if *slot(rk.role) >= 0 {
				continue
			}
			for _, kw := range rk.keywords {
				if strings.Contains(name, kw) {
					*slot(rk.role) = i
					assigned = true
					break roles
				}
			}
		}
		if assigned || name == "" {
			if cols.eventID == i {
				cols.eventIDName = name
			}
			continue
		}
		cols.extra[i] = name
		if r := messageRank(name); r < bestRank {
			cols.message, bestRank = i, r
		}
	}

	if cols.message < 0 && len(headers) > 0 {
		cols.message = len(headers) - 1
	}
	delete(cols.extra, cols.message)
	return cols
}

func messageRank(name string) int {
	for r, kw := range csvMessageKeywords {
		if strings.Contains(name, kw) {
			return r
		}
	}
	return len(csvMessageKeywords)
}

func init() {
	Register(model.FormatCSV, func(Options) Extractor {
		return &csvExtractor{}
	})
}

type csvExtractor struct{}

func (x *csvExtractor) Extract(content string) (Result, error) {
	res := Result{Format: model.FormatCSV}

	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return res, &ConfigurationError{Reason: "file has no header row"}
	}
	if err != nil {
		return res, &ConfigurationError{Reason: "unreadable header row: " + err.Error()}
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	cols := mapColumns(headers)
	if cols.message < 0 {
		return res, &ConfigurationError{Reason: "no message column could be inferred", Headers: headers}
	}

	row := 1
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			slog.Warn("skipping malformed csv row", "row", row, "error", err)
			res.Stats.Records++
			res.skip(row, err.Error())
			continue
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		res.Stats.Records++

		if len(record) <= cols.message {
			slog.Warn("skipping short csv row", "row", row, "columns", len(record), "need", cols.message+1)
			res.skip(row, "row has too few columns for the message field")
			continue
		}

		entry, ok := buildCSVEntry(record, cols)
		if !ok {
			res.skip(row, "empty message")
			continue
		}
		res.add(entry)
	}

	if res.Stats.Records == 0 {
		return res, &ConfigurationError{Reason: "file has no data rows", Headers: headers}
	}
	return res, nil
}

func buildCSVEntry(record []string, cols csvColumns) (model.LogEntry, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	message := field(cols.message)
	details := messageDetails(message, model.FormatCSV)
	for i, name := range cols.extra {
		if v := field(i); v != "" {
			if _, taken := details[name]; !taken {
				details[name] = v
			}
		}
	}

	eventID := model.NoEventID
	if raw := field(cols.eventID); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil {
			eventID = id
			details[model.DetailEventIDColumn] = cols.eventIDName
		}
	}
	if eventID == model.NoEventID {
		eventID = ExtractEventID(message)
	}

	return newEntry(field(cols.timestamp), field(cols.host), field(cols.service), message, eventID, details)
}
