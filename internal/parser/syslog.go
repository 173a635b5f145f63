package parser

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// syslogRe matches "<Mon> <day> <hh:mm:ss> <host> <service>[<pid>]: <message>".
var syslogRe = regexp.MustCompile(`^([A-Za-z]{3}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(\S+)\s+([^\s\[\]:]+)(?:\[(\d+)\])?:\s+(.+)$`)

func init() {
	Register(model.FormatSyslog, func(opts Options) Extractor {
		return &syslogExtractor{permissive: opts.Permissive}
	})
}

type syslogExtractor struct {
	permissive bool
}

func (x *syslogExtractor) Extract(content string) (Result, error) {
	res := Result{Format: model.FormatSyslog}
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		res.Stats.Records++
		lineNo := i + 1

		entry, ok := x.parseLine(line)
		if !ok {
			slog.Debug("skipping record", "format", "syslog", "line", lineNo, "reason", "no match")
			res.skip(lineNo, "does not match syslog layout")
			continue
		}
		res.add(entry)
	}
	return res, nil
}

// parseLine extracts one entry. In permissive mode a non-matching line
// becomes a message-only entry.
func (x *syslogExtractor) parseLine(line string) (model.LogEntry, bool) {
	m := syslogRe.FindStringSubmatch(line)
	if m == nil {
		if !x.permissive {
			return model.LogEntry{}, false
		}
		msg := strings.TrimSpace(line)
		return newEntry("", "", "", msg, ExtractEventID(msg), messageDetails(msg, model.FormatSyslog))
	}

	timestamp, host, service, pid, message := m[1], m[2], m[3], m[4], m[5]
	details := messageDetails(message, model.FormatSyslog)
	if pid != "" {
		details[model.DetailPID] = pid
	}
	// The whole line is searched so that, absent an explicit event id in the
	// message, the service pid serves as the identifier.
	return newEntry(timestamp, host, service, message, ExtractEventID(line), details)
}
