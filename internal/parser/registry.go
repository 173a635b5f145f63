package parser

import (
	"fmt"
	"slices"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Result is the outcome of extracting one source.
type Result struct {
	Format  model.Format
	Entries []model.LogEntry
	Stats   model.ParseStats
	Skipped []RecordSkipped
}

// skip records a dropped record.
func (r *Result) skip(record int, reason string) {
	r.Stats.Skipped++
	r.Skipped = append(r.Skipped, RecordSkipped{Record: record, Reason: reason})
}

// add appends a parsed entry.
func (r *Result) add(e model.LogEntry) {
	r.Stats.Parsed++
	r.Entries = append(r.Entries, e)
}

// Extractor turns the full content of one source into ordered entries.
// Implementations must not fail on a single bad record.
type Extractor interface {
	Extract(content string) (Result, error)
}

// Constructor creates an Extractor configured with opts.
type Constructor func(opts Options) Extractor

var registry = map[model.Format]Constructor{}

// Register adds an extractor constructor for a format.
func Register(f model.Format, ctor Constructor) {
	registry[f] = ctor
}

// Get returns the extractor constructor for a format.
func Get(f model.Format) (Constructor, error) {
	ctor, ok := registry[f]
	if !ok {
		return nil, &FormatError{Format: f, Reason: fmt.Sprintf("no extractor for %s", f)}
	}
	return ctor, nil
}

// Formats returns the formats that have a registered extractor.
func Formats() []model.Format {
	out := make([]model.Format, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
