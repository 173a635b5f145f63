package logsentry

import (
	"context"
	"fmt"

	"github.com/hejijunhao/logsentry/internal/detector"
	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/parser"
	"github.com/hejijunhao/logsentry/internal/summarize"
)

// Format names a supported log layout.
type Format string

const (
	FormatAuto    Format = "auto"
	FormatSyslog  Format = "syslog"
	FormatWindows Format = "windows"
	FormatCSV     Format = "csv"
)

// Error types returned by the parse functions. Match them with errors.As.
type (
	IOError            = parser.IOError
	FormatError        = parser.FormatError
	ConfigurationError = parser.ConfigurationError
)

// Sentry parses and analyzes logs.
type Sentry struct {
	opts       options
	detector   *detector.Detector
	summarizer *summarize.Summarizer
}

// New creates a Sentry. Without WithOllama, Summarize returns the plain
// findings listing.
func New(opts ...Option) *Sentry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var client summarize.Client
	if o.ollamaURL != "" {
		copts := []summarize.Option{summarize.WithTimeout(o.timeout)}
		if o.model != "" {
			copts = append(copts, summarize.WithModel(o.model))
		}
		client = summarize.NewOllama(o.ollamaURL, copts...)
	}

	return &Sentry{
		opts:       o,
		detector:   detector.Default(),
		summarizer: summarize.New(client, o.maxPromptTokens),
	}
}

// ParseFile reads path and extracts its entries. FormatAuto selects the
// format from the file extension, then the content. Gzip-compressed files
// and UTF-16 exports are decoded transparently.
func (s *Sentry) ParseFile(path string, format Format) ([]Entry, Stats, error) {
	f, err := toModelFormat(format)
	if err != nil {
		return nil, Stats{}, err
	}
	res, err := parser.ParseFile(path, f, s.parserOptions())
	if err != nil {
		return nil, Stats{}, err
	}
	return entriesFromModel(res.Entries), Stats(res.Stats), nil
}

// ParseContent extracts entries from in-memory content. name is used only
// for extension-based format selection and may be empty.
func (s *Sentry) ParseContent(name, content string, format Format) ([]Entry, Stats, error) {
	f, err := toModelFormat(format)
	if err != nil {
		return nil, Stats{}, err
	}
	p := parser.New(s.parserOptions())
	p.LoadContent(name, content)
	res, err := p.Parse(f)
	if err != nil {
		return nil, Stats{}, err
	}
	return entriesFromModel(res.Entries), Stats(res.Stats), nil
}

// Analyze returns the findings for entries, ranked by severity.
func (s *Sentry) Analyze(entries []Entry) []Finding {
	return findingsFromModel(s.detector.Analyze(entriesToModel(entries)))
}

// Summarize produces report text for findings. When the summarization
// service is unavailable or not configured, the text is a plain listing
// and degraded is true.
func (s *Sentry) Summarize(ctx context.Context, findings []Finding, entries []Entry) (text string, degraded bool) {
	me := entriesToModel(entries)
	events := make([]model.SecurityEvent, len(findings))
	for i, f := range findings {
		events[i] = model.SecurityEvent(f)
	}
	sum := s.summarizer.Report(ctx, events, detector.Relevant(me), detector.Tally(me))
	return sum.Content, sum.Degraded
}

func (s *Sentry) parserOptions() parser.Options {
	return parser.Options{Permissive: s.opts.permissive}
}

func toModelFormat(f Format) (model.Format, error) {
	mf, ok := model.ParseFormat(string(f))
	if !ok {
		return model.FormatUnknown, fmt.Errorf("logsentry: unknown format %q", f)
	}
	return mf, nil
}

func entriesFromModel(in []model.LogEntry) []Entry {
	out := make([]Entry, len(in))
	for i, e := range in {
		out[i] = Entry(e)
	}
	return out
}

func entriesToModel(in []Entry) []model.LogEntry {
	out := make([]model.LogEntry, len(in))
	for i, e := range in {
		out[i] = model.LogEntry(e)
	}
	return out
}

func findingsFromModel(in []model.SecurityEvent) []Finding {
	out := make([]Finding, len(in))
	for i, e := range in {
		out[i] = Finding(e)
	}
	return out
}
