// Package pipeline runs one analysis: load, parse, detect, summarize, report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hejijunhao/logsentry/internal/detector"
	"github.com/hejijunhao/logsentry/internal/metrics"
	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/output"
	"github.com/hejijunhao/logsentry/internal/parser"
	"github.com/hejijunhao/logsentry/internal/summarize"
)

// Pipeline connects the parser, detector, summarizer and output.
type Pipeline struct {
	detector   *detector.Detector
	summarizer *summarize.Summarizer
	output     output.Output
	metrics    *metrics.Metrics
	parserOpts parser.Options
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMetrics records run counters into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithParserOptions sets the options passed to every extractor.
func WithParserOptions(opts parser.Options) Option {
	return func(p *Pipeline) { p.parserOpts = opts }
}

// New creates a Pipeline from the given components. out may be nil when
// only Analyze is used; a nil sum always produces the fallback listing.
func New(det *detector.Detector, sum *summarize.Summarizer, out output.Output, opts ...Option) *Pipeline {
	if sum == nil {
		sum = summarize.New(nil, 0)
	}
	p := &Pipeline{
		detector:   det,
		summarizer: sum,
		output:     out,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analysis is the outcome of parsing and detection, before summarization.
type Analysis struct {
	Format   model.Format
	Entries  []model.LogEntry
	Skipped  []parser.RecordSkipped
	Stats    model.ParseStats
	Findings []model.SecurityEvent
	Relevant []model.LogEntry
	Tally    model.EventTally
}

// Analyze parses already-loaded content and runs detection. name is used
// only for extension-based format selection.
func (p *Pipeline) Analyze(name, content string, format model.Format) (Analysis, error) {
	ps := parser.New(p.parserOpts)
	ps.LoadContent(name, content)
	return p.analyze(ps, format)
}

func (p *Pipeline) analyze(ps *parser.Parser, format model.Format) (Analysis, error) {
	res, err := ps.Parse(format)
	if err != nil {
		return Analysis{}, err
	}
	p.metrics.ObserveParse(res.Format.String(), res.Stats)

	findings := p.detector.Analyze(res.Entries)
	p.metrics.ObserveFindings(findings)

	return Analysis{
		Format:   res.Format,
		Entries:  res.Entries,
		Skipped:  res.Skipped,
		Stats:    res.Stats,
		Findings: findings,
		Relevant: detector.Relevant(res.Entries),
		Tally:    detector.Tally(res.Entries),
	}, nil
}

// Run analyzes the file at path and writes the report to the output.
// IOError, FormatError and ConfigurationError abort the run; summarization
// failures degrade the report content but do not.
func (p *Pipeline) Run(ctx context.Context, path string, format model.Format) (output.Report, error) {
	start := time.Now()
	defer p.metrics.ObserveRun(start)

	ps := parser.New(p.parserOpts)
	if err := ps.Load(path); err != nil {
		return output.Report{}, fmt.Errorf("pipeline load: %w", err)
	}
	a, err := p.analyze(ps, format)
	if err != nil {
		return output.Report{}, fmt.Errorf("pipeline parse: %w", err)
	}
	slog.Info("analysis complete", "path", path, "findings", len(a.Findings), "relevant", len(a.Relevant))

	report := p.Summarize(ctx, a)
	report.Source = path

	if p.output != nil {
		if err := p.output.Write(ctx, report); err != nil {
			return report, fmt.Errorf("pipeline output: %w", err)
		}
	}
	return report, nil
}

// Summarize turns an Analysis into a Report.
func (p *Pipeline) Summarize(ctx context.Context, a Analysis) output.Report {
	s := p.summarizer.Report(ctx, a.Findings, a.Relevant, a.Tally)
	if s.Degraded && s.Err != nil {
		p.metrics.SummarizationFailed()
	}

	report := output.NewReport(s.Content)
	report.LogFormat = a.Format.String()
	report.Degraded = s.Degraded
	report.Findings = a.Findings
	report.Tally = a.Tally
	report.Stats = a.Stats
	return report
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	if p.output == nil {
		return nil
	}
	return p.output.Close()
}
