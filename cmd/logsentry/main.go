package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hejijunhao/logsentry/internal/config"
	"github.com/hejijunhao/logsentry/internal/detector"
	"github.com/hejijunhao/logsentry/internal/logging"
	"github.com/hejijunhao/logsentry/internal/metrics"
	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/output"
	"github.com/hejijunhao/logsentry/internal/output/file"
	"github.com/hejijunhao/logsentry/internal/output/multi"
	"github.com/hejijunhao/logsentry/internal/output/stdout"
	"github.com/hejijunhao/logsentry/internal/output/webhook"
	"github.com/hejijunhao/logsentry/internal/parser"
	"github.com/hejijunhao/logsentry/internal/pipeline"
	"github.com/hejijunhao/logsentry/internal/summarize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one CLI invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdoutW, stderrW io.Writer) int {
	cfg := config.Load()
	if err := cfg.ParseArgs(args); err != nil {
		fmt.Fprintf(stderrW, "Error: %v\n\n", err)
		config.Usage(stderrW)
		return 1
	}
	if cfg.ShowVersion {
		fmt.Fprintf(stdoutW, "logsentry %s\n", config.Version)
		return 0
	}
	if cfg.ShowHelp || cfg.Input.Path == "" {
		config.Usage(stdoutW)
		return 0
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderrW, "Error: invalid configuration: %v\n", err)
		return 1
	}

	logging.Init(cfg.Output.Path == "", logging.ParseLevel(cfg.LogLevel))

	reportFormat, _ := output.ParseFormat(cfg.Output.Format)
	logFormat, _ := model.ParseFormat(cfg.Input.Format)

	out, err := buildOutput(cfg, reportFormat)
	if err != nil {
		fmt.Fprintf(stderrW, "Error: %v\n", err)
		return 1
	}

	var m *metrics.Metrics
	if cfg.Output.MetricsFile != "" {
		m = metrics.New()
	}

	p := pipeline.New(detector.Default(), buildSummarizer(cfg), out,
		pipeline.WithMetrics(m),
		pipeline.WithParserOptions(parser.Options{Permissive: cfg.Input.Permissive}),
	)

	_, runErr := p.Run(ctx, cfg.Input.Path, logFormat)
	closeErr := p.Close()

	if m != nil {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			slog.Warn("failed to write metrics file", "path", cfg.Output.MetricsFile, "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderrW, "Error: %v\n", runErr)
		return 1
	}
	if closeErr != nil {
		fmt.Fprintf(stderrW, "Error: %v\n", closeErr)
		return 1
	}
	if cfg.Output.Path != "" {
		fmt.Fprintf(stderrW, "Report written to %s\n", cfg.Output.Path)
	}
	return 0
}

func buildOutput(cfg config.Config, format output.Format) (output.Output, error) {
	var primary output.Output
	if cfg.Output.Path != "" {
		f, err := file.New(cfg.Output.Path, format)
		if err != nil {
			return nil, err
		}
		primary = f
	} else {
		primary = stdout.New(format)
	}

	if cfg.Output.WebhookURL == "" {
		return primary, nil
	}
	return multi.New(primary, webhook.New(cfg.Output.WebhookURL)), nil
}

func buildSummarizer(cfg config.Config) *summarize.Summarizer {
	if cfg.Summary.Disabled {
		return summarize.New(nil, cfg.Summary.MaxPromptTokens)
	}
	client := summarize.NewOllama(cfg.Summary.OllamaURL,
		summarize.WithModel(cfg.Summary.Model),
		summarize.WithTimeout(cfg.Summary.Timeout),
	)
	return summarize.New(client, cfg.Summary.MaxPromptTokens)
}
