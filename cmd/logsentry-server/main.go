package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hejijunhao/logsentry/internal/config"
	"github.com/hejijunhao/logsentry/internal/detector"
	"github.com/hejijunhao/logsentry/internal/logging"
	"github.com/hejijunhao/logsentry/internal/metrics"
	"github.com/hejijunhao/logsentry/internal/parser"
	"github.com/hejijunhao/logsentry/internal/pipeline"
	"github.com/hejijunhao/logsentry/internal/server"
	"github.com/hejijunhao/logsentry/internal/summarize"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(true, logging.ParseLevel(cfg.LogLevel))

	var sum *summarize.Summarizer
	if !cfg.Summary.Disabled {
		client := summarize.NewOllama(cfg.Summary.OllamaURL,
			summarize.WithModel(cfg.Summary.Model),
			summarize.WithTimeout(cfg.Summary.Timeout),
		)
		sum = summarize.New(client, cfg.Summary.MaxPromptTokens)
	}

	m := metrics.New()
	p := pipeline.New(detector.Default(), sum, nil,
		pipeline.WithMetrics(m),
		pipeline.WithParserOptions(parser.Options{Permissive: cfg.Input.Permissive}),
	)
	srv := server.New(p, m, cfg.Server.MaxBodyBytes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting logsentry-server", "version", config.Version, "summary", !cfg.Summary.Disabled)
	if err := server.ListenAndServe(ctx, cfg.Server.ListenAddr, srv.Router(), cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
