package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hejijunhao/logsentry/internal/model"
	"github.com/hejijunhao/logsentry/internal/output"
)

// Version is the release version of logsentry.
const Version = "0.3.0"

// Config holds all logsentry configuration.
type Config struct {
	Input       InputConfig
	Summary     SummaryConfig
	Output      OutputConfig
	Server      ServerConfig
	LogLevel    string
	ShowVersion bool
	ShowHelp    bool
}

// InputConfig selects the log source and how it is parsed.
type InputConfig struct {
	Path       string
	Format     string // "auto", "syslog", "windows", "csv"
	Permissive bool
}

// SummaryConfig holds settings for the LLM summarization step.
type SummaryConfig struct {
	Disabled        bool
	OllamaURL       string
	Model           string
	Timeout         time.Duration
	MaxPromptTokens int
}

// OutputConfig holds report destination settings.
type OutputConfig struct {
	Format      string // "text" or "json"
	Path        string // empty means stdout
	WebhookURL  string
	MetricsFile string
}

// ServerConfig holds settings for logsentry-server.
type ServerConfig struct {
	ListenAddr      string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Input: InputConfig{
			Format:     getenv("LOGSENTRY_FORMAT", "auto"),
			Permissive: getenvBool("LOGSENTRY_PERMISSIVE", false),
		},
		Summary: SummaryConfig{
			Disabled:        getenvBool("LOGSENTRY_SUMMARY_DISABLED", false),
			OllamaURL:       getenv("LOGSENTRY_OLLAMA_URL", "http://localhost:11434"),
			Model:           getenv("LOGSENTRY_MODEL", "llama3"),
			Timeout:         getenvDuration("LOGSENTRY_SUMMARY_TIMEOUT", 60*time.Second),
			MaxPromptTokens: getenvInt("LOGSENTRY_MAX_PROMPT_TOKENS", 4000),
		},
		Output: OutputConfig{
			Format:      getenv("LOGSENTRY_REPORT_FORMAT", "text"),
			Path:        os.Getenv("LOGSENTRY_OUTPUT"),
			WebhookURL:  os.Getenv("LOGSENTRY_WEBHOOK_URL"),
			MetricsFile: os.Getenv("LOGSENTRY_METRICS_FILE"),
		},
		Server: ServerConfig{
			ListenAddr:      getenv("LOGSENTRY_LISTEN_ADDR", ":8080"),
			ShutdownTimeout: getenvDuration("LOGSENTRY_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodyBytes:    int64(getenvInt("LOGSENTRY_MAX_BODY_BYTES", 32<<20)),
		},
		LogLevel: getenv("LOGSENTRY_LOG_LEVEL", "info"),
	}
}

// ParseArgs applies command-line flags on top of c. The single positional
// argument is the log file; flags may appear before or after it.
func (c *Config) ParseArgs(args []string) error {
	fs := newFlagSet(c)

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	switch len(positional) {
	case 0:
	case 1:
		c.Input.Path = positional[0]
	default:
		return fmt.Errorf("config: expected one log file, got %d: %s", len(positional), strings.Join(positional, " "))
	}
	return nil
}

func newFlagSet(c *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("logsentry", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	fs.StringVar(&c.Output.Path, "output", c.Output.Path, "write the report to `path` instead of stdout")
	fs.StringVar(&c.Output.Format, "format", c.Output.Format, "report format: text or json")
	fs.StringVar(&c.Input.Format, "log-format", c.Input.Format, "input format: auto, syslog, windows or csv")
	fs.BoolVar(&c.Input.Permissive, "permissive", c.Input.Permissive, "keep syslog lines that do not match the header layout")
	fs.BoolVar(&c.Summary.Disabled, "no-summary", c.Summary.Disabled, "skip the LLM and print the plain findings listing")
	fs.StringVar(&c.Summary.OllamaURL, "ollama-url", c.Summary.OllamaURL, "Ollama server base `url`")
	fs.StringVar(&c.Summary.Model, "model", c.Summary.Model, "Ollama model name")
	fs.StringVar(&c.Output.WebhookURL, "webhook", c.Output.WebhookURL, "also POST the JSON report to `url`")
	fs.StringVar(&c.Output.MetricsFile, "metrics-file", c.Output.MetricsFile, "write Prometheus metrics to `path` (node-exporter textfile)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "diagnostic log level: debug, info, warn or error")
	fs.BoolVar(&c.ShowVersion, "version", false, "print version and exit")
	fs.BoolVar(&c.ShowHelp, "help", false, "show this help")
	fs.BoolVar(&c.ShowHelp, "h", false, "show this help")
	return fs
}

// Usage writes the command synopsis and flag defaults to w.
func Usage(w io.Writer) {
	cfg := Load()
	fs := newFlagSet(&cfg)
	fs.SetOutput(w)
	fmt.Fprintf(w, "Usage: logsentry <logfile> [flags]\n\n")
	fmt.Fprintf(w, "Detects security events in syslog, Windows Event XML and CSV exports\nand prints a summary report.\n\nFlags:\n")
	fs.PrintDefaults()
}

// Validate checks the configuration for errors. Returns all problems joined.
func (c Config) Validate() error {
	var errs []error

	if _, ok := model.ParseFormat(c.Input.Format); !ok {
		errs = append(errs, fmt.Errorf("unknown log format %q (want auto, syslog, windows or csv)", c.Input.Format))
	}
	if _, err := output.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("unknown report format %q (want text or json)", c.Output.Format))
	}
	if !c.Summary.Disabled {
		if err := checkURL(c.Summary.OllamaURL); err != nil {
			errs = append(errs, fmt.Errorf("LOGSENTRY_OLLAMA_URL: %w", err))
		}
		if c.Summary.Model == "" {
			errs = append(errs, errors.New("LOGSENTRY_MODEL must not be empty"))
		}
		if c.Summary.Timeout <= 0 {
			errs = append(errs, fmt.Errorf("summary timeout must be positive, got %v", c.Summary.Timeout))
		}
	}
	if c.Summary.MaxPromptTokens < 0 {
		errs = append(errs, fmt.Errorf("max prompt tokens must be >= 0, got %d", c.Summary.MaxPromptTokens))
	}
	if c.Output.WebhookURL != "" {
		if err := checkURL(c.Output.WebhookURL); err != nil {
			errs = append(errs, fmt.Errorf("LOGSENTRY_WEBHOOK_URL: %w", err))
		}
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be >= 0, got %v", c.Server.ShutdownTimeout))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max body bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}

	return errors.Join(errs...)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
