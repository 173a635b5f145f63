package logsentry

import "time"

type options struct {
	permissive      bool
	ollamaURL       string
	model           string
	timeout         time.Duration
	maxPromptTokens int
}

// Option configures a Sentry.
type Option func(*options)

// WithPermissive keeps syslog lines that do not match the header layout as
// message-only entries instead of skipping them.
func WithPermissive() Option {
	return func(o *options) {
		o.permissive = true
	}
}

// WithOllama enables LLM summaries in Summarize using the Ollama server at
// url. An empty model selects "llama3".
func WithOllama(url, model string) Option {
	return func(o *options) {
		o.ollamaURL = url
		o.model = model
	}
}

// WithSummaryTimeout bounds each summarization call, retries included.
// Default: 60s.
func WithSummaryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithMaxPromptTokens caps the findings section of the summary prompt.
// Default: 4000. Zero disables the cap.
func WithMaxPromptTokens(n int) Option {
	return func(o *options) {
		o.maxPromptTokens = n
	}
}

func defaultOptions() options {
	return options{
		timeout:         60 * time.Second,
		maxPromptTokens: 4000,
	}
}
