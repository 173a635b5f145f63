package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3"

	generatePath   = "/api/generate"
	maxRetries     = 3
	maxErrorBody   = 512
	maxRetryAfter  = 30 * time.Second
	defaultTimeout = 60 * time.Second
)

// Ollama calls the Ollama /api/generate endpoint with streaming disabled.
type Ollama struct {
	baseURL    string
	model      string
	backoff    time.Duration
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures an Ollama client.
type Option func(*Ollama)

// WithModel sets the model name sent with each request.
func WithModel(model string) Option {
	return func(o *Ollama) {
		o.model = model
	}
}

// WithTimeout bounds a whole Generate call, retries and backoff included.
// Zero or negative leaves only the caller's context as the bound.
func WithTimeout(d time.Duration) Option {
	return func(o *Ollama) {
		o.timeout = d
	}
}

// WithBackoff sets the first retry delay. Later retries double it.
func WithBackoff(d time.Duration) Option {
	return func(o *Ollama) {
		o.backoff = d
	}
}

// WithHTTPClient replaces the underlying HTTP client. The call budget set by
// WithTimeout applies regardless of option order.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Ollama) {
		o.httpClient = c
	}
}

// NewOllama creates a client for the server at baseURL.
func NewOllama(baseURL string, opts ...Option) *Ollama {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	o := &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   DefaultModel,
		backoff:    time.Second,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Model returns the configured model name.
func (o *Ollama) Model() string {
	return o.model
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

// statusError is a non-2xx response.
type statusError struct {
	code       int
	body       string
	retryAfter string
}

func (e *statusError) Error() string {
	return e.body
}

// Generate sends prompt and returns the model's response text. Every failure
// is an *UnavailableError. Retries on 429 (honouring Retry-After, capped at
// 30s) and 5xx with exponential backoff, at most 3 times, all within the
// configured timeout.
func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	endpoint := o.baseURL + generatePath
	payload, err := json.Marshal(generateRequest{Model: o.model, Prompt: prompt})
	if err != nil {
		return "", &UnavailableError{Endpoint: endpoint, Err: err}
	}

	var last *statusError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := o.backoffDelay(attempt, last)
			slog.Debug("retrying summarization request", "attempt", attempt, "wait", wait, "status", last.code)
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return "", &UnavailableError{Endpoint: endpoint, Err: ctx.Err()}
			case <-t.C:
			}
		}

		text, err := o.post(ctx, endpoint, payload)
		if err == nil {
			return text, nil
		}

		var se *statusError
		if !errors.As(err, &se) {
			return "", &UnavailableError{Endpoint: endpoint, Err: err}
		}
		if se.code == http.StatusTooManyRequests || se.code >= 500 {
			last = se
			continue
		}
		return "", &UnavailableError{Endpoint: endpoint, StatusCode: se.code, Err: se}
	}

	return "", &UnavailableError{Endpoint: endpoint, StatusCode: last.code, Err: last}
}

func (o *Ollama) post(ctx context.Context, endpoint string, payload []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s := string(body)
		if len(s) > maxErrorBody {
			s = s[:maxErrorBody]
		}
		return "", &statusError{code: resp.StatusCode, body: s, retryAfter: resp.Header.Get("Retry-After")}
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama: %s", out.Error)
	}
	return out.Response, nil
}

func (o *Ollama) backoffDelay(attempt int, last *statusError) time.Duration {
	if last != nil && last.code == http.StatusTooManyRequests && last.retryAfter != "" {
		if secs, err := strconv.Atoi(last.retryAfter); err == nil && secs > 0 {
			return min(time.Duration(secs)*time.Second, maxRetryAfter)
		}
	}
	return o.backoff << (attempt - 1)
}
