// Package summarize turns detector findings into a natural-language report
// using a local LLM, and degrades to a plain listing when none is reachable.
package summarize

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every *UnavailableError.
var ErrUnavailable = errors.New("summarization unavailable")

// Client generates text for a prompt.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UnavailableError reports that the summarization service could not produce
// a response: transport failure, non-2xx status, or an unreadable body.
type UnavailableError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("summarize: %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("summarize: %s: %v", e.Endpoint, e.Err)
}

func (e *UnavailableError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}
