package parser

import (
	"fmt"
	"strings"

	"github.com/hejijunhao/logsentry/internal/model"
)

// IOError reports that a source could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// FormatError reports content that no extractor can handle.
type FormatError struct {
	Format model.Format
	Reason string
}

func (e *FormatError) Error() string {
	if e.Format == model.FormatUnknown {
		return "unsupported log format: " + e.Reason
	}
	return fmt.Sprintf("unsupported %s content: %s", e.Format, e.Reason)
}

// ConfigurationError reports a CSV header that cannot be mapped onto the
// entry fields. Headers lists the columns that were available.
type ConfigurationError struct {
	Reason  string
	Headers []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("csv: %s (available headers: [%s])", e.Reason, strings.Join(e.Headers, ", "))
}

// RecordSkipped describes one record dropped during extraction. It is never
// returned from Parse; skipped records are collected on the Result instead.
type RecordSkipped struct {
	Record int    `json:"record"` // 1-based line or record number
	Reason string `json:"reason"`
}

func (e RecordSkipped) Error() string {
	return fmt.Sprintf("record %d skipped: %s", e.Record, e.Reason)
}
