package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hejijunhao/logsentry/internal/model"
)

// Output defines the interface for report destinations.
type Output interface {
	Write(ctx context.Context, report Report) error
	Close() error
}

// Report is the final product of one analysis run.
type Report struct {
	ID          string
	GeneratedAt time.Time
	Source      string
	LogFormat   string
	Content     string
	// Degraded is set when Content is the fallback listing rather than a model summary.
	Degraded bool
	Findings []model.SecurityEvent
	Tally    model.EventTally
	Stats    model.ParseStats
}

// NewReport creates a Report with a fresh id, stamped with the current time.
func NewReport(content string) Report {
	return Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		Content:     content,
	}
}
