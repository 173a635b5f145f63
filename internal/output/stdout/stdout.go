package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hejijunhao/logsentry/internal/output"
)

// Output prints reports to stdout.
type Output struct {
	w      io.Writer
	format output.Format
}

// New creates a stdout Output rendering in the given format.
func New(format output.Format) *Output {
	return &Output{w: os.Stdout, format: format}
}

func (o *Output) Write(_ context.Context, r output.Report) error {
	if err := output.Render(o.w, r, o.format); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
